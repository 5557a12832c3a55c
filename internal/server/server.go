package server

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ironsheep/image-augment/internal/augment"
	"github.com/ironsheep/image-augment/internal/imaging"
	"github.com/ironsheep/image-augment/internal/imgaug"
)

// JSON-RPC error codes used in responses.
const (
	codeParseError     = -32700
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeToolFailed     = -32000
)

// maxRequestSize bounds one request line. Inline pipelines are small; the
// images themselves are passed by path.
const maxRequestSize = 1024 * 1024

// Server answers MCP requests with augmentation tools.
type Server struct {
	cache    *imaging.ImageCache
	registry *augment.Registry
	logger   *log.Logger
	version  string
}

// Option configures a Server.
type Option func(*Server)

// WithRegistry makes the server build pipelines through r.
func WithRegistry(r *augment.Registry) Option {
	return func(s *Server) { s.registry = r }
}

// WithLogger sends request and failure logs to l. Without it the server
// logs nothing.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithVersion sets the version reported during initialize. An empty v
// keeps the default.
func WithVersion(v string) Option {
	return func(s *Server) {
		if v != "" {
			s.version = v
		}
	}
}

// MCPRequest is an incoming JSON-RPC request or notification.
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse is an outgoing JSON-RPC response.
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError is the error member of a response.
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// New creates a server. Unless WithRegistry is given it uses the default
// augmentor registry.
func New(opts ...Option) *Server {
	s := &Server{
		cache:   imaging.NewImageCache(),
		logger:  log.New(io.Discard),
		version: "0.1.0",
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		s.registry = imgaug.DefaultRegistry()
	}
	return s
}

// Serve reads one JSON-RPC message per line from in and writes responses
// to out until in is exhausted. Lines that are not JSON get a parse error
// response with a null id.
func (s *Server) Serve(in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxRequestSize)
	encoder := json.NewEncoder(out)

	s.logger.Debug("serving", "version", s.version)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var resp *MCPResponse
		var req MCPRequest
		if err := json.Unmarshal(line, &req); err != nil {
			s.logger.Warn("unparseable request", "err", err)
			resp = s.errorResponse(nil, codeParseError, "Parse error", err.Error())
		} else {
			resp = s.handleRequest(&req)
		}

		if resp == nil {
			continue
		}
		if err := encoder.Encode(resp); err != nil {
			return fmt.Errorf("write response: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read request: %w", err)
	}
	s.logger.Debug("input closed")
	return nil
}

// handleRequest dispatches req by method. Notifications return nil.
func (s *Server) handleRequest(req *MCPRequest) *MCPResponse {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		start := time.Now()
		resp := s.handleToolsCall(req)
		if resp.Error != nil {
			s.logger.Warn("tool call failed", "id", req.ID, "err", resp.Error.Data)
		} else {
			s.logger.Debug("tool call", "id", req.ID, "elapsed", time.Since(start).Round(time.Millisecond))
		}
		return resp
	case "ping":
		return &MCPResponse{JSONRPC: "2.0", ID: req.ID, Result: map[string]interface{}{}}
	default:
		return s.errorResponse(req.ID, codeMethodNotFound, fmt.Sprintf("Method not found: %s", req.Method), "")
	}
}

func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    "image-augment",
				"version": s.version,
			},
		},
	}
}
