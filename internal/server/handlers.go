package server

import (
	"encoding/json"
	"fmt"

	"github.com/ironsheep/image-augment/internal/augment"
	"github.com/ironsheep/image-augment/internal/imaging"
	"github.com/ironsheep/image-augment/internal/pipeline"
	"github.com/ironsheep/image-augment/internal/rng"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "augment_apply").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "image_load":
		return s.handleImageLoad(args)

	case "augment_list":
		return s.handleAugmentList(args)
	case "augment_describe":
		return s.handleAugmentDescribe(args)
	case "augment_apply":
		return s.handleAugmentApply(args)
	case "augment_replay":
		return s.handleAugmentReplay(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response. An empty data is left
// out of the response.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	e := &MCPError{Code: code, Message: message}
	if data != "" {
		e.Data = data
	}
	return &MCPResponse{JSONRPC: "2.0", ID: id, Error: e}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodePipeline builds the inline pipeline of a tool call. A pipeline
// that carries a seed fixes the generators only for the duration of the
// call; the returned release func must be deferred.
func (s *Server) decodePipeline(raw json.RawMessage) (*pipeline.Pipeline, func(), error) {
	if len(raw) == 0 {
		return nil, nil, fmt.Errorf("pipeline is required")
	}
	p, err := pipeline.Decode(raw, pipeline.JSON, s.registry)
	if err != nil {
		return nil, nil, err
	}
	release := func() {}
	if p.Seed != nil {
		release = rng.Unfix
	}
	return p, release, nil
}

// === Image Information ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

// === Registry ===

type augmentorInfo struct {
	Name   string         `json:"name"`
	Doc    string         `json:"doc,omitempty"`
	Fields augment.Schema `json:"fields"`
}

func (s *Server) handleAugmentList(_ json.RawMessage) (interface{}, error) {
	specs := s.registry.Specs()
	infos := make([]augmentorInfo, 0, len(specs))
	for _, spec := range specs {
		fields := spec.Schema
		if fields == nil {
			fields = augment.Schema{}
		}
		infos = append(infos, augmentorInfo{Name: spec.Name, Doc: spec.Doc, Fields: fields})
	}
	return map[string]interface{}{
		"augmentors": infos,
		"count":      len(infos),
	}, nil
}

// === Pipelines ===

type pipelineArgs struct {
	Pipeline json.RawMessage `json:"pipeline"`
}

func (s *Server) handleAugmentDescribe(args json.RawMessage) (interface{}, error) {
	var a pipelineArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	p, release, err := s.decodePipeline(a.Pipeline)
	if err != nil {
		return nil, err
	}
	defer release()

	return map[string]interface{}{
		"description": p.String(),
		"augmentors":  p.List.Config()["augmentors"],
		"seed":        p.Seed,
	}, nil
}

type augmentApplyArgs struct {
	Path       string          `json:"path"`
	Pipeline   json.RawMessage `json:"pipeline"`
	Points     []augment.Point `json:"points"`
	Gray       bool            `json:"gray"`
	DrawPoints bool            `json:"draw_points"`
	PointColor string          `json:"point_color"`
}

type augmentApplyResult struct {
	*imaging.EncodeResult
	Points      []augment.Point `json:"points,omitempty"`
	Description string          `json:"description"`
}

func (s *Server) handleAugmentApply(args json.RawMessage) (interface{}, error) {
	var a augmentApplyArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.PointColor == "" {
		a.PointColor = "#FF0000"
	}

	p, release, err := s.decodePipeline(a.Pipeline)
	if err != nil {
		return nil, err
	}
	defer release()

	img, err := imaging.LoadArray(s.cache, a.Path, a.Gray)
	if err != nil {
		return nil, err
	}
	res, err := p.Run(img, nil, a.Points)
	if err != nil {
		return nil, err
	}

	out := res.Image
	if a.DrawPoints && len(res.Points) > 0 {
		if out, err = imaging.DrawPoints(out, res.Points, 3, a.PointColor, true); err != nil {
			return nil, err
		}
	}
	enc, err := imaging.EncodePNGBase64(out)
	if err != nil {
		return nil, err
	}
	return &augmentApplyResult{EncodeResult: enc, Points: res.Points, Description: p.String()}, nil
}

type augmentReplayArgs struct {
	Path     string          `json:"path"`
	MaskPath string          `json:"mask_path"`
	Pipeline json.RawMessage `json:"pipeline"`
}

func (s *Server) handleAugmentReplay(args json.RawMessage) (interface{}, error) {
	var a augmentReplayArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.MaskPath == "" {
		return nil, fmt.Errorf("mask_path is required")
	}

	p, release, err := s.decodePipeline(a.Pipeline)
	if err != nil {
		return nil, err
	}
	defer release()

	img, err := imaging.LoadArray(s.cache, a.Path, false)
	if err != nil {
		return nil, err
	}
	mask, err := imaging.LoadArray(s.cache, a.MaskPath, true)
	if err != nil {
		return nil, fmt.Errorf("mask: %w", err)
	}
	res, err := p.Run(img, mask, nil)
	if err != nil {
		return nil, err
	}

	imgEnc, err := imaging.EncodePNGBase64(res.Image)
	if err != nil {
		return nil, err
	}
	maskEnc, err := imaging.EncodePNGBase64(res.Mask)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"image":       imgEnc,
		"mask":        maskEnc,
		"description": p.String(),
	}, nil
}
