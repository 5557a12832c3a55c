package server

import (
	"bufio"
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/ironsheep/image-augment/internal/augment"
	"github.com/ironsheep/image-augment/internal/imgaug"
)

func TestNew(t *testing.T) {
	s := New()
	if s.cache == nil || s.logger == nil {
		t.Fatal("New() left the cache or logger unset")
	}
	if s.registry != imgaug.DefaultRegistry() {
		t.Error("New() should fall back to the default registry")
	}

	r := augment.NewRegistry()
	if got := New(WithRegistry(r)).registry; got != r {
		t.Error("WithRegistry was ignored")
	}
}

func TestHandleRequest(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		wantNil  bool
		wantCode int
	}{
		{"initialize", "initialize", false, 0},
		{"ping", "ping", false, 0},
		{"tools list", "tools/list", false, 0},
		{"initialized notification", "notifications/initialized", true, 0},
		{"unknown method", "resources/list", false, codeMethodNotFound},
	}

	s := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", ID: "req-1", Method: tt.method})
			if tt.wantNil {
				if resp != nil {
					t.Errorf("expected no response, got %+v", resp)
				}
				return
			}
			if resp == nil {
				t.Fatal("handleRequest returned nil")
			}
			if resp.ID != "req-1" || resp.JSONRPC != "2.0" {
				t.Errorf("envelope: got id %v jsonrpc %q", resp.ID, resp.JSONRPC)
			}
			switch {
			case tt.wantCode == 0 && resp.Error != nil:
				t.Errorf("unexpected error %+v", resp.Error)
			case tt.wantCode != 0 && (resp.Error == nil || resp.Error.Code != tt.wantCode):
				t.Errorf("error: got %+v, want code %d", resp.Error, tt.wantCode)
			}
		})
	}
}

func TestHandleRequest_ToolsList(t *testing.T) {
	resp := New().handleRequest(&MCPRequest{ID: 1, Method: "tools/list"})
	tools, ok := resp.Result.(map[string]interface{})["tools"].([]Tool)
	if !ok {
		t.Fatalf("tools: got %T", resp.Result)
	}
	if len(tools) != 5 {
		t.Errorf("Expected 5 tools, got %d", len(tools))
	}
}

func TestHandleInitialize_Version(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
		want string
	}{
		{"default", nil, "0.1.0"},
		{"set", []Option{WithVersion("1.2.3")}, "1.2.3"},
		{"empty keeps default", []Option{WithVersion("")}, "0.1.0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := New(tt.opts...).handleInitialize(&MCPRequest{ID: 1}).Result.(map[string]interface{})
			if result["protocolVersion"] != "2024-11-05" {
				t.Errorf("protocolVersion: got %v", result["protocolVersion"])
			}
			info := result["serverInfo"].(map[string]interface{})
			if info["name"] != "image-augment" || info["version"] != tt.want {
				t.Errorf("serverInfo: got %v, want image-augment %s", info, tt.want)
			}
		})
	}
}

// serve runs the server over lines and decodes every response it wrote.
func serve(t *testing.T, s *Server, lines ...string) []MCPResponse {
	t.Helper()
	var out bytes.Buffer
	if err := s.Serve(strings.NewReader(strings.Join(lines, "\n")), &out); err != nil {
		t.Fatalf("Serve failed: %v", err)
	}

	var resps []MCPResponse
	scanner := bufio.NewScanner(&out)
	for scanner.Scan() {
		var resp MCPResponse
		if err := json.Unmarshal(scanner.Bytes(), &resp); err != nil {
			t.Fatalf("bad response line %q: %v", scanner.Text(), err)
		}
		resps = append(resps, resp)
	}
	return resps
}

func TestServe(t *testing.T) {
	resps := serve(t, New(),
		`{"jsonrpc":"2.0","id":1,"method":"initialize"}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		``,
		`{"jsonrpc":"2.0","id":2,"method":"ping"}`,
		`{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"augment_list","arguments":{}}}`,
	)

	if len(resps) != 3 {
		t.Fatalf("got %d responses, want 3", len(resps))
	}
	for i, resp := range resps {
		if resp.Error != nil {
			t.Errorf("response %v: unexpected error %v", resp.ID, resp.Error)
		}
		if resp.ID != float64(i+1) {
			t.Errorf("response %d: id %v, want %d", i, resp.ID, i+1)
		}
	}
}

func TestServe_ParseError(t *testing.T) {
	resps := serve(t, New(),
		`not json`,
		`{"jsonrpc":"2.0","id":7,"method":"ping"}`,
	)

	if len(resps) != 2 {
		t.Fatalf("got %d responses, want 2", len(resps))
	}
	if resps[0].ID != nil || resps[0].Error == nil || resps[0].Error.Code != codeParseError {
		t.Errorf("parse failure: got %+v", resps[0])
	}
	if resps[1].ID != float64(7) || resps[1].Error != nil {
		t.Errorf("the server should keep going after a bad line, got %+v", resps[1])
	}
}

func TestServe_RequestTooLarge(t *testing.T) {
	line := `{"jsonrpc":"2.0","id":1,"method":"ping","params":"` + strings.Repeat("x", maxRequestSize) + `"}`
	var out bytes.Buffer
	if err := New().Serve(strings.NewReader(line), &out); err == nil {
		t.Error("expected an error for a request line over the limit")
	}
}

func TestServe_Logging(t *testing.T) {
	var logs bytes.Buffer
	logger := log.NewWithOptions(&logs, log.Options{Level: log.DebugLevel})
	s := New(WithLogger(logger), WithVersion("9.9.9"))

	serve(t, s,
		`{oops`,
		`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"augment_list","arguments":{}}}`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"no_such_tool","arguments":{}}}`,
	)

	got := logs.String()
	for _, want := range []string{"serving", "9.9.9", "unparseable request", "tool call", "tool call failed", "no_such_tool"} {
		if !strings.Contains(got, want) {
			t.Errorf("log missing %q:\n%s", want, got)
		}
	}
}
