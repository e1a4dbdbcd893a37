package mcptools

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/abhisek/physiq/internal/config"
	"github.com/abhisek/physiq/internal/engine"
	"github.com/abhisek/physiq/internal/logging"
	"github.com/abhisek/physiq/internal/persistence"
	"github.com/abhisek/physiq/internal/skillgraph"
)

type defaultGraph struct{}

func (defaultGraph) FetchGraph(context.Context) (skillgraph.Data, error) {
	return skillgraph.Default(), nil
}

type memStore struct {
	mu    sync.Mutex
	saves int
}

func (m *memStore) FetchProgress(context.Context, string) (persistence.Document, error) {
	return persistence.Document{}, persistence.ErrNotFound
}

func (m *memStore) SaveProgress(context.Context, string, persistence.Document) error {
	m.mu.Lock()
	m.saves++
	m.mu.Unlock()
	return nil
}

func newTestTools(t *testing.T) (*Tools, *memStore) {
	t.Helper()
	st := &memStore{}
	eng := engine.New(engine.Deps{Graphs: defaultGraph{}, Store: st, Logger: logging.Discard()})
	t.Cleanup(eng.Close)
	if _, err := eng.Initialize(context.Background(), config.DefaultConfig()); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	return New(eng, "test"), st
}

func call(t *testing.T, h func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (string, bool) {
	t.Helper()
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	res, err := h(context.Background(), req)
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if len(res.Content) == 0 {
		t.Fatal("empty result")
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want mcp.TextContent", res.Content[0])
	}
	return text.Text, res.IsError
}

func TestNew(t *testing.T) {
	tools, _ := newTestTools(t)
	if tools.Server() == nil {
		t.Fatal("expected MCP server to be initialized")
	}
}

func TestHTTPHandlerInitialize(t *testing.T) {
	tools, _ := newTestTools(t)
	body := `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"test","version":"1"}}}`
	req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	tools.HTTPHandler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"physiq"`) {
		t.Errorf("expected server name in %s", rec.Body.String())
	}
}

func TestSkillTree(t *testing.T) {
	tools, _ := newTestTools(t)

	out, isErr := call(t, tools.handleSkillTree, map[string]any{})
	if isErr {
		t.Fatalf("unexpected error: %s", out)
	}
	if !strings.Contains(out, "Reputation: 10") {
		t.Errorf("missing currencies in %q", out)
	}
	if !strings.Contains(out, "quantum_comprehension") {
		t.Errorf("missing node in %q", out)
	}

	out, _ = call(t, tools.handleSkillTree, map[string]any{"specialization": "research"})
	if strings.Contains(out, "quantum_comprehension") {
		t.Errorf("filter leaked theory node: %q", out)
	}
	if !strings.Contains(out, "literature_review") {
		t.Errorf("filter dropped research node: %q", out)
	}
}

func TestNodeInfo(t *testing.T) {
	tools, _ := newTestTools(t)

	out, isErr := call(t, tools.handleNodeInfo, map[string]any{"node_id": "dosimetry_theory"})
	if isErr {
		t.Fatalf("unexpected error: %s", out)
	}
	for _, want := range []string{"Dosimetry Theory", "Blocked by: insufficient_reputation", "quantum_comprehension, radiation_detection", "insight_gain_flat = 3"} {
		if !strings.Contains(out, want) {
			t.Errorf("node_info missing %q in:\n%s", want, out)
		}
	}

	_, isErr = call(t, tools.handleNodeInfo, map[string]any{"node_id": "warp_drive"})
	if !isErr {
		t.Error("expected error for unknown node")
	}
}

func TestNodeActions(t *testing.T) {
	tools, _ := newTestTools(t)

	tests := []struct {
		name    string
		handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)
		node    string
		wantErr bool
		want    string
	}{
		{"unlock", tools.nodeAction("unlock", tools.engine.Unlock), "radiation_detection", false, "now unlocked"},
		{"unlock again", tools.nodeAction("unlock", tools.engine.Unlock), "radiation_detection", false, "already_unlocked"},
		{"activate", tools.nodeAction("activate", tools.engine.Activate), "radiation_detection", false, "now active"},
		{"deactivate core", tools.nodeAction("deactivate", tools.engine.Deactivate), "radiation_physics", true, "core_node"},
		{"missing id", tools.nodeAction("unlock", tools.engine.Unlock), "", true, "node_id is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, isErr := call(t, tt.handler, map[string]any{"node_id": tt.node})
			if isErr != tt.wantErr {
				t.Errorf("isError = %v, want %v (%s)", isErr, tt.wantErr, out)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("got %q, want it to contain %q", out, tt.want)
			}
		})
	}
}

func TestStartRunAndEffects(t *testing.T) {
	tools, _ := newTestTools(t)

	out, isErr := call(t, tools.handleStartRun, map[string]any{"character_level": float64(6)})
	if isErr {
		t.Fatalf("unexpected error: %s", out)
	}
	if !strings.Contains(out, "with 7 skill points") {
		t.Errorf("got %q, want 7 skill points", out)
	}

	out, isErr = call(t, tools.handleEffectValue, map[string]any{"effect_type": "insight_gain_flat"})
	if isErr {
		t.Fatalf("unexpected error: %s", out)
	}
	if !strings.Contains(out, "insight_gain_flat (additive) = 2") || !strings.Contains(out, "- radiation_physics: 2") {
		t.Errorf("unexpected effect output:\n%s", out)
	}
}

func TestSaveProgress(t *testing.T) {
	tools, st := newTestTools(t)

	out, isErr := call(t, tools.handleSave, nil)
	if isErr {
		t.Fatalf("unexpected error: %s", out)
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.saves != 1 {
		t.Errorf("got %d saves, want 1", st.saves)
	}
}
