package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/toolate28/spiralsafe-mono/internal/gate"
	"github.com/toolate28/spiralsafe-mono/internal/model"
	"github.com/toolate28/spiralsafe-mono/internal/score"
)

// --- Test helpers ---

// isErrorResult checks if the result is a tool error.
func isErrorResult(result *mcp.CallToolResult) bool {
	return result != nil && result.IsError
}

// getResultText extracts the text content from a CallToolResult.
func getResultText(result *mcp.CallToolResult) string {
	if result == nil || len(result.Content) == 0 {
		return ""
	}
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func writeSessionLog(t *testing.T, dir, session string, lines ...string) {
	t.Helper()
	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(filepath.Join(dir, session+".jsonl"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// --- Tests ---

func TestListSessionsTool(t *testing.T) {
	dir := t.TempDir()
	writeSessionLog(t, dir, "s1",
		`{"timestamp":"2026-01-01T10:00:00Z","event":"SessionStart","session_id":"s1","data":{}}`)

	tool := NewListSessionsTool(dir)
	result, err := tool.Handle(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if isErrorResult(result) {
		t.Fatalf("expected success, got error: %s", getResultText(result))
	}

	var infos []model.SessionInfo
	if err := json.Unmarshal([]byte(getResultText(result)), &infos); err != nil {
		t.Fatalf("result is not SessionInfo JSON: %v", err)
	}
	if len(infos) != 1 || infos[0].SessionID != "s1" || infos[0].EntryCount != 1 {
		t.Fatalf("unexpected listing: %+v", infos)
	}
}

func TestGetEntriesTool(t *testing.T) {
	dir := t.TempDir()
	writeSessionLog(t, dir, "s1",
		`{"timestamp":"t1","event":"SessionStart","session_id":"s1","data":{}}`,
		`{"timestamp":"t2","event":"Stop","session_id":"s1","data":{}}`)

	tool := NewGetEntriesTool(dir)
	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]interface{}{"session_id": "s1"}

	result, err := tool.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	var entries []model.LogEntry
	if err := json.Unmarshal([]byte(getResultText(result)), &entries); err != nil {
		t.Fatalf("result is not LogEntry JSON: %v", err)
	}
	if len(entries) != 2 || entries[1].Event != "Stop" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

func TestGetEntriesToolRequiresSessionID(t *testing.T) {
	tool := NewGetEntriesTool(t.TempDir())
	result, err := tool.Handle(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if !isErrorResult(result) {
		t.Fatal("expected tool error without session_id")
	}
}

func TestScoreTextTool(t *testing.T) {
	tool := NewScoreTextTool()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]interface{}{
		"text": "The tide rises. The tide falls.",
	}

	result, err := tool.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	var m score.WaveMetrics
	if err := json.Unmarshal([]byte(getResultText(result)), &m); err != nil {
		t.Fatalf("result is not WaveMetrics JSON: %v", err)
	}
	if m.Words == 0 || m.Coherence < 0 || m.Coherence > 1 {
		t.Fatalf("unexpected metrics: %+v", m)
	}
}

func TestGenerateTagTool(t *testing.T) {
	tool := NewGenerateTagTool(score.NewMemoryCounters())
	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]interface{}{"type": "wave"}

	result, err := tool.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	tag := getResultText(result)
	if !strings.HasPrefix(tag, "WAVE-") || !strings.HasSuffix(tag, "-0001") {
		t.Fatalf("unexpected tag: %s", tag)
	}
}

func TestCheckGateToolSingleGate(t *testing.T) {
	tool := NewCheckGateTool()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]interface{}{
		"gate":  "coherence",
		"score": 0.8,
	}

	result, err := tool.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	var r gate.Result
	if err := json.Unmarshal([]byte(getResultText(result)), &r); err != nil {
		t.Fatalf("result is not a gate Result: %v", err)
	}
	if r.Kind != gate.Coherence || !r.Passed {
		t.Fatalf("unexpected verdict: %+v", r)
	}
}

func TestCheckGateToolAllGates(t *testing.T) {
	tool := NewCheckGateTool()
	result, err := tool.Handle(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	var results []gate.Result
	if err := json.Unmarshal([]byte(getResultText(result)), &results); err != nil {
		t.Fatalf("result is not a Result list: %v", err)
	}
	if len(results) != len(gate.Kinds()) {
		t.Fatalf("expected %d verdicts, got %d", len(gate.Kinds()), len(results))
	}
	// An empty context fails every gate.
	for _, r := range results {
		if r.Passed {
			t.Errorf("gate %s passed on an empty context", r.Kind)
		}
	}
}
