package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/toolate28/spiralsafe-mono/internal/model"
	"github.com/toolate28/spiralsafe-mono/internal/sessions"
	"github.com/toolate28/spiralsafe-mono/internal/store"
	"github.com/toolate28/spiralsafe-mono/internal/tailer"
)

// ListSessionsTool handles the spiralsafe_list_sessions MCP tool.
type ListSessionsTool struct {
	logDir string
}

func NewListSessionsTool(logDir string) *ListSessionsTool {
	return &ListSessionsTool{logDir: logDir}
}

// Definition returns the MCP tool definition for registration.
func (t *ListSessionsTool) Definition() mcp.Tool {
	return mcp.NewTool("spiralsafe_list_sessions",
		mcp.WithDescription(
			"List every session log found in the log directory, most recently "+
				"active first. Each entry carries the session id, file path, first "+
				"and last entry timestamps, line count, and size in bytes.",
		),
	)
}

// Handle processes the tool call. An empty or missing log directory is an
// empty list, not an error.
func (t *ListSessionsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	infos := sessions.List(t.logDir)
	if infos == nil {
		infos = []model.SessionInfo{}
	}
	return jsonResult(infos)
}

// GetEntriesTool handles the spiralsafe_get_entries MCP tool.
type GetEntriesTool struct {
	logDir string
}

func NewGetEntriesTool(logDir string) *GetEntriesTool {
	return &GetEntriesTool{logDir: logDir}
}

func (t *GetEntriesTool) Definition() mcp.Tool {
	return mcp.NewTool("spiralsafe_get_entries",
		mcp.WithDescription(
			"Read every parsable entry of one session's log, in file order. "+
				"A session with no log yet yields an empty array.",
		),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("The session whose entries to read."),
		),
	)
}

func (t *GetEntriesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := req.GetString("session_id", "")
	if sessionID == "" {
		return mcp.NewToolResultError("session_id is required"), nil
	}
	entries := tailer.ReadAllEntries(store.New(t.logDir).SessionPath(sessionID))
	if entries == nil {
		entries = []model.LogEntry{}
	}
	return jsonResult(entries)
}

// jsonResult marshals v as indented JSON text content.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(raw)), nil
}
