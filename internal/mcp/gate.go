package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/toolate28/spiralsafe-mono/internal/gate"
)

// CheckGateTool handles the spiralsafe_check_gate MCP tool.
type CheckGateTool struct{}

func NewCheckGateTool() *CheckGateTool {
	return &CheckGateTool{}
}

func (t *CheckGateTool) Definition() mcp.Tool {
	kinds := gate.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}

	return mcp.NewTool("spiralsafe_check_gate",
		mcp.WithDescription(
			"Evaluate provenance gates against a work context. With a gate name "+
				"only that gate runs; without one, every gate runs in order. Each "+
				"result carries passed plus a reason on failure.",
		),
		mcp.WithString("gate",
			mcp.Description("Gate to evaluate. Omit to evaluate all gates."),
			mcp.Enum(names...),
		),
		mcp.WithString("session_id",
			mcp.Description("Session the work belongs to."),
		),
		mcp.WithString("source",
			mcp.Description("Where the work came from."),
		),
		mcp.WithString("timestamp",
			mcp.Description("RFC 3339 timestamp of the work."),
		),
		mcp.WithString("tag",
			mcp.Description("Tag assigned to the work, if any."),
		),
		mcp.WithNumber("score",
			mcp.Description("Coherence score of the work in [0,1]."),
		),
		mcp.WithBoolean("complete",
			mcp.Description("Whether the work is marked complete."),
		),
	)
}

func (t *CheckGateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workCtx := gate.Context{
		SessionID: req.GetString("session_id", ""),
		Source:    req.GetString("source", ""),
		Timestamp: req.GetString("timestamp", ""),
		Tag:       req.GetString("tag", ""),
		Score:     req.GetFloat("score", 0),
		Complete:  boolArg(req, "complete", false),
	}

	if name := req.GetString("gate", ""); name != "" {
		return jsonResult(gate.Check(gate.Kind(name), workCtx))
	}
	return jsonResult(gate.CheckAll(workCtx))
}

func boolArg(req mcp.CallToolRequest, key string, defaultVal bool) bool {
	v, ok := req.GetArguments()[key].(bool)
	if !ok {
		return defaultVal
	}
	return v
}
