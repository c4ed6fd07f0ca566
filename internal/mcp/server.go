// Package mcp wires the spiralsafe toolkit into an MCP server over stdio.
//
// This is the composition root: it creates the concrete stores and registers
// every tool. No business logic lives here; the tools delegate to the
// sessions, tailer, score, and gate packages.
package mcp

import (
	"fmt"

	"github.com/mark3labs/mcp-go/server"
	"github.com/toolate28/spiralsafe-mono/internal/score"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Config carries the paths the tools operate on.
type Config struct {
	LogDir      string
	CounterPath string
}

// New creates the MCP server with all tools registered. The returned cleanup
// closes the counter database and must be called on shutdown; it is always
// non-nil.
func New(cfg Config) (*server.MCPServer, func(), error) {
	counters, err := score.OpenCounters(cfg.CounterPath)
	if err != nil {
		return nil, func() {}, fmt.Errorf("creating counter store: %w", err)
	}
	cleanup := func() { _ = counters.Close() }

	s := server.NewMCPServer(
		"spiralsafe",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	listTool := NewListSessionsTool(cfg.LogDir)
	s.AddTool(listTool.Definition(), listTool.Handle)

	entriesTool := NewGetEntriesTool(cfg.LogDir)
	s.AddTool(entriesTool.Definition(), entriesTool.Handle)

	scoreTool := NewScoreTextTool()
	s.AddTool(scoreTool.Definition(), scoreTool.Handle)

	tagTool := NewGenerateTagTool(counters)
	s.AddTool(tagTool.Definition(), tagTool.Handle)

	gateTool := NewCheckGateTool()
	s.AddTool(gateTool.Definition(), gateTool.Handle)

	return s, cleanup, nil
}
