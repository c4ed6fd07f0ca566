// SpiralSafe: session log viewer, lifecycle hook sink, and coherence toolkit.
//
// Usage:
//
//	spiralsafe serve       # web viewer with live SSE/WebSocket streams
//	spiralsafe tail        # follow a session in the terminal
//	spiralsafe sessions    # list session logs
//	spiralsafe hook NAME   # record one lifecycle event from stdin
//	spiralsafe mcp         # MCP tool server on stdio
package main

import "github.com/toolate28/spiralsafe-mono/internal/cmd"

func main() {
	cmd.Execute()
}
