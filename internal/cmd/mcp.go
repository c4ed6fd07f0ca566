package cmd

import (
	"fmt"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"github.com/toolate28/spiralsafe-mono/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the toolkit over MCP stdio",
	Long: `Start the MCP tool server on stdio. Exposes session discovery and
snapshots, wave-coherence scoring, tag generation, and the provenance
gates to any MCP client.

Add to the client's MCP configuration:

  {
    "mcpServers": {
      "spiralsafe": {
        "command": "spiralsafe",
        "args": ["mcp"]
      }
    }
  }`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	// stdout belongs to the MCP transport.
	setupLogging(true)

	s, cleanup, err := mcp.New(mcp.Config{
		LogDir:      resolveLogDir(),
		CounterPath: resolveCounterPath(),
	})
	if err != nil {
		return fmt.Errorf("creating mcp server: %w", err)
	}
	defer cleanup()

	return server.ServeStdio(s)
}
