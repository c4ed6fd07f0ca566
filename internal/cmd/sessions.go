package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/toolate28/spiralsafe-mono/internal/sessions"
)

var sessionsJSON bool

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List session logs, most recently active first",
	RunE:  runSessions,
}

func init() {
	sessionsCmd.Flags().BoolVar(&sessionsJSON, "json", false, "emit JSON instead of a table")
	rootCmd.AddCommand(sessionsCmd)
}

func runSessions(cmd *cobra.Command, args []string) error {
	setupLogging(false)

	infos := sessions.List(resolveLogDir())

	if sessionsJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	}

	if len(infos) == 0 {
		fmt.Println("no sessions found")
		return nil
	}

	fmt.Printf("%-24s %8s %10s %-25s %-25s\n", "SESSION", "ENTRIES", "BYTES", "FIRST", "LAST")
	for _, info := range infos {
		fmt.Printf("%-24s %8d %10d %-25s %-25s\n",
			info.SessionID, info.EntryCount, info.SizeBytes, info.FirstEntry, info.LastEntry)
	}
	return nil
}
