package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/toolate28/spiralsafe-mono/internal/model"
	"github.com/toolate28/spiralsafe-mono/internal/output"
	"github.com/toolate28/spiralsafe-mono/internal/sessions"
	"github.com/toolate28/spiralsafe-mono/internal/tailer"
)

var (
	tailOutputFmt string
	tailFromStart bool
)

var tailCmd = &cobra.Command{
	Use:   "tail [session-id]",
	Short: "Stream a session's entries to the terminal",
	Long: `Follow one session's log in the terminal. Without a session id the
most recently active session is tailed. --from-start prints the existing
entries before following new ones.

Examples:
  spiralsafe tail
  spiralsafe tail 7f3a12 --from-start
  spiralsafe tail 7f3a12 --output json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTail,
}

func init() {
	tailCmd.Flags().StringVarP(&tailOutputFmt, "output", "o", "text", "output format: text, json")
	tailCmd.Flags().BoolVar(&tailFromStart, "from-start", false, "print existing entries before following")
	rootCmd.AddCommand(tailCmd)
}

func runTail(cmd *cobra.Command, args []string) error {
	setupLogging(false)

	dir := resolveLogDir()
	var sessionID string
	if len(args) == 1 {
		sessionID = args[0]
	} else if infos := sessions.List(dir); len(infos) > 0 {
		sessionID = infos[0].SessionID
	}
	if sessionID == "" {
		return fmt.Errorf("no sessions found in %s", dir)
	}

	var renderer output.Renderer
	switch strings.ToLower(tailOutputFmt) {
	case "json":
		renderer = output.NewJSONRenderer()
	default:
		renderer = output.NewTextRenderer()
	}

	t := tailer.New(dir, pollInterval(), sessionID)

	if tailFromStart {
		for _, entry := range t.AllEntries() {
			if err := renderer.Render(entry); err != nil {
				return err
			}
		}
	}

	unsubscribe := t.Subscribe(func(entry model.LogEntry) {
		if err := renderer.Render(entry); err != nil {
			slog.Warn("render failed", "error", err)
		}
	})
	defer unsubscribe()

	t.Start()
	defer t.Stop()

	fmt.Fprintf(os.Stderr, "tailing session %s (ctrl-c to stop)\n", sessionID)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	return nil
}
