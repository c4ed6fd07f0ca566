package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/toolate28/spiralsafe-mono/internal/server"
	"github.com/toolate28/spiralsafe-mono/internal/sessions"
	"github.com/toolate28/spiralsafe-mono/internal/tailer"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the live session viewer over HTTP",
	Long: `Start the viewer façade: a web dashboard, a JSON discovery and
snapshot API, and live entry streams over SSE and WebSocket.

With no --session, the most recently active session on disk is tracked.

Examples:
  spiralsafe serve
  spiralsafe serve --session 7f3a12 --port 9000`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("port", "", "HTTP port (default 8787)")
	serveCmd.Flags().String("session", "", "session id to track (default: most recent)")
	_ = viper.BindPFlag("port", serveCmd.Flags().Lookup("port"))
	_ = viper.BindPFlag("session", serveCmd.Flags().Lookup("session"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	setupLogging(false)

	dir := resolveLogDir()
	sessionID := viper.GetString("session")
	if sessionID == "" {
		if infos := sessions.List(dir); len(infos) > 0 {
			sessionID = infos[0].SessionID
		}
	}

	t := tailer.New(dir, pollInterval(), sessionID)
	t.Start()
	defer t.Stop()

	port := viper.GetString("port")
	slog.Info("spiralsafe viewer listening",
		"port", port, "log_dir", dir, "session", sessionID)

	srv := server.New(t, dir, port)
	if err := srv.Start(); err != nil {
		return fmt.Errorf("viewer server: %w", err)
	}
	return nil
}
