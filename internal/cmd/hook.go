package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/toolate28/spiralsafe-mono/internal/hooks"
	"github.com/toolate28/spiralsafe-mono/internal/store"
)

var hookCmd = &cobra.Command{
	Use:   "hook [event-name]",
	Short: "Record one lifecycle event from stdin",
	Long: `Read one JSON hook payload from stdin, append it to the session's
log, and write the hook response to stdout. Registered in the assistant
runtime's hook configuration, one invocation per event.

The event name may be given as an argument or carried in the payload's
hook_event_name field. A failure to record never blocks the hooked
process: the response always says continue.

Examples:
  spiralsafe hook PreToolUse  < payload.json
  spiralsafe hook             < payload.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHook,
}

func init() {
	rootCmd.AddCommand(hookCmd)
}

func runHook(cmd *cobra.Command, args []string) error {
	// stdout carries the hook response; diagnostics go to stderr as JSON.
	setupLogging(true)

	var eventName string
	if len(args) == 1 {
		eventName = args[0]
	}

	runner := &hooks.Runner{Store: store.New(resolveLogDir())}
	return runner.Run(eventName, os.Stdin, os.Stdout)
}
