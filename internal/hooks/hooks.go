// Package hooks implements the lifecycle hook adapters: each invocation
// reads one JSON payload from stdin, appends a structured entry to the
// session's log, and writes one JSON response to stdout.
//
// Adapters must never get in the hooked runtime's way: logging failures are
// reported on stderr and the response still tells the runtime to continue.
package hooks

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/toolate28/spiralsafe-mono/internal/model"
	"github.com/toolate28/spiralsafe-mono/internal/store"
)

// Response is the single JSON object written back to the runtime.
type Response struct {
	Continue      bool   `json:"continue"`
	SystemMessage string `json:"systemMessage,omitempty"`
}

// Runner wires one hook invocation to the log store.
type Runner struct {
	Store *store.Store
	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time
}

// Run handles one hook invocation. eventName may be empty, in which case the
// payload's hook_event_name field is used. The returned error is only
// non-nil when the response itself cannot be written; log-store failures are
// swallowed after reporting, so the hooked process always proceeds.
func (r *Runner) Run(eventName string, in io.Reader, out io.Writer) error {
	resp := Response{Continue: true}

	entry, err := r.decode(eventName, in)
	if err != nil {
		slog.Error("hook payload rejected", "event", eventName, "error", err)
		return writeResponse(out, resp)
	}

	if err := r.Store.Append(entry); err != nil {
		slog.Error("hook append failed", "event", entry.Event, "session", entry.SessionID, "error", err)
	}
	return writeResponse(out, resp)
}

// decode parses the stdin payload into a LogEntry. The timestamp is set
// here, at append time; readers pass it through untouched. Fields consumed
// for the envelope are removed from the payload, the rest travels opaquely
// in data.
func (r *Runner) decode(eventName string, in io.Reader) (model.LogEntry, error) {
	var payload map[string]any
	dec := json.NewDecoder(in)
	if err := dec.Decode(&payload); err != nil {
		return model.LogEntry{}, fmt.Errorf("decode payload: %w", err)
	}

	sessionID, _ := payload["session_id"].(string)
	if sessionID == "" {
		return model.LogEntry{}, fmt.Errorf("payload has no session_id")
	}
	delete(payload, "session_id")

	if name, _ := payload["hook_event_name"].(string); name != "" {
		if eventName == "" {
			eventName = name
		}
		delete(payload, "hook_event_name")
	}
	if eventName == "" {
		return model.LogEntry{}, fmt.Errorf("no event name given or present in payload")
	}

	now := r.Now
	if now == nil {
		now = time.Now
	}

	return model.LogEntry{
		Timestamp: now().UTC().Format(time.RFC3339),
		Event:     eventName,
		SessionID: sessionID,
		Data:      payload,
	}, nil
}

func writeResponse(out io.Writer, resp Response) error {
	if err := json.NewEncoder(out).Encode(resp); err != nil {
		return fmt.Errorf("write hook response: %w", err)
	}
	return nil
}
