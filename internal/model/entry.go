package model

import (
	"bytes"
	"encoding/json"
)

// Well-known lifecycle event names emitted by the hook adapters.
// The set is defined by the hooked runtime, not by us: entries carrying
// names outside this list are passed through untouched.
const (
	EventSessionStart     = "SessionStart"
	EventSessionEnd       = "SessionEnd"
	EventUserPromptSubmit = "UserPromptSubmit"
	EventPreToolUse       = "PreToolUse"
	EventPostToolUse      = "PostToolUse"
	EventNotification     = "Notification"
	EventStop             = "Stop"
)

// LogEntry is one decoded record from a session log: a single observed
// lifecycle event. The timestamp is the ISO-8601 string the writer recorded
// at append time and is never re-derived by readers.
type LogEntry struct {
	Timestamp string         `json:"timestamp"`
	Event     string         `json:"event"`
	SessionID string         `json:"session_id"`
	Data      map[string]any `json:"data,omitempty"`
}

// SessionInfo is derived metadata about one session's log file, recomputed
// from disk on every listing.
type SessionInfo struct {
	SessionID  string `json:"session_id"`
	FilePath   string `json:"file_path"`
	FirstEntry string `json:"first_entry"`
	LastEntry  string `json:"last_entry"`
	EntryCount int    `json:"entry_count"`
	SizeBytes  int64  `json:"size_bytes"`
}

// DecodeLine parses one log line into a LogEntry. Returns false for blank
// or malformed lines; callers skip those and keep going.
func DecodeLine(line []byte) (LogEntry, bool) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return LogEntry{}, false
	}
	var e LogEntry
	if err := json.Unmarshal(line, &e); err != nil {
		return LogEntry{}, false
	}
	return e, true
}
