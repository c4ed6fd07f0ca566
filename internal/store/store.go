// Package store is the write side of the session log store: a directory of
// append-only files, one per session, one JSON-encoded event per line.
// Readers (the tailer, the session index) treat the same directory as a
// read-only contract and tolerate malformed lines; nothing here coordinates
// with them because appends are the only mutation.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/toolate28/spiralsafe-mono/internal/model"
)

// Ext is the fixed extension of session log files. Session ids are derived
// from filenames by stripping it.
const Ext = ".jsonl"

// Store appends lifecycle events to per-session log files under one
// directory.
type Store struct {
	dir string
}

// New creates a Store rooted at dir. The directory is created on first
// append, not here, so constructing a store against a not-yet-initialized
// log directory is cheap and never fails.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the log directory the store writes under.
func (s *Store) Dir() string {
	return s.dir
}

// SessionPath returns the log file path for a session id.
func (s *Store) SessionPath(sessionID string) string {
	return filepath.Join(s.dir, sessionID+Ext)
}

// SessionID derives the session id from a log file path.
func SessionID(path string) string {
	return strings.TrimSuffix(filepath.Base(path), Ext)
}

// Append writes one entry as a single JSON line to the session's log file.
// The file is opened O_APPEND and the line is written in one call, so
// concurrent hook invocations interleave at line granularity and readers
// never observe a torn record boundary.
func (s *Store) Append(entry model.LogEntry) error {
	if entry.SessionID == "" {
		return fmt.Errorf("append: entry has no session_id")
	}

	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("append: encode entry: %w", err)
	}
	raw = append(raw, '\n')

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("append: create log dir: %w", err)
	}

	f, err := os.OpenFile(s.SessionPath(entry.SessionID), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("append: open log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(raw); err != nil {
		return fmt.Errorf("append: write log: %w", err)
	}
	return nil
}
