package score

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"
)

// MemoryCounters is a process-local CounterStore for tests and one-shot
// invocations that don't need persistence.
type MemoryCounters struct {
	mu     sync.Mutex
	counts map[string]int64
}

func NewMemoryCounters() *MemoryCounters {
	return &MemoryCounters{counts: make(map[string]int64)}
}

func (m *MemoryCounters) Next(key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[key]++
	return m.counts[key], nil
}

// SQLiteCounters persists counters to a SQLite database so tag sequences
// continue across restarts and across independent processes sharing the
// same file.
type SQLiteCounters struct {
	db *sql.DB
}

// OpenCounters opens (creating if needed) the counter database at path.
func OpenCounters(path string) (*SQLiteCounters, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("open counters: create dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open counters: %w", err)
	}

	const schema = `
		CREATE TABLE IF NOT EXISTS counters (
			key   TEXT PRIMARY KEY,
			value INTEGER NOT NULL DEFAULT 0
		)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("open counters: init schema: %w", err)
	}

	return &SQLiteCounters{db: db}, nil
}

// Next increments and returns the counter for key in one statement, so
// concurrent invocations never hand out the same value.
func (s *SQLiteCounters) Next(key string) (int64, error) {
	const q = `
		INSERT INTO counters (key, value) VALUES (?, 1)
		ON CONFLICT(key) DO UPDATE SET value = value + 1
		RETURNING value`
	var n int64
	if err := s.db.QueryRow(q, key).Scan(&n); err != nil {
		return 0, fmt.Errorf("counter next %q: %w", key, err)
	}
	return n, nil
}

// Close releases the database handle.
func (s *SQLiteCounters) Close() error {
	return s.db.Close()
}
