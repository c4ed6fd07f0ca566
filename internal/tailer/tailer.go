// Package tailer watches one session's append-only log file and fans newly
// appended entries out to subscribers.
//
// Growth detection is byte-offset polling: each tick compares the file size
// against the last observed size and reads only the new byte range. An
// fsnotify watch on the log directory shortens the latency between an append
// and the next scan, but it is only a wake hint: every scan is size-gated,
// so delivery semantics are identical with or without it.
package tailer

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/toolate28/spiralsafe-mono/internal/model"
	"github.com/toolate28/spiralsafe-mono/internal/store"
)

// Subscriber receives one newly detected entry per call, in file order.
type Subscriber func(model.LogEntry)

// Tailer tracks a single session log file and delivers each newly appended
// entry to every subscriber exactly once. Pre-existing content is never
// replayed through the live path: attaching (Start or SetSession) baselines
// the offset at the file's current size, and history stays available through
// AllEntries.
type Tailer struct {
	logDir   string
	interval time.Duration

	mu          sync.Mutex
	sessionID   string
	lastSize    int64
	subscribers map[int]Subscriber
	nextSubID   int
	cancel      context.CancelFunc
	done        chan struct{}
}

// New creates a Tailer over the given log directory. sessionID may be empty;
// nothing is tracked until SetSession selects one.
func New(logDir string, interval time.Duration, sessionID string) *Tailer {
	return &Tailer{
		logDir:      logDir,
		interval:    interval,
		sessionID:   sessionID,
		subscribers: make(map[int]Subscriber),
	}
}

// Start begins the poll loop. Idempotent: calling it while running is a
// no-op. The live baseline is set to the tracked file's current size so
// content written before Start is not re-emitted as new.
func (t *Tailer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		return
	}
	t.lastSize = fileSize(t.sessionPath(t.sessionID))

	ctx, cancel := context.WithCancel(context.Background())
	t.cancel = cancel
	t.done = make(chan struct{})
	go t.run(ctx, t.done)
}

// Stop halts polling. Idempotent. Subscribers are kept; a later Start
// resumes delivery to them from a fresh baseline.
func (t *Tailer) Stop() {
	t.mu.Lock()
	cancel, done := t.cancel, t.done
	t.cancel, t.done = nil, nil
	t.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// SetSession switches the tracked session. The baseline resets to the new
// file's current size, so the switch never floods subscribers with the new
// session's history.
func (t *Tailer) SetSession(sessionID string) {
	size := fileSize(t.sessionPath(sessionID))
	t.mu.Lock()
	t.sessionID = sessionID
	t.lastSize = size
	t.mu.Unlock()
}

// CurrentSessionID returns the tracked session id, empty if none.
func (t *Tailer) CurrentSessionID() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sessionID
}

// Subscribe registers a callback for newly detected entries and returns its
// deregistration func. Callbacks run sequentially in file order; a panicking
// callback is logged and does not affect other subscribers or the loop.
func (t *Tailer) Subscribe(fn Subscriber) func() {
	t.mu.Lock()
	id := t.nextSubID
	t.nextSubID++
	t.subscribers[id] = fn
	t.mu.Unlock()

	return func() {
		t.mu.Lock()
		delete(t.subscribers, id)
		t.mu.Unlock()
	}
}

// SubscriberCount returns the number of live subscriptions.
func (t *Tailer) SubscriberCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.subscribers)
}

// AllEntries reads the tracked session's file from byte 0 and returns every
// parsable entry in file order. Independent of the live offset and of
// whether the loop is running. Empty if no session is selected.
func (t *Tailer) AllEntries() []model.LogEntry {
	t.mu.Lock()
	sessionID := t.sessionID
	t.mu.Unlock()
	if sessionID == "" {
		return nil
	}
	return ReadAllEntries(t.sessionPath(sessionID))
}

func (t *Tailer) sessionPath(sessionID string) string {
	return store.New(t.logDir).SessionPath(sessionID)
}

// ReadAllEntries decodes every parsable line of a session log, in file
// order. A missing file or unreadable directory yields an empty result, not
// an error: the snapshot path stays usable before the log directory exists.
func ReadAllEntries(path string) []model.LogEntry {
	f, err := os.Open(path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("snapshot read failed", "path", path, "error", err)
		}
		return nil
	}
	defer f.Close()

	var entries []model.LogEntry
	r := newLineReader(f)
	for {
		line, err := r.next()
		if err != nil {
			// Leftover bytes here lack a trailing newline; an incomplete
			// line is not yet eligible for decoding.
			return entries
		}
		if e, ok := model.DecodeLine(line); ok {
			entries = append(entries, e)
		}
	}
}

// run is the poll loop: a fixed-interval ticker, optionally woken early by
// directory events.
func (t *Tailer) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	var fsEvents chan fsnotify.Event
	var fsErrors chan error
	if w, err := fsnotify.NewWatcher(); err == nil {
		if err := w.Add(t.logDir); err != nil {
			// Directory may not exist yet; interval polling covers it.
			slog.Debug("watch log dir failed, polling only", "dir", t.logDir, "error", err)
			w.Close()
		} else {
			defer w.Close()
			fsEvents = w.Events
			fsErrors = w.Errors
		}
	} else {
		slog.Debug("fsnotify unavailable, polling only", "error", err)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.poll()
		case _, ok := <-fsEvents:
			if !ok {
				fsEvents = nil
				continue
			}
			t.poll()
		case err, ok := <-fsErrors:
			if !ok {
				fsErrors = nil
				continue
			}
			slog.Warn("fsnotify error", "error", err)
		}
	}
}

// poll performs one growth check. All I/O failures are logged and treated as
// "no change this tick"; the next tick retries.
func (t *Tailer) poll() {
	t.mu.Lock()
	sessionID, lastSize := t.sessionID, t.lastSize
	t.mu.Unlock()
	if sessionID == "" {
		return
	}

	path := t.sessionPath(sessionID)
	size := fileSize(path)

	switch {
	case size < lastSize:
		// Truncation or rotation: this is a new logical stream. Reset the
		// baseline and resume tailing from the smaller size.
		slog.Info("log file shrank, resetting baseline",
			"session", sessionID, "old_size", lastSize, "new_size", size)
		t.advance(sessionID, size)

	case size > lastSize:
		entries, consumed, err := readNewLines(path, lastSize, size)
		if err != nil {
			slog.Warn("tail read failed, will retry", "session", sessionID, "error", err)
			return
		}
		if consumed > 0 {
			t.advance(sessionID, lastSize+consumed)
		}
		for _, e := range entries {
			t.emit(e)
		}
	}
}

// advance moves the live offset, unless the tracked session changed while
// the read was in flight (SetSession already re-baselined in that case).
func (t *Tailer) advance(sessionID string, offset int64) {
	t.mu.Lock()
	if t.sessionID == sessionID {
		t.lastSize = offset
	}
	t.mu.Unlock()
}

// emit delivers one entry to every current subscriber, sequentially, each
// behind its own recover boundary.
func (t *Tailer) emit(entry model.LogEntry) {
	t.mu.Lock()
	subs := make([]Subscriber, 0, len(t.subscribers))
	for _, fn := range t.subscribers {
		subs = append(subs, fn)
	}
	t.mu.Unlock()

	for _, fn := range subs {
		deliver(fn, entry)
	}
}

func deliver(fn Subscriber, entry model.LogEntry) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("subscriber panicked", "event", entry.Event, "panic", r)
		}
	}()
	fn(entry)
}

// readNewLines reads the byte range [from, to) and decodes every complete
// line in it. consumed is the number of bytes up to and including the last
// newline in the range: the offset never advances past a trailing partial
// line, so an unterminated record is re-read once more bytes arrive and is
// emitted exactly once. Corrupt complete lines are skipped but still
// consumed.
func readNewLines(path string, from, to int64) (entries []model.LogEntry, consumed int64, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	if _, err := f.Seek(from, io.SeekStart); err != nil {
		return nil, 0, err
	}
	buf, err := io.ReadAll(io.LimitReader(f, to-from))
	if err != nil {
		return nil, 0, err
	}

	idx := bytes.LastIndexByte(buf, '\n')
	if idx < 0 {
		return nil, 0, nil
	}
	complete := buf[:idx+1]

	for _, line := range bytes.Split(complete, []byte{'\n'}) {
		if e, ok := model.DecodeLine(line); ok {
			entries = append(entries, e)
		}
	}
	return entries, int64(idx + 1), nil
}

// fileSize returns a file's size, 0 if it does not exist or cannot be
// statted. An absent session file is not an error, just "no growth yet".
func fileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}
