// Package sessions builds the on-demand session index: one SessionInfo per
// log file in the directory, recomputed from disk on every call.
package sessions

import (
	"bufio"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/toolate28/spiralsafe-mono/internal/model"
	"github.com/toolate28/spiralsafe-mono/internal/store"
)

// List scans the log directory and returns one SessionInfo per session file,
// sorted most-recently-active first (descending by last-entry timestamp;
// ISO-8601 strings sort lexicographically in chronological order). A missing
// or unreadable directory yields an empty list, not an error.
func List(logDir string) []model.SessionInfo {
	pattern := filepath.Join(logDir, "*"+store.Ext)
	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		slog.Warn("session scan failed", "dir", logDir, "error", err)
		return nil
	}

	infos := make([]model.SessionInfo, 0, len(matches))
	for _, path := range matches {
		info, err := inspect(path)
		if err != nil {
			slog.Warn("session inspect failed", "path", path, "error", err)
			continue
		}
		infos = append(infos, info)
	}

	sort.Slice(infos, func(i, j int) bool {
		if infos[i].LastEntry != infos[j].LastEntry {
			return infos[i].LastEntry > infos[j].LastEntry
		}
		return infos[i].SessionID < infos[j].SessionID
	})
	return infos
}

// inspect derives one session's metadata in a single pass: non-empty lines
// are counted without decoding (a corrupt line still counts), and only the
// first and last of them are decoded for their timestamps, falling back to
// empty strings when either fails to parse.
func inspect(path string) (model.SessionInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.SessionInfo{}, err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return model.SessionInfo{}, err
	}

	var (
		count     int
		firstLine []byte
		lastLine  []byte
	)
	r := bufio.NewReader(f)
	for {
		line, err := r.ReadBytes('\n')
		if isNonEmpty(line) {
			count++
			if firstLine == nil {
				firstLine = append([]byte(nil), line...)
			}
			lastLine = append(lastLine[:0], line...)
		}
		if err != nil {
			break
		}
	}

	info := model.SessionInfo{
		SessionID:  store.SessionID(path),
		FilePath:   path,
		EntryCount: count,
		SizeBytes:  stat.Size(),
	}
	if e, ok := model.DecodeLine(firstLine); ok {
		info.FirstEntry = e.Timestamp
	}
	if e, ok := model.DecodeLine(lastLine); ok {
		info.LastEntry = e.Timestamp
	}
	return info, nil
}

func isNonEmpty(line []byte) bool {
	for _, b := range line {
		if b != '\n' && b != '\r' && b != ' ' && b != '\t' {
			return true
		}
	}
	return false
}
