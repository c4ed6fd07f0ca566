package score

import (
	"fmt"
	"strings"
	"time"
)

// CounterStore hands out monotonically increasing integers per key. Next
// returns 1 the first time a key is seen. Implementations must survive
// concurrent callers; whether counts survive restarts is up to the
// implementation (see SQLiteCounters vs MemoryCounters).
type CounterStore interface {
	Next(key string) (int64, error)
}

// GenerateTag produces the next tag of the form TYPE-YYYYMMDD-NNNN for the
// given kind and date. Uniqueness within a kind+date is delegated entirely
// to the counter store, so callers choose the persistence and isolation
// they need.
func GenerateTag(kind string, date time.Time, counters CounterStore) (string, error) {
	kind = strings.ToUpper(strings.TrimSpace(kind))
	if kind == "" {
		return "", fmt.Errorf("generate tag: kind is required")
	}

	day := date.UTC().Format("20060102")
	n, err := counters.Next(kind + ":" + day)
	if err != nil {
		return "", fmt.Errorf("generate tag: %w", err)
	}
	return fmt.Sprintf("%s-%s-%04d", kind, day, n), nil
}
