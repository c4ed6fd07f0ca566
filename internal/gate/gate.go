// Package gate evaluates provenance gates: fixed boolean predicates over a
// context describing one piece of produced work. Each gate kind maps to a
// pure function, so every validator is independently testable and adding a
// kind is one map entry.
package gate

import (
	"fmt"
	"time"
)

// Kind names one gate in the provenance chain.
type Kind string

const (
	// Provenance: the work names where it came from.
	Provenance Kind = "provenance"
	// Coherence: the work's coherence score clears the floor.
	Coherence Kind = "coherence"
	// Continuity: the work belongs to a session and carries a parseable
	// timestamp.
	Continuity Kind = "continuity"
	// Completion: the work is marked finished and tagged.
	Completion Kind = "completion"
)

// Kinds returns every known gate kind, in evaluation order.
func Kinds() []Kind {
	return []Kind{Provenance, Coherence, Continuity, Completion}
}

// Context carries the facts the validators inspect. Fields irrelevant to a
// given gate are ignored by it.
type Context struct {
	SessionID string  `json:"session_id"`
	Source    string  `json:"source"`
	Timestamp string  `json:"timestamp"`
	Tag       string  `json:"tag"`
	Score     float64 `json:"score"`
	Complete  bool    `json:"complete"`
}

// Result is one gate's verdict.
type Result struct {
	Kind   Kind   `json:"kind"`
	Passed bool   `json:"passed"`
	Reason string `json:"reason,omitempty"`
}

// coherenceFloor is the minimum score the coherence gate accepts.
const coherenceFloor = 0.5

type validator func(Context) Result

var validators = map[Kind]validator{
	Provenance: checkProvenance,
	Coherence:  checkCoherence,
	Continuity: checkContinuity,
	Completion: checkCompletion,
}

// Check evaluates one gate against the context. Unknown kinds fail with a
// reason rather than erroring: callers treat gates as verdicts, not lookups.
func Check(kind Kind, ctx Context) Result {
	v, ok := validators[kind]
	if !ok {
		return Result{Kind: kind, Passed: false, Reason: fmt.Sprintf("unknown gate kind %q", kind)}
	}
	return v(ctx)
}

// CheckAll evaluates every known gate in order.
func CheckAll(ctx Context) []Result {
	results := make([]Result, 0, len(validators))
	for _, k := range Kinds() {
		results = append(results, Check(k, ctx))
	}
	return results
}

func checkProvenance(ctx Context) Result {
	r := Result{Kind: Provenance}
	switch {
	case ctx.Source == "":
		r.Reason = "no source recorded"
	case ctx.SessionID == "":
		r.Reason = "no session recorded"
	default:
		r.Passed = true
	}
	return r
}

func checkCoherence(ctx Context) Result {
	r := Result{Kind: Coherence}
	if ctx.Score < coherenceFloor {
		r.Reason = fmt.Sprintf("score %.2f below floor %.2f", ctx.Score, coherenceFloor)
		return r
	}
	r.Passed = true
	return r
}

func checkContinuity(ctx Context) Result {
	r := Result{Kind: Continuity}
	if ctx.SessionID == "" {
		r.Reason = "no session recorded"
		return r
	}
	if _, err := time.Parse(time.RFC3339, ctx.Timestamp); err != nil {
		r.Reason = "timestamp is not valid RFC 3339"
		return r
	}
	r.Passed = true
	return r
}

func checkCompletion(ctx Context) Result {
	r := Result{Kind: Completion}
	switch {
	case !ctx.Complete:
		r.Reason = "work not marked complete"
	case ctx.Tag == "":
		r.Reason = "no tag assigned"
	default:
		r.Passed = true
	}
	return r
}
