// Package score holds the text heuristics: wave-coherence metrics over
// free-form text and date-scoped tag generation backed by an injectable
// counter store.
package score

import (
	"math"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// WaveMetrics summarizes the statistical texture of a piece of text.
// Component scores sit in [0,1]; Coherence is their weighted blend.
type WaveMetrics struct {
	Words            int     `json:"words"`
	Sentences        int     `json:"sentences"`
	LexicalDiversity float64 `json:"lexical_diversity"`
	Repetition       float64 `json:"repetition"`
	Rhythm           float64 `json:"rhythm"`
	Coherence        float64 `json:"coherence"`
}

// Weights of the coherence blend. Diversity dominates; repetition counts
// against.
const (
	diversityWeight  = 0.5
	rhythmWeight     = 0.3
	repetitionWeight = 0.2
)

// Analyze computes wave metrics for a text. Empty or wordless input yields
// the zero value.
func Analyze(text string) WaveMetrics {
	words := tokenize(text)
	if len(words) == 0 {
		return WaveMetrics{}
	}

	sentences := sentenceLengths(text)

	m := WaveMetrics{
		Words:            len(words),
		Sentences:        len(sentences),
		LexicalDiversity: diversity(words),
		Repetition:       repetition(words),
		Rhythm:           rhythm(sentences),
	}
	m.Coherence = clamp01(diversityWeight*m.LexicalDiversity +
		rhythmWeight*m.Rhythm +
		repetitionWeight*(1-m.Repetition))
	return m
}

// tokenize lowercases NFC-normalized text and splits it into letter/digit
// runs.
func tokenize(text string) []string {
	normalized := strings.ToLower(norm.NFC.String(text))
	return strings.FieldsFunc(normalized, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// diversity is the ratio of distinct words to total words.
func diversity(words []string) float64 {
	seen := make(map[string]struct{}, len(words))
	for _, w := range words {
		seen[w] = struct{}{}
	}
	return float64(len(seen)) / float64(len(words))
}

// repetition is the fraction of adjacent word pairs that repeat.
func repetition(words []string) float64 {
	if len(words) < 2 {
		return 0
	}
	repeats := 0
	for i := 1; i < len(words); i++ {
		if words[i] == words[i-1] {
			repeats++
		}
	}
	return float64(repeats) / float64(len(words)-1)
}

// rhythm rewards even sentence lengths: 1 for perfectly uniform, falling
// toward 0 as the coefficient of variation grows.
func rhythm(lengths []int) float64 {
	if len(lengths) == 0 {
		return 0
	}
	if len(lengths) == 1 {
		return 1
	}

	var sum float64
	for _, n := range lengths {
		sum += float64(n)
	}
	mean := sum / float64(len(lengths))
	if mean == 0 {
		return 0
	}

	var variance float64
	for _, n := range lengths {
		d := float64(n) - mean
		variance += d * d
	}
	variance /= float64(len(lengths))

	cv := math.Sqrt(variance) / mean
	return 1 / (1 + cv)
}

// sentenceLengths splits on terminal punctuation and returns the word count
// of each non-empty sentence.
func sentenceLengths(text string) []int {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
	var lengths []int
	for _, p := range parts {
		if n := len(tokenize(p)); n > 0 {
			lengths = append(lengths, n)
		}
	}
	return lengths
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
