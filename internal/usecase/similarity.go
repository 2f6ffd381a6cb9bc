package usecase

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Similarity returns a score in [0,1] for two strings.
// Empty input on either side scores 0, case-insensitive equality after
// trimming scores 1, anything else scores the sequence-matcher ratio 2*M/T
// on the trimmed, lower-cased strings.
//
// Every fuzzy comparison in the engine goes through this function so that
// thresholds mean the same thing everywhere.
func Similarity(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))

	if a == "" || b == "" {
		return 0.0
	}
	if a == b {
		return 1.0
	}

	m := difflib.NewMatcher(splitRunes(a), splitRunes(b))
	return m.Ratio()
}

// splitRunes turns a string into a sequence of one-rune strings, which is the
// element type the matcher compares
func splitRunes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
