// Package filter matches card text against the board's filter box
package filter

import (
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
)

// DefaultMaxDistance is the edit distance tolerated per query word
const DefaultMaxDistance = 1

// Match reports whether text matches query. An empty query matches
// everything. A case-insensitive substring match always wins; otherwise every
// query word must be within maxDistance edits of some word in text.
func Match(text, query string, maxDistance int) bool {
	query = strings.TrimSpace(strings.ToLower(query))
	if query == "" {
		return true
	}
	lower := strings.ToLower(text)
	if strings.Contains(lower, query) {
		return true
	}
	if maxDistance <= 0 {
		return false
	}

	words := fields(lower)
	for _, q := range fields(query) {
		if !anyWithin(q, words, maxDistance) {
			return false
		}
	}
	return true
}

func anyWithin(q string, words []string, maxDistance int) bool {
	for _, w := range words {
		// short words only match exactly, otherwise "a" matches everything
		if len([]rune(q)) <= maxDistance {
			if w == q {
				return true
			}
			continue
		}
		if levenshtein.ComputeDistance(q, w) <= maxDistance {
			return true
		}
	}
	return false
}

func fields(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}
