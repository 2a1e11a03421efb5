// Package match provides the string similarity scoring used to resolve
// free-text dimension references against canonical names.
//
// Scores are integers on a 0-100 scale. TokenSortRatio is insensitive to
// token order ("GLOBO SP" and "SP GLOBO" score 100), which is what makes it
// usable for media-plan text where word order varies between source files.
package match

import (
	"math"
	"sort"
	"strings"
)

// Normalize upper-cases the input, collapses runs of whitespace and sorts
// the remaining tokens. Two strings that differ only in casing, spacing or
// token order normalize to the same value.
func Normalize(s string) string {
	tokens := strings.Fields(strings.ToUpper(strings.TrimSpace(s)))
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// Ratio computes a similarity score between two strings on a 0-100 scale,
// derived from the weighted edit distance (substitutions cost 2, so the
// score matches the classic difflib-style ratio).
func Ratio(a, b string) int {
	la, lb := len(a), len(b)
	if la == 0 && lb == 0 {
		return 100
	}
	d := weightedDistance(a, b)
	return int(math.Round(float64(la+lb-d) / float64(la+lb) * 100))
}

// TokenSortRatio normalizes both inputs (see Normalize) before scoring.
func TokenSortRatio(a, b string) int {
	return Ratio(Normalize(a), Normalize(b))
}

// weightedDistance is the Levenshtein distance with substitution cost 2.
// Uses two rows instead of the full matrix.
func weightedDistance(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	// Keep a as the shorter string so the rows stay small.
	if len(a) > len(b) {
		a, b = b, a
	}

	prev := make([]int, len(a)+1)
	curr := make([]int, len(a)+1)
	for i := range prev {
		prev[i] = i
	}

	for j := 1; j <= len(b); j++ {
		curr[0] = j
		for i := 1; i <= len(a); i++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 2
			}
			curr[i] = min3(
				prev[i]+1,      // deletion
				curr[i-1]+1,    // insertion
				prev[i-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(a)]
}

func min3(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}
