package usecase

import "strings"

// partialRatio computes a case-insensitive partial-match similarity between
// two strings on a 0-100 scale. The shorter string is compared against every
// same-length window of the longer one and the best-aligned window wins, so
// a query that is a strong approximate substring of a description still
// scores high. Symmetric and deterministic.
func partialRatio(a, b string) int {
	ra := []rune(strings.ToLower(a))
	rb := []rune(strings.ToLower(b))

	if len(ra) == 0 && len(rb) == 0 {
		return 100
	}
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}

	short, long := ra, rb
	if len(short) > len(long) {
		short, long = long, short
	}

	// Exact containment is the best possible alignment.
	if strings.Contains(string(long), string(short)) {
		return 100
	}

	best := 0
	for start := 0; start+len(short) <= len(long); start++ {
		window := long[start : start+len(short)]
		dist := levenshteinDistance(short, window)
		score := (len(short) - dist) * 100 / len(short)
		if score > best {
			best = score
		}
	}
	return best
}

// levenshteinDistance calculates the edit distance between two rune slices
// using two rows instead of the full matrix.
func levenshteinDistance(r1, r2 []rune) int {
	if len(r1) == 0 {
		return len(r2)
	}
	if len(r2) == 0 {
		return len(r1)
	}

	m := len(r1)
	n := len(r2)

	prev := make([]int, n+1)
	curr := make([]int, n+1)

	for j := 0; j <= n; j++ {
		prev[j] = j
	}

	for i := 1; i <= m; i++ {
		curr[0] = i
		for j := 1; j <= n; j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[n]
}
