package similarity

import (
	"math"
	"strings"
)

// Normalize lowercases and trims a string for comparison
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Ratio computes a 0-1 similarity between two strings based on Levenshtein
// edit distance over their normalized forms. Identical strings score exactly
// 1; if either normalized string is empty the ratio is 0.
func Ratio(a, b string) float64 {
	a = Normalize(a)
	b = Normalize(b)

	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	if a == b {
		return 1
	}

	dist := levenshtein(a, b)
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	return 1 - float64(dist)/float64(longest)
}

// levenshtein computes the edit distance with unit cost for insertion,
// deletion and substitution. Two rows of the DP table are enough.
func levenshtein(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)

	for j := 0; j <= len(rb); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(rb)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

// AccuracyScore converts a similarity ratio into the 0-100 round score,
// penalized by the seconds the attempt took. Never negative.
func AccuracyScore(target, attempt string, elapsedSeconds float64) int {
	score := int(math.Round(Ratio(target, attempt)*100 - elapsedSeconds))
	if score < 0 {
		return 0
	}
	return score
}
