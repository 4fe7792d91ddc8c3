// Package textmatch provides the string-similarity primitives used by
// match-quality classification: edit distance, character-overlap similarity,
// and tokenization. All functions are pure.
package textmatch

// maxUsefulDistance is the largest edit distance classification ever compares
// against. When the length difference alone exceeds it, the exact distance is
// irrelevant and the length difference is returned as a lower bound.
const maxUsefulDistance = 3

// Levenshtein calculates the minimum number of single-character edits
// (insertions, deletions, or substitutions) required to change one string
// into another. When the length difference exceeds maxUsefulDistance the
// difference itself is returned; it is a valid lower bound and classification
// never needs exact large distances.
func Levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len([]rune(b))
	}
	if len(b) == 0 {
		return len([]rune(a))
	}

	// Convert to runes for proper Unicode handling
	runesA := []rune(a)
	runesB := []rune(b)
	lenA := len(runesA)
	lenB := len(runesB)

	diff := lenA - lenB
	if diff < 0 {
		diff = -diff
	}
	if diff > maxUsefulDistance {
		return diff
	}

	// Two rows are enough for space efficiency
	prev := make([]int, lenB+1)
	curr := make([]int, lenB+1)

	for j := 0; j <= lenB; j++ {
		prev[j] = j
	}

	for i := 1; i <= lenA; i++ {
		curr[0] = i
		for j := 1; j <= lenB; j++ {
			cost := 0
			if runesA[i-1] != runesB[j-1] {
				cost = 1
			}
			// Minimum of: deletion, insertion, substitution
			curr[j] = min3(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[lenB]
}

// min3 returns the minimum of three integers.
func min3(a, b, c int) int {
	if a <= b && a <= c {
		return a
	}
	if b <= c {
		return b
	}
	return c
}
