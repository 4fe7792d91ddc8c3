package textmatch

// jaccardWeight and lengthWeight blend character-set overlap with a
// length-ratio term, so that strings sharing most characters but wildly
// different in length do not score as near-identical.
const (
	jaccardWeight = 0.7
	lengthWeight  = 0.3
)

// CharOverlapSimilarity returns a similarity in [0, 1] between two strings:
// the Jaccard index of their character sets blended with the ratio of their
// lengths. Both inputs are compared as-is; callers normalize case first.
func CharOverlapSimilarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	setA := runeSet(a)
	setB := runeSet(b)

	intersection := 0
	for r := range setA {
		if _, ok := setB[r]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0.0
	}
	jaccard := float64(intersection) / float64(union)

	lenA := len([]rune(a))
	lenB := len([]rune(b))
	shorter, longer := lenA, lenB
	if shorter > longer {
		shorter, longer = longer, shorter
	}
	lengthRatio := float64(shorter) / float64(longer)

	return jaccard*jaccardWeight + lengthRatio*lengthWeight
}

// runeSet returns the set of distinct runes in s.
func runeSet(s string) map[rune]struct{} {
	set := make(map[rune]struct{}, len(s))
	for _, r := range s {
		set[r] = struct{}{}
	}
	return set
}
