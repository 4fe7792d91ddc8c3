package ranking

import (
	"math"
	"strings"
	"sync"

	"github.com/shoplore/shoplore/internal/models"
	"github.com/shoplore/shoplore/internal/textmatch"
)

// Classification thresholds. Fixed constants so classification stays
// reproducible across deployments.
const (
	// maxFuzzyDistance caps the edit distance accepted for a fuzzy match;
	// the effective bound is min(maxFuzzyDistance, ceil(len(query)/3)).
	maxFuzzyDistance = 3
	// wordFuzzyDistance is the per-token edit distance bound for partial
	// multi-word matches.
	wordFuzzyDistance = 2
	// similarityThreshold is the minimum character-overlap similarity for a
	// close-tier similarity match.
	similarityThreshold = 0.6
	// partialWordsRatio is the fraction of query tokens that must fuzzily
	// match some name token for a partial_words classification.
	partialWordsRatio = 0.6
	// highTextScore is the raw lexical score at which a hit is considered
	// relevant even when no name-level match is found.
	highTextScore = 5.0

	// Confidence values for exact-tier subtypes.
	confidencePerfect   = 1.0
	confidencePrefix    = 0.95
	confidenceSubstring = 0.9
	confidenceAllWords  = 0.85
	confidenceOther     = 0.5
)

// Classifier decides, per hit, how well the listing name matches the query.
// Classification is pure and total: malformed or missing names are treated as
// empty strings and never cause an error.
type Classifier struct {
	config *RankingConfig
}

// NewClassifier creates a Classifier with the given configuration.
func NewClassifier(config *RankingConfig) *Classifier {
	if config == nil {
		config = DefaultRankingConfig()
	}
	config.ApplyDefaults()
	return &Classifier{config: config}
}

// Classify classifies one hit against a query. Checks run cheapest-first and
// the first match wins: exact-tier name checks, then the typo-corrected form
// of the query (demoted to close tier), then fuzzy and similarity heuristics,
// then a lexical-score floor, then other.
func (c *Classifier) Classify(hit *models.SearchHit, query string, correction *models.Correction) Classification {
	name := ""
	if hit != nil && hit.Source != nil {
		name = hit.Source.Name
	}
	name = textmatch.Normalize(name)
	query = textmatch.Normalize(query)

	// Exact-tier checks against the query as given.
	if matchType, confidence, details, ok := classifyExact(name, query); ok {
		return Classification{
			Tier:       TierExact,
			MatchType:  matchType,
			Confidence: confidence,
			Details:    details,
		}
	}

	// The corrected query matching exactly is still only a close match: the
	// user did not type it, so correction confidence discounts it.
	if correction.Changed() {
		corrected := textmatch.Normalize(correction.CorrectedQuery)
		if matchType, _, details, ok := classifyExact(name, corrected); ok {
			details.IsTypoCorrection = true
			return Classification{
				Tier:       TierClose,
				MatchType:  MatchTypoCorrectedPrefix + matchType,
				Confidence: correction.Confidence,
				Details:    details,
			}
		}
	}

	// Close-tier checks, first hit wins.
	if cls, ok := c.classifyClose(hit, name, query); ok {
		return cls
	}

	return Classification{
		Tier:       TierOther,
		MatchType:  MatchOther,
		Confidence: confidenceOther,
	}
}

// classifyExact runs the exact-tier checks in priority order:
// perfect equality, prefix, substring, then all query words matching name
// words (multi-word queries only).
func classifyExact(name, query string) (matchType string, confidence float64, details ClassificationDetails, ok bool) {
	if name == query {
		details.IsPerfectMatch = true
		details.StartsWithQuery = true
		details.ContainsQuery = true
		return MatchPerfect, confidencePerfect, details, true
	}
	if strings.HasPrefix(name, query) {
		details.StartsWithQuery = true
		details.ContainsQuery = true
		return MatchPrefix, confidencePrefix, details, true
	}
	if strings.Contains(name, query) {
		details.ContainsQuery = true
		return MatchSubstring, confidenceSubstring, details, true
	}

	queryTokens := textmatch.Tokenize(query)
	if len(queryTokens) >= 2 {
		nameTokens := textmatch.Tokenize(name)
		if allTokensMatch(queryTokens, nameTokens) {
			return MatchAllWords, confidenceAllWords, details, true
		}
	}

	return "", 0, details, false
}

// allTokensMatch reports whether every query token equals or prefixes some
// name token.
func allTokensMatch(queryTokens, nameTokens []string) bool {
	if len(nameTokens) == 0 {
		return false
	}
	for _, qt := range queryTokens {
		found := false
		for _, nt := range nameTokens {
			if strings.HasPrefix(nt, qt) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// classifyClose runs the close-tier heuristics in order: whole-name fuzzy
// distance, per-word fuzzy distance (single-token queries), character-overlap
// similarity, partial multi-word matching, and finally the lexical-score floor.
func (c *Classifier) classifyClose(hit *models.SearchHit, name, query string) (Classification, bool) {
	queryLen := len([]rune(query))

	if queryLen > 0 && len(name) > 0 {
		bound := fuzzyBound(queryLen)

		distance := textmatch.Levenshtein(name, query)
		if distance > 0 && distance <= bound {
			return Classification{
				Tier:       TierClose,
				MatchType:  MatchFuzzy,
				Confidence: 1 - float64(distance)/float64(queryLen),
				Details:    ClassificationDetails{EditDistance: distance},
			}, true
		}

		queryTokens := textmatch.Tokenize(query)
		nameTokens := textmatch.Tokenize(name)

		if len(queryTokens) == 1 {
			for _, nt := range nameTokens {
				d := textmatch.Levenshtein(nt, queryTokens[0])
				if d > 0 && d <= bound {
					return Classification{
						Tier:       TierClose,
						MatchType:  MatchFuzzyWord,
						Confidence: 1 - float64(d)/float64(queryLen),
						Details:    ClassificationDetails{EditDistance: d},
					}, true
				}
			}
		}

		similarity := textmatch.CharOverlapSimilarity(name, query)
		if similarity > similarityThreshold {
			return Classification{
				Tier:       TierClose,
				MatchType:  MatchSimilarity,
				Confidence: similarity,
				Details:    ClassificationDetails{Similarity: similarity},
			}, true
		}

		if len(queryTokens) >= 2 {
			matched := 0
			for _, qt := range queryTokens {
				for _, nt := range nameTokens {
					if d := textmatch.Levenshtein(qt, nt); d <= wordFuzzyDistance {
						matched++
						break
					}
				}
			}
			ratio := float64(matched) / float64(len(queryTokens))
			if ratio >= partialWordsRatio {
				return Classification{
					Tier:       TierClose,
					MatchType:  MatchPartialWords,
					Confidence: ratio,
				}, true
			}
		}
	}

	// The lexical score is a proxy for relevance the classifier cannot see in
	// the name alone (matches in description, category, etc.).
	if hit != nil && hit.Score >= highTextScore {
		return Classification{
			Tier:       TierClose,
			MatchType:  MatchHighTextScore,
			Confidence: math.Min(1, hit.Score/10),
		}, true
	}

	return Classification{}, false
}

// fuzzyBound returns the edit-distance bound for a query of the given rune
// length: min(maxFuzzyDistance, ceil(len/3)).
func fuzzyBound(queryLen int) int {
	bound := (queryLen + 2) / 3
	if bound > maxFuzzyDistance {
		bound = maxFuzzyDistance
	}
	return bound
}

// ClassifyBatch classifies every hit against the query and returns the
// classifications aligned with the input order. Small batches run
// sequentially; larger ones are split into disjoint chunks classified by
// concurrent goroutines, each writing its own output slots, so the merge
// needs no locks and the result is identical to the sequential path.
func (c *Classifier) ClassifyBatch(hits []*models.SearchHit, query string, correction *models.Correction) []Classification {
	out := make([]Classification, len(hits))

	if len(hits) <= c.config.ParallelThreshold {
		for i, hit := range hits {
			out[i] = c.Classify(hit, query, correction)
		}
		return out
	}

	chunkSize := c.config.ChunkSize
	if quarter := (len(hits) + 3) / 4; quarter > chunkSize {
		chunkSize = quarter
	}

	var wg sync.WaitGroup
	for start := 0; start < len(hits); start += chunkSize {
		end := start + chunkSize
		if end > len(hits) {
			end = len(hits)
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				out[i] = c.Classify(hits[i], query, correction)
			}
		}(start, end)
	}
	wg.Wait()

	return out
}
