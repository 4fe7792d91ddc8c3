// Package ranking implements tiered ranking of full-text search hits:
// match-quality classification, composite scoring, and deterministic ordering.
package ranking

import "github.com/shoplore/shoplore/internal/models"

// Tier is the coarse match-quality bucket for a hit. Tiers are totally
// ordered and dominate every other ranking signal.
type Tier int

const (
	// TierOther indicates no meaningful name match was found.
	TierOther Tier = iota + 1
	// TierClose indicates a fuzzy or typo-level match.
	TierClose
	// TierExact indicates the name matches the query directly.
	TierExact
)

// String returns a string representation of the tier.
func (t Tier) String() string {
	switch t {
	case TierExact:
		return "exact"
	case TierClose:
		return "close"
	case TierOther:
		return "other"
	default:
		return "unknown"
	}
}

// Match type labels produced by classification. The typo-corrected variants
// are derived by prefixing MatchTypoCorrectedPrefix to an exact-tier label.
const (
	MatchPerfect       = "perfect"
	MatchPrefix        = "prefix"
	MatchSubstring     = "substring"
	MatchAllWords      = "all_words"
	MatchFuzzy         = "fuzzy"
	MatchFuzzyWord     = "fuzzy_word"
	MatchSimilarity    = "similarity"
	MatchPartialWords  = "partial_words"
	MatchHighTextScore = "high_text_score"
	MatchOther         = "other"

	MatchTypoCorrectedPrefix = "typo_corrected_"
)

// ClassificationDetails records the individual checks behind a classification,
// for debugging and tests.
type ClassificationDetails struct {
	IsPerfectMatch   bool
	StartsWithQuery  bool
	ContainsQuery    bool
	EditDistance     int
	Similarity       float64
	IsTypoCorrection bool
}

// Classification is the match-quality verdict for one hit against one query.
// It is a pure function of (hit, query, correction); no hidden state.
type Classification struct {
	Tier       Tier
	MatchType  string
	Confidence float64
	Details    ClassificationDetails
}

// TieredResult holds one hit with its classification and score breakdown.
// Results are call-scoped: created at ranking start, consumed by the sort,
// and discarded once the ordered hits are extracted.
type TieredResult struct {
	Hit            *models.SearchHit
	Classification Classification

	TierScore         float64
	ConfirmationScore float64
	HealthScore       float64
	RatingBoost       float64
	FreshnessScore    float64
	FeaturedBoost     float64
	TextScore         float64
	FinalScore        float64
}

// Debug returns the diagnostic block for this result.
func (r *TieredResult) Debug() *models.RankDebug {
	return &models.RankDebug{
		FinalScore:        r.FinalScore,
		Tier:              r.Classification.Tier.String(),
		MatchType:         r.Classification.MatchType,
		Confidence:        r.Classification.Confidence,
		TierScore:         r.TierScore,
		ConfirmationScore: r.ConfirmationScore,
		HealthScore:       r.HealthScore,
		RatingBoost:       r.RatingBoost,
		FreshnessScore:    r.FreshnessScore,
		FeaturedBoost:     r.FeaturedBoost,
		TextScore:         r.TextScore,
	}
}
