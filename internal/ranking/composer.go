package ranking

import (
	"math"
	"time"

	"github.com/shoplore/shoplore/internal/models"
)

// Scoring weights. These are deliberately constants rather than configuration:
// the ordering guarantees (tier dominates everything, confirmation dominates
// everything below it within a tier) hold only for these exact magnitudes,
// and the test suite checks them.
const (
	tierUnit          = 1000.0
	exactTierBonus    = 7000.0
	confirmationBoost = 2000.0
	ratingUnit        = 10.0
	featuredBoost     = 500.0
	maxTextScore      = 10.0
	textScoreScale    = 2.5

	freshnessNeutral = 5.0
)

// Freshness age buckets, most recent first.
var freshnessBuckets = []struct {
	maxAge time.Duration
	score  float64
}{
	{30 * 24 * time.Hour, 10},
	{90 * 24 * time.Hour, 8},
	{180 * 24 * time.Hour, 6},
	{365 * 24 * time.Hour, 4},
}

const freshnessOldest = 2.0

// Composer computes the deterministic composite score for a classified hit.
type Composer struct{}

// NewComposer creates a Composer.
func NewComposer() *Composer {
	return &Composer{}
}

// Compose builds the TieredResult for a hit: tier score, confirmation boost,
// health, rating, freshness, featured boost, and the residual lexical
// contribution, summed into FinalScore.
func (c *Composer) Compose(hit *models.SearchHit, cls Classification, freshness float64) *TieredResult {
	r := &TieredResult{
		Hit:            hit,
		Classification: cls,
		FreshnessScore: freshness,
	}

	r.TierScore = float64(cls.Tier) * tierUnit
	if cls.Tier == TierExact {
		r.TierScore += exactTierBonus
	}

	if hit != nil && hit.Source != nil {
		src := hit.Source
		if src.Confirmed() {
			r.ConfirmationScore = confirmationBoost
		}
		r.HealthScore = clamp(src.Health, 0, 100)
		r.RatingBoost = clamp(src.Rating, 0, 5) * ratingUnit
		if src.IsFeatured {
			r.FeaturedBoost = featuredBoost
		}
	}

	if hit != nil {
		r.TextScore = normalizeTextScore(hit.Score)
	}

	r.FinalScore = r.TierScore + r.ConfirmationScore + r.HealthScore +
		r.RatingBoost + r.FreshnessScore + r.FeaturedBoost + r.TextScore

	return r
}

// FreshnessScore maps an update timestamp to its age-bucket score as of now.
// A zero timestamp scores neutral, so hits without usable dates are neither
// rewarded nor punished.
func FreshnessScore(t time.Time, now time.Time) float64 {
	if t.IsZero() {
		return freshnessNeutral
	}
	age := now.Sub(t)
	for _, b := range freshnessBuckets {
		if age <= b.maxAge {
			return b.score
		}
	}
	return freshnessOldest
}

// normalizeTextScore compresses the unbounded lexical score into [0, 10] so
// it can break ties without crossing any higher-weight signal.
func normalizeTextScore(raw float64) float64 {
	return math.Min(maxTextScore, math.Log10(math.Max(1, raw))*textScoreScale)
}

// clamp limits v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
