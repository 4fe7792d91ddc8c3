package models

// SearchHit is one raw full-text-search hit handed to the ranking engine.
// Score holds the lexical relevance from the keyword index on input
// (>= 0, unbounded) and is overwritten with the final composite score after
// ranking. Source is read-only to ranking; the engine never mutates it.
type SearchHit struct {
	ID     string         `json:"id"`
	Score  float64        `json:"score"`
	Source *ListingSource `json:"source"`
	// Listing is the hydrated listing for response assembly. Optional;
	// ranking only reads ID, Score, and Source.
	Listing *Listing `json:"listing,omitempty"`
	// RankDebug is attached by the ranking engine when debug metadata is
	// enabled. Purely diagnostic; normally nil.
	RankDebug *RankDebug `json:"rank_debug,omitempty"`
}

// RankDebug is the per-hit ranking breakdown attached when debug metadata is enabled.
type RankDebug struct {
	FinalScore        float64 `json:"final_score"`
	Tier              string  `json:"tier"`
	MatchType         string  `json:"match_type"`
	Confidence        float64 `json:"confidence"`
	TierScore         float64 `json:"tier_score"`
	ConfirmationScore float64 `json:"confirmation_score"`
	HealthScore       float64 `json:"health_score"`
	RatingBoost       float64 `json:"rating_boost"`
	FreshnessScore    float64 `json:"freshness_score"`
	FeaturedBoost     float64 `json:"featured_boost"`
	TextScore         float64 `json:"text_score"`
}

// UserContext carries optional per-request context from the API layer.
// Only TotalResults affects ranking (worker-offload threshold decision);
// the rest is forwarded for collaborators.
type UserContext struct {
	UserID        string   `json:"user_id,omitempty"`
	UserLatitude  *float64 `json:"user_latitude,omitempty"`
	UserLongitude *float64 `json:"user_longitude,omitempty"`
	RequestedSize int      `json:"requested_size,omitempty"`
	TotalResults  int      `json:"total_results,omitempty"`
}
