package models

// SearchResult represents a single ranked search hit.
type SearchResult struct {
	Listing *Listing `json:"listing"`
	Score   float64  `json:"score"`
	Rank    int      `json:"rank"`
	// Snippet is a short window of the description around the first query
	// term match, for display.
	Snippet   string     `json:"snippet,omitempty"`
	RankDebug *RankDebug `json:"rank_debug,omitempty"`
}

// SearchResponse is the response for a search request.
type SearchResponse struct {
	Results   []*SearchResult `json:"results"`
	Total     int             `json:"total"`
	QueryTime int64           `json:"query_time_ms"`
	Query     string          `json:"query"`
	// CorrectedQuery is set when the spell checker rewrote the query
	// ("Did you mean?"). Ranking treats the corrected form as a
	// discounted match, never as an exact one.
	CorrectedQuery string `json:"corrected_query,omitempty"`
}
