package models

import "fmt"

// SearchQuery represents a search request with optional filters.
type SearchQuery struct {
	Query        string       `json:"query"`
	Limit        int          `json:"limit,omitempty"`
	Offset       int          `json:"offset,omitempty"`
	Category     string       `json:"category,omitempty"`
	SpellCheck   *bool        `json:"spell_check,omitempty"` // nil means use server default
	MinScore     float64      `json:"min_score,omitempty"`
	IncludeDebug bool         `json:"include_debug,omitempty"`
	UserContext  *UserContext `json:"user_context,omitempty"`
}

// Validate ensures the search query has valid fields and sets defaults.
// Returns an error if the query is empty; otherwise normalizes limit and offset.
func (q *SearchQuery) Validate() error {
	if q.Query == "" {
		return fmt.Errorf("query cannot be empty")
	}
	if q.Limit <= 0 {
		q.Limit = 10
	}
	if q.Limit > 100 {
		q.Limit = 100
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	return nil
}
