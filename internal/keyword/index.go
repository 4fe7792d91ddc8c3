// Package keyword provides full-text (BM25) indexing and search over listings,
// plus spell checking against the index dictionary.
package keyword

import (
	"context"

	"github.com/shoplore/shoplore/internal/models"
)

// SearchOptions are optional parameters for keyword search. Nil means use defaults.
type SearchOptions struct {
	// NameBoost multiplies the score contribution from matches in the listing
	// name field. Values > 1 make name matches rank higher. Use 1.0 for no boost.
	NameBoost float64
	// Category restricts results to a single category when non-empty.
	Category string
}

// KeywordIndex defines keyword search operations over listings.
type KeywordIndex interface {
	Index(ctx context.Context, listing *models.Listing) error
	Search(ctx context.Context, query string, limit int, opts *SearchOptions) ([]*KeywordHit, error)
	Delete(ctx context.Context, id string) error
	Close() error
	// DocCount returns the total number of listings in the index.
	DocCount() (uint64, error)
}

// KeywordHit is a single keyword search hit.
type KeywordHit struct {
	ID    string
	Score float64
}

// TermDictionary provides access to the index term dictionary for spell
// checking. The interface allows dependency injection for testing.
type TermDictionary interface {
	// GetAllTerms returns all unique terms in the index.
	GetAllTerms() ([]string, error)
	// GetTermFrequency returns the document frequency for a term.
	GetTermFrequency(term string) (int, error)
	// ContainsTerm checks if a term exists in the index.
	ContainsTerm(term string) (bool, error)
}
