// Package keyword provides the Bleve implementation of KeywordIndex.
package keyword

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	blevequery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/shoplore/shoplore/internal/models"
)

// indexedListing is the shape actually stored in the index: only the
// searchable text fields, not the full listing.
type indexedListing struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// BleveIndex implements KeywordIndex using Bleve.
type BleveIndex struct {
	index bleve.Index
}

// NewBleveIndex creates or opens a Bleve index at path. An existing index is
// opened and reused; remove the index directory to force a full re-index
// after a mapping change.
func NewBleveIndex(path string) (*BleveIndex, error) {
	im := bleve.NewIndexMapping()

	docMapping := bleve.NewDocumentMapping()
	textFieldMapping := bleve.NewTextFieldMapping()
	// Standard analyzer (lowercase + tokenize, no stemming) so a query like
	// "bakers" matches the exact word rather than a stemmed form.
	textFieldMapping.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt("name", textFieldMapping)
	docMapping.AddFieldMappingsAt("description", textFieldMapping)
	keywordFieldMapping := bleve.NewKeywordFieldMapping()
	docMapping.AddFieldMappingsAt("id", keywordFieldMapping)
	docMapping.AddFieldMappingsAt("category", keywordFieldMapping)
	im.AddDocumentMapping("listing", docMapping)
	im.DefaultType = "listing"
	im.DefaultMapping = docMapping

	if _, err := os.Stat(path); err == nil {
		index, openErr := bleve.Open(path)
		if openErr != nil {
			return nil, fmt.Errorf("failed to open Bleve index: %w", openErr)
		}
		return &BleveIndex{index: index}, nil
	}

	index, err := bleve.New(path, im)
	if err != nil {
		return nil, fmt.Errorf("failed to create Bleve index: %w", err)
	}
	return &BleveIndex{index: index}, nil
}

// NewMemoryBleveIndex creates an in-memory index, used by tests.
func NewMemoryBleveIndex() (*BleveIndex, error) {
	im := bleve.NewIndexMapping()
	index, err := bleve.NewMemOnly(im)
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory Bleve index: %w", err)
	}
	return &BleveIndex{index: index}, nil
}

// Index indexes a listing by id.
func (b *BleveIndex) Index(ctx context.Context, listing *models.Listing) error {
	return b.index.Index(listing.ID, &indexedListing{
		ID:          listing.ID,
		Name:        listing.Name,
		Description: listing.Description,
		Category:    listing.Category,
	})
}

// Search runs a match query and returns up to limit hits. When opts.NameBoost
// is above 1, separate name and description queries are merged with additive
// scoring so name matches dominate; otherwise a single match query is used.
func (b *BleveIndex) Search(ctx context.Context, query string, limit int, opts *SearchOptions) ([]*KeywordHit, error) {
	nameBoost := 1.0
	category := ""
	if opts != nil {
		if opts.NameBoost > 0 {
			nameBoost = opts.NameBoost
		}
		category = opts.Category
	}

	if nameBoost <= 1.0 {
		return b.searchSingle(query, limit, category)
	}
	return b.searchWithNameBoost(query, limit, nameBoost, category)
}

// searchSingle runs one MatchQuery over all text fields.
func (b *BleveIndex) searchSingle(query string, limit int, category string) ([]*KeywordHit, error) {
	q := withCategory(bleve.NewMatchQuery(query), category)
	req := bleve.NewSearchRequest(q)
	req.Size = limit
	results, err := b.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("Bleve search failed: %w", err)
	}
	out := make([]*KeywordHit, len(results.Hits))
	for i, hit := range results.Hits {
		out[i] = &KeywordHit{ID: hit.ID, Score: hit.Score}
	}
	return out, nil
}

// searchWithNameBoost merges boosted name scores with description scores
// additively, so a listing matching in both fields outranks one matching in
// either alone.
func (b *BleveIndex) searchWithNameBoost(query string, limit int, nameBoost float64, category string) ([]*KeywordHit, error) {
	// Request enough from each so the merged top "limit" is correct (the same
	// listing can appear in both).
	reqSize := limit * 2
	if reqSize < 50 {
		reqSize = 50
	}

	nameQuery := bleve.NewMatchQuery(query)
	nameQuery.SetField("name")
	descQuery := bleve.NewMatchQuery(query)
	descQuery.SetField("description")

	nameReq := bleve.NewSearchRequest(withCategory(nameQuery, category))
	nameReq.Size = reqSize
	descReq := bleve.NewSearchRequest(withCategory(descQuery, category))
	descReq.Size = reqSize

	nameResults, err := b.index.Search(nameReq)
	if err != nil {
		return nil, fmt.Errorf("Bleve name search failed: %w", err)
	}
	descResults, err := b.index.Search(descReq)
	if err != nil {
		return nil, fmt.Errorf("Bleve description search failed: %w", err)
	}

	scores := make(map[string]float64)
	for _, hit := range nameResults.Hits {
		scores[hit.ID] += hit.Score * nameBoost
	}
	for _, hit := range descResults.Hits {
		scores[hit.ID] += hit.Score
	}

	type scored struct {
		id    string
		score float64
	}
	merged := make([]scored, 0, len(scores))
	for id, score := range scores {
		merged = append(merged, scored{id: id, score: score})
	}
	sort.Slice(merged, func(i, j int) bool {
		if merged[i].score != merged[j].score {
			return merged[i].score > merged[j].score
		}
		return merged[i].id < merged[j].id
	})
	if len(merged) > limit {
		merged = merged[:limit]
	}

	out := make([]*KeywordHit, len(merged))
	for i, s := range merged {
		out[i] = &KeywordHit{ID: s.id, Score: s.score}
	}
	return out, nil
}

// withCategory wraps q in a conjunction with a category term filter when set.
func withCategory(q blevequery.Query, category string) blevequery.Query {
	if category == "" {
		return q
	}
	tq := bleve.NewTermQuery(category)
	tq.SetField("category")
	return bleve.NewConjunctionQuery(q, tq)
}

// Delete removes a listing from the index.
func (b *BleveIndex) Delete(ctx context.Context, id string) error {
	return b.index.Delete(id)
}

// Close closes the Bleve index.
func (b *BleveIndex) Close() error {
	return b.index.Close()
}

// DocCount returns the total number of listings in the index.
func (b *BleveIndex) DocCount() (uint64, error) {
	return b.index.DocCount()
}

// GetTermFrequency returns the document frequency for a term.
func (b *BleveIndex) GetTermFrequency(term string) (int, error) {
	q := bleve.NewMatchQuery(term)
	req := bleve.NewSearchRequest(q)
	req.Size = 10000
	results, err := b.index.Search(req)
	if err != nil {
		return 0, fmt.Errorf("failed to search for term frequency: %w", err)
	}
	return int(results.Total), nil
}

// GetAllTerms returns all unique terms from the index dictionary, used by the
// spell checker.
func (b *BleveIndex) GetAllTerms() ([]string, error) {
	terms := make([]string, 0)
	seen := make(map[string]struct{})

	for _, field := range []string{"name", "description"} {
		dict, err := b.index.FieldDict(field)
		if err != nil {
			continue
		}
		for {
			entry, err := dict.Next()
			if err != nil || entry == nil {
				break
			}
			if _, ok := seen[entry.Term]; !ok {
				terms = append(terms, entry.Term)
				seen[entry.Term] = struct{}{}
			}
		}
		_ = dict.Close()
	}

	return terms, nil
}

// ContainsTerm checks if a term exists in the index.
func (b *BleveIndex) ContainsTerm(term string) (bool, error) {
	freq, err := b.GetTermFrequency(term)
	if err != nil {
		return false, err
	}
	return freq > 0, nil
}
