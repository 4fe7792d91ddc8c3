// Package search provides the listing search engine: keyword retrieval,
// listing hydration, spell checking, and tiered ranking.
package search

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/shoplore/shoplore/internal/config"
	"github.com/shoplore/shoplore/internal/keyword"
	"github.com/shoplore/shoplore/internal/metrics"
	"github.com/shoplore/shoplore/internal/models"
	"github.com/shoplore/shoplore/internal/ranking"
	"github.com/shoplore/shoplore/internal/storage"
)

// Speller produces typo corrections for a query.
type Speller interface {
	Check(query string) (*models.Correction, error)
}

// Engine runs listing search end to end.
type Engine struct {
	storage      storage.Storage
	keywordIndex keyword.KeywordIndex
	speller      Speller
	ranker       *ranking.Orchestrator
	config       *config.SearchConfig
	logger       *zap.Logger
}

// NewEngine creates a search engine with the given dependencies. speller may
// be nil, in which case spell checking is skipped.
func NewEngine(
	store storage.Storage,
	keywordIndex keyword.KeywordIndex,
	speller Speller,
	ranker *ranking.Orchestrator,
	cfg *config.SearchConfig,
	logger *zap.Logger,
) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		storage:      store,
		keywordIndex: keywordIndex,
		speller:      speller,
		ranker:       ranker,
		config:       cfg,
		logger:       logger,
	}
}

// Search runs a query through retrieval, spell check, and ranking, and
// returns paginated listing-level results.
func (e *Engine) Search(ctx context.Context, query *models.SearchQuery) (*models.SearchResponse, error) {
	startTime := time.Now()
	if err := ProcessQuery(query); err != nil {
		return nil, err
	}

	correction := e.checkSpelling(query)

	hits, err := e.retrieve(ctx, query.Query, query.Category)
	if err != nil {
		return nil, err
	}

	// When the original query finds nothing and the checker produced a
	// correction, retry with the corrected query.
	if len(hits) == 0 && correction.Changed() {
		hits, err = e.retrieve(ctx, correction.CorrectedQuery, query.Category)
		if err != nil {
			return nil, err
		}
	}

	ranked := e.ranker.Rank(ctx, hits, query.Query, correction, query.UserContext)

	if query.MinScore > 0 {
		filtered := ranked[:0]
		for _, h := range ranked {
			if h.Score >= query.MinScore {
				filtered = append(filtered, h)
			}
		}
		ranked = filtered
	}

	start := query.Offset
	end := query.Offset + query.Limit
	if start > len(ranked) {
		start = len(ranked)
	}
	if end > len(ranked) {
		end = len(ranked)
	}
	paged := ranked[start:end]

	response := &models.SearchResponse{
		Results:   make([]*models.SearchResult, 0, len(paged)),
		Total:     len(ranked),
		QueryTime: time.Since(startTime).Milliseconds(),
		Query:     query.Query,
	}
	if correction.Changed() {
		response.CorrectedQuery = correction.CorrectedQuery
	}

	for i, hit := range paged {
		result := &models.SearchResult{
			Listing: hit.Listing,
			Score:   hit.Score,
			Rank:    start + i + 1,
		}
		if hit.Listing != nil && hit.Listing.Description != "" {
			result.Snippet = Snippet(hit.Listing.Description, query.Query, snippetMaxLen)
		}
		if query.IncludeDebug {
			result.RankDebug = hit.RankDebug
		}
		response.Results = append(response.Results, result)
	}

	metrics.ObserveSearchDuration(time.Since(startTime))
	return response, nil
}

// checkSpelling runs the spell checker when enabled. Failures are logged and
// treated as "no correction"; a broken checker must not fail the search.
func (e *Engine) checkSpelling(query *models.SearchQuery) *models.Correction {
	if e.speller == nil {
		return nil
	}
	enabled := e.config.SpellCheckEnabled()
	if query.SpellCheck != nil {
		enabled = *query.SpellCheck
	}
	if !enabled {
		return nil
	}

	correction, err := e.speller.Check(query.Query)
	if err != nil {
		e.logger.Warn("spell check failed", zap.String("query", query.Query), zap.Error(err))
		return nil
	}
	return correction
}

// retrieve runs keyword search and hydrates hits from storage. Hits whose
// listing no longer exists are dropped.
func (e *Engine) retrieve(ctx context.Context, query, category string) ([]*models.SearchHit, error) {
	keywordHits, err := e.keywordIndex.Search(ctx, query, e.config.TopKCandidates, &keyword.SearchOptions{
		NameBoost: e.config.NameBoost,
		Category:  category,
	})
	if err != nil {
		return nil, fmt.Errorf("keyword search failed: %w", err)
	}
	if len(keywordHits) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(keywordHits))
	for _, h := range keywordHits {
		ids = append(ids, h.ID)
	}
	listings, err := e.storage.GetListings(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("listing hydration failed: %w", err)
	}

	hits := make([]*models.SearchHit, 0, len(keywordHits))
	for _, h := range keywordHits {
		listing, ok := listings[h.ID]
		if !ok {
			e.logger.Debug("indexed listing missing from storage", zap.String("id", h.ID))
			continue
		}
		hits = append(hits, AdaptHit(listing, h.Score))
	}
	return hits, nil
}
