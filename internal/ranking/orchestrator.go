package ranking

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/shoplore/shoplore/internal/metrics"
	"github.com/shoplore/shoplore/internal/models"
)

// Orchestrator is the entry point for tiered ranking. It decides the
// execution strategy per call, drives classification and scoring for the
// whole hit set, and emits the final ordered list. Ranking never fails the
// search: any offload error degrades to the synchronous in-process path.
//
// The orchestrator holds no per-call state; all classifications and scores
// live only for the duration of one Rank call.
type Orchestrator struct {
	config     *RankingConfig
	classifier *Classifier
	composer   *Composer
	pool       *workerPool
	logger     *zap.Logger
	now        func() time.Time
}

// NewOrchestrator creates an Orchestrator. When offload is enabled in config,
// a worker pool is started; Close releases it.
func NewOrchestrator(config *RankingConfig, logger *zap.Logger) *Orchestrator {
	if config == nil {
		config = DefaultRankingConfig()
	}
	config.ApplyDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}

	o := &Orchestrator{
		config:     config,
		classifier: NewClassifier(config),
		composer:   NewComposer(),
		logger:     logger,
		now:        time.Now,
	}
	if config.OffloadEnabled {
		o.pool = newWorkerPool(config.OffloadWorkers, config.OffloadQueueSize, o.scoreAndSort)
	}
	return o
}

// Close stops the worker pool, waiting for in-flight tasks.
func (o *Orchestrator) Close() {
	if o.pool != nil {
		o.pool.Stop()
	}
}

// Rank orders hits by tiered score: classification, composite scoring, then a
// stable sort. The same hits come back in a new order; none are added,
// removed, or deduplicated. For batches at or above the offload threshold
// (directly or via the caller's total-candidate hint) the work is delegated
// to the worker pool with a bounded timeout.
func (o *Orchestrator) Rank(ctx context.Context, hits []*models.SearchHit, query string, correction *models.Correction, user *models.UserContext) []*models.SearchHit {
	start := time.Now()

	switch len(hits) {
	case 0:
		return []*models.SearchHit{}
	case 1:
		// No sorting overhead for a single hit.
		cls := o.classifier.Classify(hits[0], query, correction)
		result := o.composer.Compose(hits[0], cls, hitFreshness(hits[0], o.now()))
		metrics.ObserveRanking("inline", time.Since(start), 1)
		return o.finalize([]*TieredResult{result})
	}

	if o.shouldOffload(len(hits), user) {
		if ctx == nil {
			ctx = context.Background()
		}
		offloadCtx, cancel := context.WithTimeout(ctx, o.config.OffloadTimeout)
		results, err := o.pool.Submit(offloadCtx, hits, query, correction)
		cancel()
		if err == nil {
			metrics.ObserveRanking("offload", time.Since(start), len(hits))
			return o.finalize(results)
		}
		// Discard the worker result and rank synchronously; the caller
		// never sees the failure.
		o.logger.Warn("ranking offload failed, using synchronous path",
			zap.Int("hits", len(hits)),
			zap.Error(err))
		metrics.IncRankingFallback()
	}

	results := o.scoreAndSort(hits, query, correction)
	metrics.ObserveRanking("sync", time.Since(start), len(hits))
	return o.finalize(results)
}

// shouldOffload reports whether this batch goes to the worker pool.
func (o *Orchestrator) shouldOffload(hitCount int, user *models.UserContext) bool {
	if o.pool == nil {
		return false
	}
	if hitCount >= o.config.OffloadThreshold {
		return true
	}
	return user != nil && user.TotalResults >= o.config.OffloadThreshold
}

// scoreAndSort is the core ranking computation, shared by the synchronous
// path and the worker pool: classify, score, stable-sort. It never touches
// the hits themselves, so a result set from an abandoned worker can be
// discarded safely while the fallback re-ranks the same hits.
func (o *Orchestrator) scoreAndSort(hits []*models.SearchHit, query string, correction *models.Correction) []*TieredResult {
	classifications := o.classifier.ClassifyBatch(hits, query, correction)
	now := o.now()

	results := make([]*TieredResult, len(hits))
	for i, hit := range hits {
		results[i] = o.composer.Compose(hit, classifications[i], hitFreshness(hit, now))
	}

	// Stable sort keeps the relative input order for full ties, so repeated
	// calls with identical inputs produce identical orderings.
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].FinalScore != results[j].FinalScore {
			return results[i].FinalScore > results[j].FinalScore
		}
		if results[i].HealthScore != results[j].HealthScore {
			return results[i].HealthScore > results[j].HealthScore
		}
		return results[i].TierScore > results[j].TierScore
	})
	return results
}

// finalize writes the composite score and optional debug metadata onto the
// hits of the winning result set and extracts them in ranked order. Only one
// result set per Rank call ever reaches this point.
func (o *Orchestrator) finalize(results []*TieredResult) []*models.SearchHit {
	ordered := make([]*models.SearchHit, len(results))
	for i, r := range results {
		if r.Hit != nil {
			r.Hit.Score = r.FinalScore
			if o.config.IncludeDebug {
				r.Hit.RankDebug = r.Debug()
			}
		}
		ordered[i] = r.Hit
	}
	return ordered
}

// hitFreshness computes the freshness bucket for a hit, neutral when the hit
// or its timestamps are missing.
func hitFreshness(hit *models.SearchHit, now time.Time) float64 {
	if hit == nil {
		return freshnessNeutral
	}
	return FreshnessScore(hit.Source.FreshnessTime(), now)
}
