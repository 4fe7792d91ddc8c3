// Package metrics exposes Prometheus metrics for search and ranking.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	searchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "shoplore",
			Name:      "search_duration_seconds",
			Help:      "End-to-end search request duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)

	rankingDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "shoplore",
			Name:      "ranking_duration_seconds",
			Help:      "Ranking duration in seconds by execution strategy",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.15, 0.25, 0.5},
		},
		[]string{"strategy"},
	)

	rankingFallbacks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "shoplore",
			Name:      "ranking_offload_fallbacks_total",
			Help:      "Number of offloaded ranking calls that fell back to the synchronous path",
		},
	)

	rankedHits = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "shoplore",
			Name:      "ranking_batch_size",
			Help:      "Number of hits per ranking call",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		},
	)
)

func init() {
	prometheus.MustRegister(searchDuration)
	prometheus.MustRegister(rankingDuration)
	prometheus.MustRegister(rankingFallbacks)
	prometheus.MustRegister(rankedHits)
}

// ObserveSearchDuration records one search request duration.
func ObserveSearchDuration(d time.Duration) {
	searchDuration.Observe(d.Seconds())
}

// ObserveRanking records one ranking call: its strategy, duration, and batch size.
func ObserveRanking(strategy string, d time.Duration, hits int) {
	rankingDuration.WithLabelValues(strategy).Observe(d.Seconds())
	rankedHits.Observe(float64(hits))
}

// IncRankingFallback counts one offload failure that degraded to the
// synchronous path.
func IncRankingFallback() {
	rankingFallbacks.Inc()
}
