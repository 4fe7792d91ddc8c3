package ranking

import "time"

// RankingConfig holds all configuration for the ranking engine. It is read at
// construction time only; per-call mutation would break reproducibility.
type RankingConfig struct {
	// OffloadEnabled enables delegating large batches to the worker pool.
	OffloadEnabled bool `yaml:"offload_enabled"`
	// OffloadThreshold is the hit count (or total-candidate hint) at or above
	// which ranking is offloaded to the worker pool. default: 50
	OffloadThreshold int `yaml:"offload_threshold"`
	// OffloadTimeout bounds a single offloaded ranking call. On expiry the
	// result is discarded and the synchronous path runs instead. default: 10s
	OffloadTimeout time.Duration `yaml:"offload_timeout"`
	// OffloadWorkers is the worker pool size. default: 4
	OffloadWorkers int `yaml:"offload_workers"`
	// OffloadQueueSize is the pending-task queue capacity. default: 16
	OffloadQueueSize int `yaml:"offload_queue_size"`

	// ParallelThreshold is the batch size above which classification runs in
	// concurrent chunks. default: 10
	ParallelThreshold int `yaml:"parallel_threshold"`
	// ChunkSize is the minimum classification chunk size. The effective chunk
	// is max(ChunkSize, ceil(n/4)). default: 10
	ChunkSize int `yaml:"chunk_size"`

	// IncludeDebug attaches a per-hit score breakdown to ranked hits.
	// Normally off for performance. default: false
	IncludeDebug bool `yaml:"include_debug"`
}

// DefaultRankingConfig returns the default ranking configuration.
func DefaultRankingConfig() *RankingConfig {
	return &RankingConfig{
		OffloadEnabled:    false,
		OffloadThreshold:  50,
		OffloadTimeout:    10 * time.Second,
		OffloadWorkers:    4,
		OffloadQueueSize:  16,
		ParallelThreshold: 10,
		ChunkSize:         10,
		IncludeDebug:      false,
	}
}

// ApplyDefaults fills in zero values with defaults.
func (c *RankingConfig) ApplyDefaults() {
	d := DefaultRankingConfig()
	if c.OffloadThreshold <= 0 {
		c.OffloadThreshold = d.OffloadThreshold
	}
	if c.OffloadTimeout <= 0 {
		c.OffloadTimeout = d.OffloadTimeout
	}
	if c.OffloadWorkers <= 0 {
		c.OffloadWorkers = d.OffloadWorkers
	}
	if c.OffloadQueueSize <= 0 {
		c.OffloadQueueSize = d.OffloadQueueSize
	}
	if c.ParallelThreshold <= 0 {
		c.ParallelThreshold = d.ParallelThreshold
	}
	if c.ChunkSize <= 0 {
		c.ChunkSize = d.ChunkSize
	}
}
