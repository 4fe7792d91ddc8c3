package ranking

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shoplore/shoplore/internal/models"
)

// ErrQueueFull is returned by Submit when the task queue is saturated.
// Callers treat it like any other worker failure and rank synchronously.
var ErrQueueFull = errors.New("ranking: worker queue full")

// rankTask is one offloaded ranking job. The fields crossing into the worker
// are plain data; workers never share mutable state with the caller.
type rankTask struct {
	hits       []*models.SearchHit
	query      string
	correction *models.Correction
	result     chan rankOutcome
}

// rankOutcome carries the scored, ordered results or the worker error back
// to the caller. Workers produce results without touching the hits, so an
// abandoned task cannot race with the caller's fallback path.
type rankOutcome struct {
	results []*TieredResult
	err     error
}

// workerPool is a fixed-size pool of goroutines executing ranking tasks from
// a bounded queue. The entry point is the run function bound at construction;
// there is no dynamic dispatch or module probing.
type workerPool struct {
	tasks chan rankTask
	run   func(hits []*models.SearchHit, query string, correction *models.Correction) []*TieredResult

	wg       sync.WaitGroup
	stopOnce sync.Once
}

// newWorkerPool starts workers goroutines consuming from a queue of queueSize.
func newWorkerPool(workers, queueSize int, run func([]*models.SearchHit, string, *models.Correction) []*TieredResult) *workerPool {
	p := &workerPool{
		tasks: make(chan rankTask, queueSize),
		run:   run,
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

func (p *workerPool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		task.result <- p.execute(task)
	}
}

// execute runs one task, converting a panic into an error so a core bug in a
// worker degrades to the synchronous fallback instead of crashing the process.
func (p *workerPool) execute(task rankTask) (out rankOutcome) {
	defer func() {
		if r := recover(); r != nil {
			out = rankOutcome{err: fmt.Errorf("ranking worker panic: %v", r)}
		}
	}()
	return rankOutcome{results: p.run(task.hits, task.query, task.correction)}
}

// Submit enqueues a ranking task and waits for its result until ctx expires.
// On timeout the task is abandoned: its buffered result channel lets the
// worker finish without blocking, and the stale result is discarded.
func (p *workerPool) Submit(ctx context.Context, hits []*models.SearchHit, query string, correction *models.Correction) ([]*TieredResult, error) {
	task := rankTask{
		hits:       hits,
		query:      query,
		correction: correction,
		result:     make(chan rankOutcome, 1),
	}

	select {
	case p.tasks <- task:
	default:
		return nil, ErrQueueFull
	}

	select {
	case outcome := <-task.result:
		return outcome.results, outcome.err
	case <-ctx.Done():
		return nil, fmt.Errorf("ranking offload: %w", ctx.Err())
	}
}

// Stop closes the queue and waits for in-flight tasks to finish.
func (p *workerPool) Stop() {
	p.stopOnce.Do(func() {
		close(p.tasks)
	})
	p.wg.Wait()
}
