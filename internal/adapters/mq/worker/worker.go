// Package worker defines worker contracts for asynchronous folding and store updates.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/okian/regista/internal/adapters/mq/queue"
	"github.com/okian/regista/internal/domain/aggregate"
	"github.com/okian/regista/internal/domain/model"
	"github.com/okian/regista/pkg/logger"
	"github.com/okian/regista/pkg/metrics"
)

// Default worker configuration constants.
const (
	workerShutdownTimeout = 5 * time.Second
	poolShutdownTimeout   = 30 * time.Second
)

// Batch abstracts what workers read off the queue.
// Using the model.MatchBatch type for consistency.
type Batch = model.MatchBatch

// Folder computes per-report aggregates for a match batch.
type Folder interface {
	Fold(ctx context.Context, batch Batch) (map[string]aggregate.Aggregate, error)
}

// Applier merges folded aggregates into the per-report stores and
// credits appearance minutes for per-90 rates.
type Applier interface {
	ApplyAggregates(ctx context.Context, aggs map[string]aggregate.Aggregate) error
	AddExposure(ctx context.Context, appearances []model.Appearance)
}

// Queue defines how workers receive batches.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Batch
}

// Worker processes match batches and writes aggregate updates using the
// provided interfaces.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	// It will process any remaining batches before stopping.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker for processing match batches.
type InMemoryWorker struct {
	queue   Queue
	folder  Folder
	applier Applier
	name    string

	// Shutdown control
	shutdown     chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}

	// Logging
	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(queue Queue, folder Folder, applier Applier, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    queue,
		folder:   folder,
		applier:  applier,
		name:     "worker", // default name
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"), // will be updated by options
	}

	// Apply all options
	for _, opt := range opts {
		opt(w)
	}

	// Set up logger with worker name if not already set
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}

	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer func() {
		close(w.done)
	}()

	batchChan := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case batch, ok := <-batchChan:
			if !ok {
				// Channel closed, worker should stop
				return
			}

			// Process the batch
			if err := w.processBatch(ctx, batch); err != nil {
				w.logger.Error(ctx, "error processing batch", logger.Error(err))
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	// Signal shutdown
	w.signalShutdown()

	// Wait for worker to finish or context to timeout
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// signalShutdown closes the shutdown channel exactly once, so Pool.Stop
// and Pool.Shutdown can both be called safely.
func (w *InMemoryWorker) signalShutdown() {
	w.shutdownOnce.Do(func() {
		close(w.shutdown)
	})
}

// processBatch folds a single match and merges the result into the stores.
func (w *InMemoryWorker) processBatch(ctx context.Context, batch queue.Batch) error {
	// Track overall processing latency
	start := time.Now()
	defer func() {
		latency := time.Since(start).Milliseconds()
		metrics.RecordWorkerProcessingLatency(float64(latency))
	}()

	aggs, err := w.folder.Fold(ctx, batch)
	if err != nil {
		metrics.RecordWorkerError()
		w.logger.Error(ctx, "fold failed for match",
			logger.String("matchID", batch.MatchID),
			logger.Error(err),
		)
		return fmt.Errorf("failed to fold match %s: %w", batch.MatchID, err)
	}

	// Merge the aggregates into the per-report stores
	if err := w.applier.ApplyAggregates(ctx, aggs); err != nil {
		metrics.RecordWorkerError()
		w.logger.Error(ctx, "store update failed for match",
			logger.String("matchID", batch.MatchID),
			logger.Error(err),
		)
		return fmt.Errorf("store update failed: %w", err)
	}

	// Credit appearance minutes for per-90 rates
	w.applier.AddExposure(ctx, batch.Appearances)

	return nil
}

// Pool manages multiple workers.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue
	folder  Folder
	applier Applier

	// Logging
	logger logger.Logger
}

// NewPool creates a new worker pool. Folds are CPU bound, so the default
// is one worker per core.
func NewPool(workerCount int, queue Queue, folder Folder, applier Applier) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}

	pool := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   queue,
		folder:  folder,
		applier: applier,
		logger:  logger.Get().Named("worker-pool"),
	}

	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewInMemoryWorker(
			queue,
			folder,
			applier,
			WithName("worker-"+strconv.Itoa(i)),
		)
	}

	// Initialize worker metrics
	metrics.UpdateWorkerCount(workerCount)

	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, worker := range p.workers {
		go worker.Run(ctx)
	}
}

// Stop gracefully stops all workers.
func (p *Pool) Stop() {
	// Signal shutdown to all workers
	for _, worker := range p.workers {
		worker.signalShutdown()
	}

	// Wait for all workers to finish
	for _, worker := range p.workers {
		select {
		case <-worker.done:
			// Worker finished
		case <-time.After(workerShutdownTimeout):
			// Worker timeout
		}
	}
}

// Shutdown gracefully shuts down the entire worker pool.
func (p *Pool) Shutdown(ctx context.Context) error {
	// First close the queue to stop new batches
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	// Signal shutdown to all workers
	for _, worker := range p.workers {
		worker.signalShutdown()
	}

	// Wait for all workers to finish or context to timeout
	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, worker := range p.workers {
		select {
		case <-worker.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}

	return nil
}
