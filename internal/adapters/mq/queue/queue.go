// Package queue defines the contract for enqueuing and consuming match batches.
//
// Implementations may use channels or more advanced structures. The MVP
// will start with an in-memory bounded queue.
package queue

import (
	"context"
	"sync"

	"github.com/okian/regista/internal/domain/model"
	"github.com/okian/regista/pkg/metrics"
)

// Default queue configuration constants. A batch holds a full match, so
// the queue is sized in matches rather than individual actions.
const (
	defaultQueueCapacity = 4096
	defaultBufferSize    = 4096
)

// Batch represents the payload type flowing through the queue.
// Using the model.MatchBatch type for type safety.
type Batch = model.MatchBatch

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a batch to the queue.
	// Returns false if the queue is full and the batch was not enqueued.
	Enqueue(ctx context.Context, b Batch) bool

	// Dequeue returns a channel that will receive batches as they become available.
	// The channel will be closed when the queue is closed.
	Dequeue(ctx context.Context) <-chan Batch

	// Len returns the current number of queued batches.
	Len(ctx context.Context) int

	// Close gracefully shuts down the queue.
	// After closing, no new batches can be enqueued and the dequeue channel will be closed.
	Close() error

	// IsClosed returns true if the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	batches    chan Batch
	capacity   int
	bufferSize int
	mu         sync.RWMutex
	closed     bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity:   defaultQueueCapacity, // default capacity
		bufferSize: defaultBufferSize,    // default buffer size
	}

	// Apply all options
	for _, opt := range opts {
		opt(q)
	}

	// Initialize the batches channel with the configured buffer size
	q.batches = make(chan Batch, q.bufferSize)

	// Initialize metrics
	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueDepth(0)
	metrics.UpdateQueueUtilization(0.0)

	return q
}

// Enqueue adds a batch to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, b Batch) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueEnqueueError()
		return false
	}

	// Check if we're at capacity
	if len(q.batches) >= q.capacity {
		metrics.RecordQueueEnqueueError()
		return false
	}

	select {
	case q.batches <- b:
		metrics.RecordQueueEnqueue()
		// Update queue depth and utilization
		currentDepth := len(q.batches)
		metrics.UpdateQueueDepth(currentDepth)
		utilization := float64(currentDepth) / float64(q.capacity)
		metrics.UpdateQueueUtilization(utilization)
		return true
	case <-ctx.Done():
		metrics.RecordQueueEnqueueError()
		return false // context cancelled
	default:
		metrics.RecordQueueEnqueueError()
		return false // queue is full
	}
}

// Dequeue returns a channel that will receive batches as they become available.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Batch {
	// Wrap the channel to track dequeue metrics
	dequeueChan := make(chan Batch)
	go func() {
		defer close(dequeueChan)
		for batch := range q.batches {
			select {
			case dequeueChan <- batch:
				metrics.RecordQueueDequeue()
				// Update queue depth and utilization after dequeue
				currentDepth := len(q.batches)
				metrics.UpdateQueueDepth(currentDepth)
				utilization := float64(currentDepth) / float64(q.capacity)
				metrics.UpdateQueueUtilization(utilization)
			case <-ctx.Done():
				return
			}
		}
	}()
	return dequeueChan
}

// Len returns the current number of queued batches.
func (q *InMemoryQueue) Len(ctx context.Context) int {
	depth := len(q.batches)
	metrics.UpdateQueueDepth(depth)
	utilization := float64(depth) / float64(q.capacity)
	metrics.UpdateQueueUtilization(utilization)
	return depth
}

// Close gracefully shuts down the queue.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil // already closed
	}

	// Close the batches channel to signal consumers to stop
	close(q.batches)
	q.closed = true

	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
