// Package queue defines the contract for enqueuing and consuming score jobs.
//
// Uploads are turned into jobs so that a fixed number of workers score
// batches one at a time. A full queue rejects the job immediately.
package queue

import (
	"context"
	"sync"

	"github.com/okian/activscan/internal/domain/model"
	"github.com/okian/activscan/pkg/metrics"
)

const defaultQueueCapacity = 64

// Result is what a worker sends back for a job.
type Result struct {
	Output model.LabeledDataset
	Err    error
}

// Job carries one batch to score. Reply, when set, must be buffered so a
// worker never blocks on a caller that went away.
type Job struct {
	ID      string
	Dataset model.Dataset
	Reply   chan Result
}

// NewJob builds a job with a one-slot reply channel.
func NewJob(id string, ds model.Dataset) Job {
	return Job{ID: id, Dataset: ds, Reply: make(chan Result, 1)}
}

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a job. It returns ErrFull when no slot is free and
	// ErrClosed after Close.
	Enqueue(ctx context.Context, j Job) error

	// Dequeue returns the channel workers receive jobs from. It is closed
	// when the queue is closed and drained.
	Dequeue(ctx context.Context) <-chan Job

	// Len returns the current number of pending jobs.
	Len(ctx context.Context) int

	// Cap returns the maximum number of pending jobs.
	Cap() int

	// Close stops accepting jobs.
	Close() error

	// IsClosed reports whether Close was called.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	jobs     chan Job
	capacity int

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultQueueCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.jobs = make(chan Job, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	return q
}

// Enqueue adds a job to the queue without blocking.
func (q *InMemoryQueue) Enqueue(ctx context.Context, j Job) error { //nolint:gocritic // hugeParam: Job is passed by value for channel semantics
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	select {
	case q.jobs <- j:
		metrics.RecordQueueEnqueue()
		metrics.UpdateQueueSize(len(q.jobs))
		return nil
	default:
		metrics.RecordQueueRejection()
		return ErrFull
	}
}

// Dequeue returns the receive side of the job channel. Workers share it, so
// a job is handed to exactly one of them.
func (q *InMemoryQueue) Dequeue(_ context.Context) <-chan Job {
	return q.jobs
}

// Len returns the current number of pending jobs.
func (q *InMemoryQueue) Len(_ context.Context) int {
	size := len(q.jobs)
	metrics.UpdateQueueSize(size)
	return size
}

// Cap returns the configured capacity.
func (q *InMemoryQueue) Cap() int { return q.capacity }

// Close gracefully shuts down the queue. Pending jobs stay readable.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.jobs)
	q.closed = true
	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
