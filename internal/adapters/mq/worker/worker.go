// Package worker runs score jobs taken from the queue.
package worker

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/okian/activscan/internal/adapters/mq/queue"
	"github.com/okian/activscan/internal/domain/features"
	"github.com/okian/activscan/internal/domain/model"
	"github.com/okian/activscan/pkg/logger"
	"github.com/okian/activscan/pkg/metrics"
)

const poolShutdownTimeout = 30 * time.Second

// Scorer labels one batch.
type Scorer interface {
	Score(ctx context.Context, ds model.Dataset) (model.LabeledDataset, error)
}

// Store keeps scored batches for later download.
type Store interface {
	Put(ctx context.Context, out model.LabeledDataset) error
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Job
}

// Worker processes jobs using the provided interfaces.
type Worker interface {
	// Run starts the worker loop until ctx is canceled or the queue closes.
	Run(ctx context.Context)

	// Shutdown stops the worker after the job in flight.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker.
type InMemoryWorker struct {
	queue  Queue
	scorer Scorer
	store  Store
	name   string

	shutdown     chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(queue Queue, scorer Scorer, store Store, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    queue,
		scorer:   scorer,
		store:    store,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case j, ok := <-jobs:
			if !ok {
				return
			}
			w.process(ctx, j)
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.shutdownOnce.Do(func() { close(w.shutdown) })

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// process scores one job, stores the result and answers the caller.
func (w *InMemoryWorker) process(ctx context.Context, j queue.Job) { //nolint:gocritic // hugeParam: Job is passed by value for channel semantics
	metrics.RecordQueueDequeue()
	metrics.AddWorkerActive(1)
	defer metrics.AddWorkerActive(-1)

	start := time.Now()
	out, err := w.scorer.Score(ctx, j.Dataset)
	elapsed := time.Since(start)

	switch {
	case errors.Is(err, features.ErrSchema):
		metrics.RecordSchemaError()
		w.logger.Warn(ctx, "job rejected", logger.String("job_id", j.ID), logger.Error(err))
	case err != nil:
		metrics.RecordScoringError()
		w.logger.Error(ctx, "scoring failed", logger.String("job_id", j.ID), logger.Error(err))
		err = fmt.Errorf("score job %s: %w", j.ID, err)
	default:
		metrics.RecordBatch(out.Len(), out.Report.Anomalies, out.Report.Parse.Affected(), float64(elapsed.Milliseconds()))
		if perr := w.store.Put(ctx, out); perr != nil {
			w.logger.Error(ctx, "store result failed", logger.String("batch_id", out.BatchID), logger.Error(perr))
			err = fmt.Errorf("store batch %s: %w", out.BatchID, perr)
		}
	}

	if j.Reply == nil {
		return
	}
	select {
	case j.Reply <- queue.Result{Output: out, Err: err}:
	default:
		w.logger.Warn(ctx, "reply dropped", logger.String("job_id", j.ID))
	}
}

// Pool manages multiple workers.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue
	logger  logger.Logger
}

// NewPool creates a new worker pool. A count below one yields a single
// worker, which serializes batches. opts apply to every worker.
func NewPool(workerCount int, queue Queue, scorer Scorer, store Store, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = 1
	}
	pool := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   queue,
		logger:  logger.Get().Named("worker-pool"),
	}
	for i := 0; i < workerCount; i++ {
		wopts := append([]Option{WithName("worker-" + strconv.Itoa(i))}, opts...)
		pool.workers[i] = NewInMemoryWorker(queue, scorer, store, wopts...)
	}
	return pool
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, worker := range p.workers {
		go worker.Run(ctx)
	}
}

// Shutdown closes the queue and waits for workers to drain it.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, worker := range p.workers {
		select {
		case <-worker.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
			return fmt.Errorf("worker %d: %w", i, shutdownCtx.Err())
		}
	}
	return nil
}
