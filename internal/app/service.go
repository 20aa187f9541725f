// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	jobqueue "github.com/okian/activscan/internal/adapters/mq/queue"
	workerpool "github.com/okian/activscan/internal/adapters/mq/worker"
	repository "github.com/okian/activscan/internal/adapters/repository"
	"github.com/okian/activscan/internal/domain/detect"
	"github.com/okian/activscan/internal/domain/model"
	"github.com/okian/activscan/pkg/logger"
	"github.com/okian/activscan/pkg/metrics"
)

// ErrNotStarted is returned by Submit and Result before Start or after Stop.
// It matches queue.ErrClosed so callers treat it as unavailability.
var ErrNotStarted = fmt.Errorf("service not started: %w", jobqueue.ErrClosed)

// Service implements the API dependencies for the activation scanner.
type Service struct {
	mu sync.RWMutex

	// Core components
	results    repository.Store
	jobs       *jobqueue.InMemoryQueue
	detector   *detect.Detector
	workerPool *workerpool.Pool

	// Configuration
	workerCount  int
	queueSize    int
	resultsSize  int
	detectorOpts []detect.Option

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum number of pending score jobs.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithResultStoreSize sets how many scored batches are kept for download.
func WithResultStoreSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.resultsSize = size
		}
	}
}

// WithDetectorOptions appends options for the batch detector.
func WithDetectorOptions(opts ...detect.Option) Option {
	return func(s *Service) {
		s.detectorOpts = append(s.detectorOpts, opts...)
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: 1,
		queueSize:   64,
		resultsSize: 256,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start builds the detector and starts the worker pool. An invalid
// detector configuration is returned as is.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting activation scanner service...")

	det, err := detect.New(append([]detect.Option{detect.WithLogger(s.logger)}, s.detectorOpts...)...)
	if err != nil {
		return fmt.Errorf("build detector: %w", err)
	}
	s.detector = det
	s.results = repository.NewMemoryStore(repository.WithCapacity(s.resultsSize))
	s.jobs = jobqueue.NewInMemoryQueue(jobqueue.WithCapacity(s.queueSize))

	s.workerPool = workerpool.NewPool(s.workerCount, s.jobs, s.detector, s.results, workerpool.WithLogger(s.logger))
	s.workerPool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "activation scanner service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("resultStoreSize", s.resultsSize),
	)
	return nil
}

// Stop closes the job queue and waits for queued batches to finish.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx := context.Background()
	s.logger.Info(ctx, "stopping activation scanner service...")

	if err := s.workerPool.Shutdown(ctx); err != nil {
		s.logger.Error(ctx, "worker pool shutdown failed", logger.Error(err))
	}

	s.started = false
	s.logger.Info(ctx, "activation scanner service stopped")
}

// Submit queues ds for scoring and waits for the labeled result. It fails
// fast with queue.ErrFull when no job slot is free.
func (s *Service) Submit(ctx context.Context, ds model.Dataset) (model.LabeledDataset, error) {
	s.mu.RLock()
	started, jobs := s.started, s.jobs
	s.mu.RUnlock()
	if !started {
		return model.LabeledDataset{}, ErrNotStarted
	}

	job := jobqueue.NewJob(uuid.NewString(), ds)
	s.logger.Debug(ctx, "enqueueing score job",
		logger.String("job_id", job.ID),
		logger.Int("records", ds.Len()),
	)
	if err := jobs.Enqueue(ctx, job); err != nil {
		return model.LabeledDataset{}, err
	}

	select {
	case res := <-job.Reply:
		return res.Output, res.Err
	case <-ctx.Done():
		return model.LabeledDataset{}, fmt.Errorf("await job %s: %w", job.ID, ctx.Err())
	}
}

// Result returns a previously scored batch.
func (s *Service) Result(ctx context.Context, batchID string) (model.LabeledDataset, error) {
	s.mu.RLock()
	started, results := s.started, s.results
	s.mu.RUnlock()
	if !started {
		return model.LabeledDataset{}, ErrNotStarted
	}
	return results.Get(ctx, batchID)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]any{
		"started":         s.started,
		"workerCount":     s.workerCount,
		"queueSize":       s.queueSize,
		"resultStoreSize": s.resultsSize,
	}

	if s.started {
		queueLen := s.jobs.Len(ctx)
		stored := s.results.Len(ctx)

		stats["queueLength"] = queueLen
		stats["storedResults"] = stored

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateStoreSize(stored)
	}
	return stats
}
