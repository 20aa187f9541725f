package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/okian/activscan/internal/domain/model"
	"github.com/okian/activscan/pkg/metrics"
)

const defaultCapacity = 256

// MemoryStore is a bounded in-memory Store. Batches are evicted in
// insertion order.
type MemoryStore struct {
	mu       sync.RWMutex
	capacity int
	byID     map[string]model.LabeledDataset
	order    []string
}

// NewMemoryStore creates a store with configuration options.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{capacity: defaultCapacity}
	for _, opt := range opts {
		opt(s)
	}
	s.byID = make(map[string]model.LabeledDataset, s.capacity)
	s.order = make([]string, 0, s.capacity)
	metrics.UpdateStoreSize(0)
	return s
}

// Put stores out. Re-putting an existing id replaces it in place.
func (s *MemoryStore) Put(ctx context.Context, out model.LabeledDataset) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if out.BatchID == "" {
		return ErrInvalidBatch
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[out.BatchID]; ok {
		s.byID[out.BatchID] = out
		return nil
	}
	for len(s.order) >= s.capacity {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.byID, oldest)
		metrics.RecordStoreEviction()
	}
	s.byID[out.BatchID] = out
	s.order = append(s.order, out.BatchID)
	metrics.UpdateStoreSize(len(s.order))
	return nil
}

// Get returns the batch stored under id.
func (s *MemoryStore) Get(_ context.Context, id string) (model.LabeledDataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out, ok := s.byID[id]
	if !ok {
		return model.LabeledDataset{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return out, nil
}

// Len returns the number of stored batches.
func (s *MemoryStore) Len(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}
