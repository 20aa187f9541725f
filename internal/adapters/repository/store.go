// Package repository keeps scored batches so their labeled tables can be
// downloaded after the upload request returns.
package repository

import (
	"context"

	"github.com/okian/activscan/internal/domain/model"
)

// Store provides read/write access to scored batches.
type Store interface {
	// Put stores out under its BatchID, evicting the oldest batch when full.
	Put(ctx context.Context, out model.LabeledDataset) error

	// Get returns the batch stored under id.
	// Returns ErrNotFound if the id is unknown or was evicted.
	Get(ctx context.Context, id string) (model.LabeledDataset, error)

	// Len returns the number of stored batches.
	Len(ctx context.Context) int
}
