// Package worker runs score jobs taken from the queue.
package worker

import (
	"github.com/okian/activscan/pkg/logger"
)

// Option configures an InMemoryWorker.
type Option func(*InMemoryWorker)

// WithName labels the worker in logs. Empty names keep the default.
func WithName(name string) Option {
	return func(w *InMemoryWorker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger replaces the global logger for this worker.
func WithLogger(l logger.Logger) Option {
	return func(w *InMemoryWorker) {
		if l != nil {
			w.logger = l
		}
	}
}
