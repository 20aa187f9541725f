// Package queue defines the contract for enqueuing and consuming score jobs.
package queue

// Option applies a configuration option to the InMemoryQueue.
type Option func(*InMemoryQueue)

// WithCapacity sets the maximum number of pending jobs.
func WithCapacity(capacity int) Option {
	return func(q *InMemoryQueue) {
		if capacity > 0 {
			q.capacity = capacity
		}
	}
}
