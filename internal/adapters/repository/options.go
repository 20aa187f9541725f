package repository

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithCapacity sets the maximum number of batches kept.
func WithCapacity(n int) Option {
	return func(s *MemoryStore) {
		if n > 0 {
			s.capacity = n
		}
	}
}
