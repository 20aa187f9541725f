package scoring

// Option applies a configuration option to the IsolationForest.
type Option func(*IsolationForest)

// WithTrees sets the ensemble size.
func WithTrees(n int) Option {
	return func(f *IsolationForest) {
		f.trees = n
	}
}

// WithContamination sets the expected fraction of anomalous rows.
func WithContamination(c float64) Option {
	return func(f *IsolationForest) {
		f.contamination = c
	}
}

// WithMaxSamples caps the per-tree sub-sample size. Values <= 0 keep the
// automatic min(256, n).
func WithMaxSamples(n int) Option {
	return func(f *IsolationForest) {
		if n > 0 {
			f.maxSamples = n
		}
	}
}

// WithSeed sets the random seed used to grow every forest.
func WithSeed(seed int64) Option {
	return func(f *IsolationForest) {
		f.seed = seed
	}
}
