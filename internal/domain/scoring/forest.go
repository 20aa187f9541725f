// Package scoring implements unsupervised outlier detection over numeric
// feature rows using an isolation forest.
package scoring

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/okian/activscan/internal/domain/model"
)

// Default scoring configuration constants.
const (
	DefaultTrees         = 100
	DefaultContamination = 0.10
	DefaultSeed          = 42
	autoMaxSamples       = 256
	maxContamination     = 0.5
	eulerGamma           = 0.5772156649015329
)

// Scorer assigns one verdict per feature row.
type Scorer interface {
	// Score fits on rows and labels each of them, honoring ctx for cancellation.
	Score(ctx context.Context, rows [][]float64) (Result, error)
}

// Result carries per-row scores and verdicts, aligned with the input rows.
type Result struct {
	Scores     []float64 // in (0, 1]; higher is more anomalous
	Verdicts   []model.Verdict
	Threshold  float64 // rows scoring strictly above are anomalous
	Anomalies  int
	SampleSize int
	Trees      int
}

// IsolationForest scores rows by how few random splits isolate them.
// It holds configuration only; each Score call grows a fresh forest.
type IsolationForest struct {
	trees         int
	contamination float64
	maxSamples    int // 0 means min(256, n)
	seed          int64
}

// NewIsolationForest validates options and returns a scorer.
func NewIsolationForest(opts ...Option) (*IsolationForest, error) {
	f := &IsolationForest{
		trees:         DefaultTrees,
		contamination: DefaultContamination,
		seed:          DefaultSeed,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.trees < 1 {
		return nil, fmt.Errorf("%w: trees must be >= 1, got %d", ErrInvalidConfig, f.trees)
	}
	if !(f.contamination > 0 && f.contamination <= maxContamination) {
		return nil, fmt.Errorf("%w: contamination must be in (0, 0.5], got %g", ErrInvalidConfig, f.contamination)
	}
	return f, nil
}

// Contamination returns the configured anomaly fraction.
func (f *IsolationForest) Contamination() float64 { return f.contamination }

// Trees returns the configured ensemble size.
func (f *IsolationForest) Trees() int { return f.trees }

// Seed returns the configured random seed.
func (f *IsolationForest) Seed() int64 { return f.seed }

// Score fits a forest on rows and labels every row.
func (f *IsolationForest) Score(ctx context.Context, rows [][]float64) (Result, error) {
	n := len(rows)
	if n == 0 {
		return Result{Scores: []float64{}, Verdicts: []model.Verdict{}, Trees: f.trees}, nil
	}
	width := len(rows[0])
	for i, r := range rows {
		if len(r) != width {
			return Result{}, fmt.Errorf("%w: row %d has %d features, want %d", ErrRaggedMatrix, i, len(r), width)
		}
	}

	psi := f.sampleSize(n)
	heightLimit := int(math.Ceil(math.Log2(math.Max(float64(psi), 2))))
	rng := rand.New(rand.NewSource(f.seed)) //nolint:gosec // deterministic seed for reproducible verdicts

	trees := make([]*node, f.trees)
	for t := range trees {
		if err := ctx.Err(); err != nil {
			return Result{}, fmt.Errorf("context cancelled: %w", err)
		}
		idx := rng.Perm(n)[:psi]
		trees[t] = grow(rows, idx, 0, heightLimit, rng)
	}

	norm := averagePathLength(psi)
	if norm == 0 {
		norm = 1
	}
	scores := make([]float64, n)
	for i, r := range rows {
		var total float64
		for _, t := range trees {
			total += t.pathLength(r, 0)
		}
		scores[i] = math.Pow(2, -(total/float64(len(trees)))/norm)
	}

	threshold := scoreThreshold(scores, f.contamination)
	res := Result{
		Scores:     scores,
		Verdicts:   make([]model.Verdict, n),
		Threshold:  threshold,
		SampleSize: psi,
		Trees:      len(trees),
	}
	for i, s := range scores {
		if s > threshold {
			res.Verdicts[i] = model.Anomalous
			res.Anomalies++
		}
	}
	return res, nil
}

func (f *IsolationForest) sampleSize(n int) int {
	limit := autoMaxSamples
	if f.maxSamples > 0 {
		limit = f.maxSamples
	}
	if n < limit {
		return n
	}
	return limit
}

// scoreThreshold returns the score above which a row is anomalous: the
// (1 - contamination) split of the score distribution, taken as the
// contamination percentile of negated scores with linear interpolation.
func scoreThreshold(scores []float64, contamination float64) float64 {
	neg := make([]float64, len(scores))
	for i, s := range scores {
		neg[i] = -s
	}
	sort.Float64s(neg)
	pos := contamination * float64(len(neg)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	offset := neg[lo]
	if hi != lo {
		offset += (neg[hi] - neg[lo]) * (pos - float64(lo))
	}
	return -offset
}

// averagePathLength is the mean path length of an unsuccessful search in
// a binary search tree of n points.
func averagePathLength(n int) float64 {
	switch {
	case n <= 1:
		return 0
	case n == 2:
		return 1
	}
	m := float64(n)
	return 2*(math.Log(m-1)+eulerGamma) - 2*(m-1)/m
}
