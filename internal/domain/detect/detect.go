// Package detect is the scoring entry point: it runs feature extraction,
// categorical encoding, outlier scoring and annotation over one batch.
package detect

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/okian/activscan/internal/domain/annotate"
	"github.com/okian/activscan/internal/domain/encoding"
	"github.com/okian/activscan/internal/domain/features"
	"github.com/okian/activscan/internal/domain/model"
	"github.com/okian/activscan/internal/domain/scoring"
	"github.com/okian/activscan/pkg/logger"
)

// DefaultMissingSentinel replaces missing features before scoring. It lies
// outside the hour range and below any valid quantity or duration.
const DefaultMissingSentinel = -1

// Detector labels activation batches. It holds configuration only and is
// safe for concurrent use; every Score call builds its own encoders and
// forest.
type Detector struct {
	scorerOpts []scoring.Option
	scorer     *scoring.IsolationForest
	sentinel   float64
	labels     model.Labels
	logger     logger.Logger
}

// Option applies a configuration option to the Detector.
type Option func(*Detector)

// WithTrees sets the isolation forest ensemble size.
func WithTrees(n int) Option {
	return func(d *Detector) { d.scorerOpts = append(d.scorerOpts, scoring.WithTrees(n)) }
}

// WithContamination sets the expected anomalous fraction.
func WithContamination(c float64) Option {
	return func(d *Detector) { d.scorerOpts = append(d.scorerOpts, scoring.WithContamination(c)) }
}

// WithMaxSamples caps the per-tree sub-sample.
func WithMaxSamples(n int) Option {
	return func(d *Detector) { d.scorerOpts = append(d.scorerOpts, scoring.WithMaxSamples(n)) }
}

// WithSeed sets the random seed.
func WithSeed(seed int64) Option {
	return func(d *Detector) { d.scorerOpts = append(d.scorerOpts, scoring.WithSeed(seed)) }
}

// WithMissingSentinel sets the value missing features are scored as.
func WithMissingSentinel(v float64) Option {
	return func(d *Detector) { d.sentinel = v }
}

// WithLabels sets the label strings. Empty strings keep the defaults.
func WithLabels(normal, anomalous string) Option {
	return func(d *Detector) {
		if normal != "" {
			d.labels.Normal = normal
		}
		if anomalous != "" {
			d.labels.Anomalous = anomalous
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(d *Detector) {
		if l != nil {
			d.logger = l
		}
	}
}

// New builds a Detector, validating the scorer configuration.
func New(opts ...Option) (*Detector, error) {
	d := &Detector{
		sentinel: DefaultMissingSentinel,
		labels:   model.DefaultLabels(),
		logger:   logger.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	s, err := scoring.NewIsolationForest(d.scorerOpts...)
	if err != nil {
		return nil, err
	}
	d.scorer = s
	return d, nil
}

// Score labels every record of ds. A schema violation rejects the whole
// batch; unparseable cells are scored as missing and counted in the report.
func (d *Detector) Score(ctx context.Context, ds model.Dataset) (model.LabeledDataset, error) {
	start := time.Now()
	batchID := uuid.NewString()
	log := d.logger.Named("detect")

	ext, err := features.Extract(ds)
	if err != nil {
		log.Warn(ctx, "batch rejected", logger.String("batch_id", batchID), logger.Error(err))
		return model.LabeledDataset{}, err
	}
	for _, i := range ext.Report.AffectedRows {
		log.Debug(ctx, "record has missing features",
			logger.String("batch_id", batchID),
			logger.Int("row", i),
			logger.String("assignment_id", ds.Records[i].AssignmentID),
		)
	}

	providers := make([]string, len(ds.Records))
	skus := make([]string, len(ds.Records))
	for i, r := range ds.Records {
		providers[i] = r.Provider
		skus[i] = r.SKU
	}
	providerCodes, _ := encoding.FitTransform(providers)
	skuCodes, _ := encoding.FitTransform(skus)
	for i := range ext.Vectors {
		ext.Vectors[i].ProviderCode = providerCodes[i]
		ext.Vectors[i].SKUCode = skuCodes[i]
	}

	res, err := d.scorer.Score(ctx, model.Matrix(ext.Vectors, d.sentinel))
	if err != nil {
		return model.LabeledDataset{}, fmt.Errorf("score batch %s: %w", batchID, err)
	}

	rows, err := annotate.Annotate(ds.Records, ext.Vectors, res.Verdicts, res.Scores, d.labels)
	if err != nil {
		return model.LabeledDataset{}, fmt.Errorf("annotate batch %s: %w", batchID, err)
	}

	out := model.LabeledDataset{
		BatchID: batchID,
		Rows:    rows,
		Report: model.Report{
			Records:       len(rows),
			Anomalies:     res.Anomalies,
			Contamination: d.scorer.Contamination(),
			Trees:         res.Trees,
			SampleSize:    res.SampleSize,
			Seed:          d.scorer.Seed(),
			Threshold:     res.Threshold,
			Parse:         ext.Report,
		},
	}
	log.Info(ctx, "batch scored",
		logger.String("batch_id", batchID),
		logger.Int("records", out.Report.Records),
		logger.Int("anomalies", out.Report.Anomalies),
		logger.Int("degraded_rows", ext.Report.Affected()),
		logger.Duration("elapsed", time.Since(start)),
	)
	return out, nil
}
