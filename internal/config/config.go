// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Load layers a YAML file and ACTIVSCAN_* environment variables on top.
// - External errors are wrapped with this package's sentinel kinds.
package config

import (
	"context"
	"fmt"
	"strings"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory scoring job queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of scoring workers. One worker serializes
	// uploads.
	WorkerCount int `koanf:"worker_count"`

	// ResultStoreSize caps how many scored batches are kept for download.
	ResultStoreSize int `koanf:"result_store_size"`

	// MaxUploadBytes caps a POST /score body.
	MaxUploadBytes int64 `koanf:"max_upload_bytes"`

	// Trees is the isolation forest ensemble size.
	Trees int `koanf:"trees"`

	// Contamination is the expected anomalous fraction, in (0, 0.5].
	Contamination float64 `koanf:"contamination"`

	// MaxSamples caps the per-tree sub-sample; 0 means min(256, n).
	MaxSamples int `koanf:"max_samples"`

	// Seed drives every random draw of the forest.
	Seed int64 `koanf:"seed"`

	// MissingSentinel replaces missing features before scoring.
	MissingSentinel float64 `koanf:"missing_sentinel"`

	// NormalLabel and AnomalyLabel are written to Anomaly_Label.
	NormalLabel  string `koanf:"normal_label"`
	AnomalyLabel string `koanf:"anomaly_label"`

	// CORSOrigins is a comma separated list of allowed origins.
	CORSOrigins string `koanf:"cors_origins"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:        "info",
		Addr:            ":9080",
		QueueSize:       64,
		WorkerCount:     1,
		ResultStoreSize: 256,
		MaxUploadBytes:  32 << 20,
		Trees:           100,
		Contamination:   0.10,
		MaxSamples:      0,
		Seed:            42,
		MissingSentinel: -1,
		NormalLabel:     "Normal",
		AnomalyLabel:    "Anomaly",
		CORSOrigins:     "*",
	}
}

// Origins splits CORSOrigins into trimmed, non-empty entries.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.Contamination <= 0 || c.Contamination > 0.5:
		return fmt.Errorf("%w: contamination %v outside (0, 0.5]", ErrInvalidConfig, c.Contamination)
	case c.Trees < 1:
		return fmt.Errorf("%w: trees must be at least 1", ErrInvalidConfig)
	case c.MaxSamples < 0:
		return fmt.Errorf("%w: max_samples must not be negative", ErrInvalidConfig)
	case c.QueueSize < 1:
		return fmt.Errorf("%w: queue_size must be at least 1", ErrInvalidConfig)
	case c.WorkerCount < 1:
		return fmt.Errorf("%w: worker_count must be at least 1", ErrInvalidConfig)
	case c.ResultStoreSize < 1:
		return fmt.Errorf("%w: result_store_size must be at least 1", ErrInvalidConfig)
	case c.MaxUploadBytes < 1:
		return fmt.Errorf("%w: max_upload_bytes must be positive", ErrInvalidConfig)
	}
	return nil
}
