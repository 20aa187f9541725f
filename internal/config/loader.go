package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every configuration environment variable.
const EnvPrefix = "ACTIVSCAN_"

// EnvConfigFile names the variable holding an optional YAML config path.
const EnvConfigFile = EnvPrefix + "CONFIG"

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. file (YAML) if ACTIVSCAN_CONFIG is set
//  3. env (prefix ACTIVSCAN_)
func Load(ctx context.Context) (*Config, error) {
	base := New(ctx)

	k := koanf.New(".")

	if path := os.Getenv(EnvConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: file %s: %w", ErrLoadConfig, path, err)
		}
	}

	// ACTIVSCAN_QUEUE_SIZE -> queue_size (flat keys, underscores kept).
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}
	// The file path itself is not a setting.
	k.Delete("config")

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
