package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if FILMGRADE_CONFIG is set
//  3. env (prefix FILMGRADE_)
func Load() (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("FILMGRADE_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: FILMGRADE_RUBRIC, FILMGRADE_OUT_DIR, ...
	// Keys map like FILMGRADE_OUT_DIR -> out_dir (flat keys); underscores
	// are preserved to match the koanf tags on the struct.
	envProvider := env.Provider("FILMGRADE_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "filmgrade_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.OutFile == "" {
		return fmt.Errorf("%w: out_file must not be empty", ErrInvalidConfig)
	}
	if c.OutDir == "" {
		return fmt.Errorf("%w: out_dir must not be empty", ErrInvalidConfig)
	}
	switch c.GroupBy {
	case "player", "week":
	default:
		return fmt.Errorf("%w: group_by must be player or week, got %q", ErrInvalidConfig, c.GroupBy)
	}
	if !(c.ThresholdA >= c.ThresholdB && c.ThresholdB >= c.ThresholdC && c.ThresholdC >= c.ThresholdD) {
		return fmt.Errorf("%w: letter thresholds must be non-increasing", ErrInvalidConfig)
	}
	return nil
}
