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

	"github.com/okian/skillfade/internal/domain/model"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New())
//  2. file (YAML) if SKILLFADE_CONFIG is set
//  3. env (prefix SKILLFADE_)
func Load(ctx context.Context) (*Config, error) {
	// Start with defaults
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("SKILLFADE_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Environment variables: SKILLFADE_ADDR, SKILLFADE_QUEUE_SIZE, ...
	// Map env keys like SKILLFADE_QUEUE_SIZE -> queue_size (flat keys)
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("SKILLFADE_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "skillfade_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case !model.ValidDecayRate(c.DefaultDecayRate):
		return fmt.Errorf("%w: default_decay_rate must be in (%g, %g]",
			ErrInvalidConfig, model.MinDecayRate, model.MaxDecayRate)
	case c.HistoryDays < 1:
		return fmt.Errorf("%w: history_days must be positive", ErrInvalidConfig)
	case c.DecayAlertThreshold <= 0 || c.DecayAlertThreshold >= 100:
		return fmt.Errorf("%w: decay_alert_threshold must be in (0, 100)", ErrInvalidConfig)
	case c.SweepIntervalMinutes < 1:
		return fmt.Errorf("%w: sweep_interval_minutes must be positive", ErrInvalidConfig)
	}
	return nil
}
