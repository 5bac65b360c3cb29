package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/okian/pitchside/internal/domain/teams"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "PITCHSIDE_"

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if PITCHSIDE_CONFIG is set
//  3. env (prefix PITCHSIDE_)
func Load() (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv(EnvPrefix + "CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// PITCHSIDE_GOAL_FACTOR -> goal_factor. Keys are flat, so underscores stay.
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *New()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.Storage != StorageMemory && c.Storage != StoragePostgres:
		return fmt.Errorf("%w: unknown storage %q", ErrInvalidConfig, c.Storage)
	case c.Storage == StoragePostgres && c.PostgresDSN == "":
		return fmt.Errorf("%w: postgres_dsn is required for postgres storage", ErrInvalidConfig)
	case c.ExactPartitionLimit < teams.MinPlayers || c.ExactPartitionLimit > teams.MaxExactLimit:
		return fmt.Errorf("%w: exact_partition_limit must be within [%d, %d], got %d",
			ErrInvalidConfig, teams.MinPlayers, teams.MaxExactLimit, c.ExactPartitionLimit)
	case c.MaxLeaderboardLimit < 1:
		return fmt.Errorf("%w: max_leaderboard_limit must be positive", ErrInvalidConfig)
	}
	if err := c.Weights().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}
