// Package config defines service configuration structures and loading hooks.
package config

import (
	"github.com/okian/pitchside/internal/domain/scoring"
	"github.com/okian/pitchside/internal/domain/teams"
)

// Storage backends.
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// Storage selects the store backend: memory or postgres.
	Storage string `koanf:"storage"`

	// PostgresDSN is the lib/pq connection string used when Storage is postgres.
	PostgresDSN string `koanf:"postgres_dsn"`

	// GoalFactor and AssistFactor are the rating weights used until a value
	// is persisted through the settings API.
	GoalFactor   float64 `koanf:"goal_factor"`
	AssistFactor float64 `koanf:"assist_factor"`

	// ExactPartitionLimit is the largest pool split by exhaustive search.
	ExactPartitionLimit int `koanf:"exact_partition_limit"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// RosterFile is the YAML roster read by the teamgen command.
	RosterFile string `koanf:"roster_file"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		Storage:             StorageMemory,
		GoalFactor:          scoring.DefaultGoalFactor,
		AssistFactor:        scoring.DefaultAssistFactor,
		ExactPartitionLimit: teams.DefaultExactLimit,
		MaxLeaderboardLimit: 100,
		RosterFile:          "roster.yaml",
	}
}

// Weights returns the configured rating weights.
func (c *Config) Weights() scoring.Weights {
	return scoring.Weights{GoalFactor: c.GoalFactor, AssistFactor: c.AssistFactor}
}
