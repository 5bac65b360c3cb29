// Package repository persists players, matches, seasons and settings, and
// builds leaderboards from player snapshots.
package repository

import (
	"context"

	"github.com/okian/pitchside/internal/domain/model"
)

// Setting keys persisted by the service.
const (
	SettingGoalFactor   = "goalScoreFactor"
	SettingAssistFactor = "assistScoreFactor"
)

// Store provides read/write access to the tracker state.
//
// Match writes are atomic: either the match and every participant's updated
// aggregate are stored, or nothing is.
type Store interface {
	// CreatePlayer stores a new player. An empty ID is replaced by a generated one.
	// Returns ErrConflict if the ID is taken.
	CreatePlayer(ctx context.Context, p model.Player) (model.Player, error)
	// GetPlayer returns ErrNotFound if the player is unknown.
	GetPlayer(ctx context.Context, id string) (model.Player, error)
	// GetPlayers returns the players in the order of ids. Any unknown id fails
	// the whole call with ErrNotFound.
	GetPlayers(ctx context.Context, ids []string) ([]model.Player, error)
	// ListPlayers returns every player in creation order.
	ListPlayers(ctx context.Context) ([]model.Player, error)
	// UpdatePlayer replaces a stored player.
	UpdatePlayer(ctx context.Context, p model.Player) (model.Player, error)
	// DeletePlayer removes a player. Returns ErrConflict if the player appears
	// in a recorded match.
	DeletePlayer(ctx context.Context, id string) error
	// CountPlayers returns the number of stored players.
	CountPlayers(ctx context.Context) (int, error)

	// RecordMatch stores m and applies it to its participants.
	RecordMatch(ctx context.Context, m model.Match) (model.Match, error)
	// ReplaceMatch reverts the stored match with m.ID and applies m instead.
	ReplaceMatch(ctx context.Context, m model.Match) (model.Match, error)
	// DeleteMatch reverts and removes a match.
	DeleteMatch(ctx context.Context, id string) error
	GetMatch(ctx context.Context, id string) (model.Match, error)
	// ListMatches returns matches by date. A non-empty seasonID filters by season.
	ListMatches(ctx context.Context, seasonID string) ([]model.Match, error)

	CreateSeason(ctx context.Context, s model.Season) (model.Season, error)
	ListSeasons(ctx context.Context) ([]model.Season, error)

	// GetSetting returns ErrNotFound if key was never set.
	GetSetting(ctx context.Context, key string) (string, error)
	// SetSettings upserts every key of settings. Either all keys are stored
	// or none is.
	SetSettings(ctx context.Context, settings map[string]string) error

	Close() error
}
