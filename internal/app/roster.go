package service

import (
	"context"

	"github.com/okian/pitchside/internal/adapters/repository"
	"github.com/okian/pitchside/internal/domain/model"
	"github.com/okian/pitchside/internal/domain/summary"
	"github.com/okian/pitchside/internal/domain/types"
	"github.com/okian/pitchside/pkg/logger"
	"github.com/okian/pitchside/pkg/metrics"
)

// CreatePlayer adds a player. A new player normally starts with an empty record.
func (s *Service) CreatePlayer(ctx context.Context, p model.Player) (model.Player, error) {
	p, err := s.store.CreatePlayer(ctx, p)
	if err != nil {
		return model.Player{}, err
	}
	s.logger.Debug(ctx, "player created", logger.String("playerID", p.ID))
	return p, nil
}

// GetPlayer returns one player.
func (s *Service) GetPlayer(ctx context.Context, id string) (model.Player, error) {
	return s.store.GetPlayer(ctx, id)
}

// ListPlayers returns every player in creation order.
func (s *Service) ListPlayers(ctx context.Context) ([]model.Player, error) {
	return s.store.ListPlayers(ctx)
}

// UpdatePlayer replaces a player's name and aggregates.
func (s *Service) UpdatePlayer(ctx context.Context, p model.Player) (model.Player, error) {
	return s.store.UpdatePlayer(ctx, p)
}

// DeletePlayer removes a player that never played a recorded match.
func (s *Service) DeletePlayer(ctx context.Context, id string) error {
	return s.store.DeletePlayer(ctx, id)
}

// RecordMatch stores a match and folds it into the participants' records.
func (s *Service) RecordMatch(ctx context.Context, m model.Match) (model.Match, error) {
	m, err := s.store.RecordMatch(ctx, m)
	if err != nil {
		s.logger.Warn(ctx, "match rejected", logger.Error(err))
		return model.Match{}, err
	}
	s.logger.Info(ctx, "match recorded",
		logger.String("matchID", m.ID),
		logger.Int("scoreA", m.TeamA.Score),
		logger.Int("scoreB", m.TeamB.Score))
	return m, nil
}

// ReplaceMatch edits a recorded match, reverting its old effect first.
func (s *Service) ReplaceMatch(ctx context.Context, m model.Match) (model.Match, error) {
	return s.store.ReplaceMatch(ctx, m)
}

// DeleteMatch removes a match and its effect on player records.
func (s *Service) DeleteMatch(ctx context.Context, id string) error {
	return s.store.DeleteMatch(ctx, id)
}

// GetMatch returns one match.
func (s *Service) GetMatch(ctx context.Context, id string) (model.Match, error) {
	return s.store.GetMatch(ctx, id)
}

// ListMatches returns matches, optionally filtered by season.
func (s *Service) ListMatches(ctx context.Context, seasonID string) ([]model.Match, error) {
	return s.store.ListMatches(ctx, seasonID)
}

// CreateSeason adds a season.
func (s *Service) CreateSeason(ctx context.Context, season model.Season) (model.Season, error) {
	return s.store.CreateSeason(ctx, season)
}

// ListSeasons returns every season.
func (s *Service) ListSeasons(ctx context.Context) ([]model.Season, error) {
	return s.store.ListSeasons(ctx)
}

// leaderboard ranks the current roster under one weights snapshot.
func (s *Service) leaderboard(ctx context.Context) (*repository.Leaderboard, error) {
	players, err := s.store.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}
	metrics.RecordScoreComputations(len(players))
	return repository.NewLeaderboard(players, s.scorer.Weights()), nil
}

// TopN returns the top N leaderboard entries.
func (s *Service) TopN(ctx context.Context, n int) ([]types.Entry, error) {
	lb, err := s.leaderboard(ctx)
	if err != nil {
		return nil, err
	}
	return lb.TopN(n)
}

// Rank returns the leaderboard entry of one player.
func (s *Service) Rank(ctx context.Context, playerID string) (types.Entry, error) {
	lb, err := s.leaderboard(ctx)
	if err != nil {
		return types.Entry{}, err
	}
	return lb.Rank(playerID)
}

// PlayerSummary renders a shareable text block for one player.
func (s *Service) PlayerSummary(ctx context.Context, id string) (string, error) {
	p, err := s.store.GetPlayer(ctx, id)
	if err != nil {
		return "", err
	}
	return summary.Player(p, s.scorer.Weights()), nil
}

// RosterSummary renders a shareable text summary of every player.
func (s *Service) RosterSummary(ctx context.Context) (string, error) {
	players, err := s.store.ListPlayers(ctx)
	if err != nil {
		return "", err
	}
	return summary.Roster(players, s.scorer.Weights()), nil
}
