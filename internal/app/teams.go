package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/okian/pitchside/internal/adapters/repository"
	"github.com/okian/pitchside/internal/domain/model"
	"github.com/okian/pitchside/internal/domain/scoring"
	"github.com/okian/pitchside/internal/domain/summary"
	"github.com/okian/pitchside/internal/domain/teams"
	"github.com/okian/pitchside/internal/domain/types"
	"github.com/okian/pitchside/pkg/logger"
	"github.com/okian/pitchside/pkg/metrics"
)

// GenerateTeams splits the named players into two balanced teams. An empty
// strategy selects auto.
func (s *Service) GenerateTeams(ctx context.Context, playerIDs []string, strategy string) (types.TeamSheet, error) {
	strat, err := s.strategy(strategy)
	if err != nil {
		return types.TeamSheet{}, err
	}
	players, err := s.store.GetPlayers(ctx, playerIDs)
	if err != nil {
		metrics.RecordPartitionRejected("unknown_player")
		return types.TeamSheet{}, err
	}
	return s.split(ctx, players, strat)
}

// SplitPool splits players given by value, bypassing the store.
func (s *Service) SplitPool(ctx context.Context, players []model.Player, strategy string) (types.TeamSheet, error) {
	strat, err := s.strategy(strategy)
	if err != nil {
		return types.TeamSheet{}, err
	}
	return s.split(ctx, players, strat)
}

func (s *Service) strategy(name string) (teams.Strategy, error) {
	strat, err := teams.Parse(name, s.exactLimit)
	if err != nil {
		metrics.RecordPartitionRejected("unknown_strategy")
		return nil, err
	}
	return strat, nil
}

func (s *Service) split(ctx context.Context, players []model.Player, strat teams.Strategy) (types.TeamSheet, error) {
	concrete := teams.Resolve(strat, len(players))
	w := s.scorer.Weights()

	if concrete.Name() == teams.NameExact && len(players) <= teams.MaxExactLimit {
		metrics.RecordPartitionCandidates(teams.SearchSpace(len(players)))
	}

	start := time.Now()
	part, err := concrete.Split(players, w)
	if err != nil {
		metrics.RecordPartitionRejected(rejectReason(err))
		s.logger.Warn(ctx, "team generation rejected",
			logger.String("strategy", concrete.Name()),
			logger.Int("players", len(players)),
			logger.Error(err))
		return types.TeamSheet{}, err
	}
	elapsed := time.Since(start)

	sheet := types.TeamSheet{
		Strategy:  concrete.Name(),
		TeamA:     part.TeamA,
		TeamB:     part.TeamB,
		TotalA:    w.Total(part.TeamA),
		TotalB:    w.Total(part.TeamB),
		Imbalance: teams.Imbalance(part, w),
		Summary:   summary.Teams(part, w),
	}

	metrics.RecordScoreComputations(len(players))
	metrics.RecordPartition(sheet.Strategy, float64(elapsed.Microseconds())/1000, sheet.Imbalance)
	s.logger.Debug(ctx, "teams generated",
		logger.String("strategy", sheet.Strategy),
		logger.Int("players", len(players)),
		logger.Float64("imbalance", sheet.Imbalance),
		logger.Duration("elapsed", elapsed))
	return sheet, nil
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, teams.ErrInsufficientPlayers):
		return "insufficient_players"
	case errors.Is(err, teams.ErrPoolTooLarge):
		return "pool_too_large"
	case errors.Is(err, teams.ErrDuplicatePlayer):
		return "duplicate_player"
	case errors.Is(err, model.ErrInvalidRecord):
		return "invalid_record"
	}
	return "other"
}

// Weights returns the current rating weights.
func (s *Service) Weights() scoring.Weights {
	return s.scorer.Weights()
}

// SetWeights persists w and makes it current for all later scoring.
func (s *Service) SetWeights(ctx context.Context, w scoring.Weights) error {
	if err := w.Validate(); err != nil {
		return err
	}
	settings := map[string]string{
		repository.SettingGoalFactor:   strconv.FormatFloat(w.GoalFactor, 'f', -1, 64),
		repository.SettingAssistFactor: strconv.FormatFloat(w.AssistFactor, 'f', -1, 64),
	}
	if err := s.store.SetSettings(ctx, settings); err != nil {
		s.logger.Warn(ctx, "score weights not persisted", logger.Error(err))
		return err
	}
	if err := s.scorer.SetWeights(w); err != nil {
		return err
	}
	s.logger.Info(ctx, "score weights updated",
		logger.Float64("goalFactor", w.GoalFactor),
		logger.Float64("assistFactor", w.AssistFactor))
	return nil
}
