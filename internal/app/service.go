// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/okian/pitchside/internal/adapters/repository"
	"github.com/okian/pitchside/internal/domain/scoring"
	"github.com/okian/pitchside/internal/domain/teams"
	"github.com/okian/pitchside/pkg/logger"
	"github.com/okian/pitchside/pkg/metrics"
)

// Service implements the API dependencies for the roster tracker.
type Service struct {
	mu sync.RWMutex

	// Core components
	store  repository.Store
	scorer *scoring.Scorer

	// Configuration
	weights    scoring.Weights
	exactLimit int

	// State
	started bool

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore sets the backing store. The service closes it on Stop.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithWeights sets the rating weights used when none are persisted.
func WithWeights(w scoring.Weights) Option {
	return func(s *Service) {
		if w.Validate() == nil {
			s.weights = w
		}
	}
}

// WithExactLimit sets the largest pool the auto strategy splits exactly.
func WithExactLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.exactLimit = n
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		weights:    scoring.DefaultWeights(),
		exactLimit: teams.DefaultExactLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Nop()
	}
	if s.store == nil {
		s.store = repository.NewMemoryStore(repository.WithLogger(s.logger.Named("repository")))
	}
	s.scorer = scoring.NewScorer(
		scoring.WithWeights(s.weights),
		scoring.WithObserver(func(w scoring.Weights) {
			metrics.UpdateScoreWeights(w.GoalFactor, w.AssistFactor)
		}),
	)
	return s
}

// Start loads persisted settings and publishes the initial gauges.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	s.logger.Info(ctx, "starting pitchside service...")

	w, err := s.loadWeights(ctx)
	if err != nil {
		return err
	}
	if err := s.scorer.SetWeights(w); err != nil {
		return err
	}

	count, err := s.store.CountPlayers(ctx)
	if err != nil {
		return err
	}
	metrics.UpdatePlayersTotal(count)

	s.started = true
	s.logger.Info(ctx, "pitchside service started",
		logger.Float64("goalFactor", w.GoalFactor),
		logger.Float64("assistFactor", w.AssistFactor),
		logger.Int("exactLimit", s.exactLimit),
		logger.Int("players", count),
	)
	return nil
}

// loadWeights prefers persisted weights and falls back to the configured ones.
// A missing or unparsable setting is not an error.
func (s *Service) loadWeights(ctx context.Context) (scoring.Weights, error) {
	w := s.weights
	for key, dst := range map[string]*float64{
		repository.SettingGoalFactor:   &w.GoalFactor,
		repository.SettingAssistFactor: &w.AssistFactor,
	} {
		raw, err := s.store.GetSetting(ctx, key)
		if errors.Is(err, repository.ErrNotFound) {
			continue
		}
		if err != nil {
			return scoring.Weights{}, err
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			s.logger.Warn(ctx, "ignoring unparsable setting",
				logger.String("key", key),
				logger.String("value", raw))
			continue
		}
		*dst = v
	}
	if err := w.Validate(); err != nil {
		s.logger.Warn(ctx, "persisted weights invalid, using configured weights", logger.Error(err))
		return s.weights, nil
	}
	return w, nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.logger.Info(context.Background(), "stopping pitchside service...")
	if err := s.store.Close(); err != nil {
		s.logger.Warn(context.Background(), "failed to close store", logger.Error(err))
	}
	s.started = false
	s.logger.Info(context.Background(), "pitchside service stopped")
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w := s.scorer.Weights()
	stats := map[string]interface{}{
		"started":      s.started,
		"exactLimit":   s.exactLimit,
		"goalFactor":   w.GoalFactor,
		"assistFactor": w.AssistFactor,
	}

	if s.started {
		ctx := context.Background()
		if n, err := s.store.CountPlayers(ctx); err == nil {
			stats["totalPlayers"] = n
			metrics.UpdatePlayersTotal(n)
		}
		if matches, err := s.store.ListMatches(ctx, ""); err == nil {
			stats["totalMatches"] = len(matches)
		}
	}
	return stats
}
