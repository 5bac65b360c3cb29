// Package scoring rates players from their aggregate record.
//
// A rating blends win rate, goals per match and assists per match. Each rate
// is damped by the number of matches played, so a short record cannot outrank
// a long one with the same rates:
//
//	damp(x, n) = x * (1 - e^(-n/10))
//	score      = damp(winRate)*0.7 + damp(goals/n)*GoalFactor + damp(assists/n)*AssistFactor
package scoring

import (
	"fmt"
	"math"
	"sync"

	"github.com/elliotchance/pie/v2"
	"github.com/okian/pitchside/internal/domain/model"
)

// Scoring constants.
const (
	DefaultGoalFactor   = 10.0
	DefaultAssistFactor = 5.0
	WinRateFactor       = 0.7
	DampingScale        = 10.0
)

// Weights are the tunable multipliers of the per-match terms.
type Weights struct {
	GoalFactor   float64 `json:"goal_factor" koanf:"goal_factor"`
	AssistFactor float64 `json:"assist_factor" koanf:"assist_factor"`
}

// DefaultWeights returns the factory weights.
func DefaultWeights() Weights {
	return Weights{GoalFactor: DefaultGoalFactor, AssistFactor: DefaultAssistFactor}
}

// Validate rejects weights that would make ratings meaningless.
func (w Weights) Validate() error {
	for name, v := range map[string]float64{"goal_factor": w.GoalFactor, "assist_factor": w.AssistFactor} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("%w: %s=%v", ErrInvalidWeights, name, v)
		}
	}
	return nil
}

// Damp discounts a per-match rate by sample size. It tends to x as matches
// grows and to 0 as matches approaches 0.
func Damp(x float64, matches int, scale float64) float64 {
	return x * (1 - math.Exp(-float64(matches)/scale))
}

// WinRate returns the win percentage in [0, 100]; 0 when no match was played.
func WinRate(p model.Player) float64 {
	if p.Matches <= 0 {
		return 0
	}
	return float64(p.Wins) / float64(p.Matches) * 100
}

func perMatch(v, matches int) float64 {
	if matches <= 0 {
		return 0
	}
	return float64(v) / float64(matches)
}

// Score rates p under w. It is pure and total.
func (w Weights) Score(p model.Player) float64 {
	winRate := Damp(WinRate(p), p.Matches, DampingScale)
	goals := Damp(perMatch(p.Goals, p.Matches), p.Matches, DampingScale)
	assists := Damp(perMatch(p.Assists, p.Matches), p.Matches, DampingScale)
	return winRate*WinRateFactor + goals*w.GoalFactor + assists*w.AssistFactor
}

// Total sums the scores of players under w.
func (w Weights) Total(players []model.Player) float64 {
	return pie.Sum(pie.Map(players, w.Score))
}

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithWeights sets the initial weights. Invalid weights are ignored.
func WithWeights(w Weights) Option {
	return func(s *Scorer) {
		if w.Validate() == nil {
			s.weights = w
		}
	}
}

// WithObserver registers a callback invoked after every successful SetWeights.
func WithObserver(fn func(Weights)) Option {
	return func(s *Scorer) {
		s.observer = fn
	}
}

// Scorer holds the process-wide weights behind a controlled setter.
//
// Weight updates are last-write-wins. A caller scoring a batch that must be
// consistent takes one snapshot with Weights and scores with it; calling
// Scorer.Score per player may observe a concurrent update midway.
type Scorer struct {
	mu       sync.RWMutex
	weights  Weights
	observer func(Weights)
}

// NewScorer creates a Scorer with default weights unless overridden.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{weights: DefaultWeights()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Weights returns a snapshot of the current weights.
func (s *Scorer) Weights() Weights {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.weights
}

// SetWeights replaces the current weights for all subsequent scoring calls.
func (s *Scorer) SetWeights(w Weights) error {
	if err := w.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.weights = w
	observer := s.observer
	s.mu.Unlock()

	if observer != nil {
		observer(w)
	}
	return nil
}

// Score rates p under the current weights.
func (s *Scorer) Score(p model.Player) float64 {
	return s.Weights().Score(p)
}

// TotalScore sums the scores of players under a single weights snapshot.
func (s *Scorer) TotalScore(players []model.Player) float64 {
	return s.Weights().Total(players)
}
