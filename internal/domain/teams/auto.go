package teams

import "github.com/okian/pitchside/internal/domain/model"

// Auto uses Exact for pools up to its limit and Greedy above it.
type Auto struct {
	exact  Exact
	greedy Greedy
}

// NewAuto returns an Auto strategy switching to Greedy above exactLimit players.
func NewAuto(exactLimit int) Auto {
	return Auto{exact: NewExact(exactLimit)}
}

// Name implements Strategy.
func (Auto) Name() string { return NameAuto }

// ExactLimit returns the largest pool solved exactly.
func (a Auto) ExactLimit() int { return a.exact.MaxPlayers() }

// Choose returns the concrete strategy used for a pool of n players.
func (a Auto) Choose(n int) Strategy {
	if n <= a.exact.MaxPlayers() {
		return a.exact
	}
	return a.greedy
}

// Split implements Strategy.
func (a Auto) Split(players []model.Player, r Rater) (Partition, error) {
	return a.Choose(len(players)).Split(players, r)
}

// Resolve unwraps Auto to the strategy it would run for n players. Other
// strategies are returned unchanged.
func Resolve(s Strategy, n int) Strategy {
	if a, ok := s.(Auto); ok {
		return a.Choose(n)
	}
	return s
}
