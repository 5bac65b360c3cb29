// Package teams splits a pool of players into two teams of near-equal rating.
//
// Two strategies are provided. Greedy walks the pool once in descending score
// order and is approximate. Exact enumerates every size-valid subset and is
// optimal, but its cost doubles with each added player, so it refuses pools
// larger than its cap. Auto picks between them by pool size.
package teams

import (
	"fmt"
	"math"

	"github.com/okian/pitchside/internal/domain/model"
)

// Strategy names.
const (
	NameGreedy = "greedy"
	NameExact  = "exact"
	NameAuto   = "auto"
)

// MinPlayers is the smallest pool that can be split.
const MinPlayers = 2

// Rater scores a single player. scoring.Weights satisfies it.
type Rater interface {
	Score(p model.Player) float64
}

// Partition is a two-team split of a pool. Together the teams hold every
// input player exactly once.
type Partition struct {
	TeamA []model.Player `json:"team_a"`
	TeamB []model.Player `json:"team_b"`
}

// Strategy splits a pool into a Partition. Implementations never modify the
// input slice.
type Strategy interface {
	Name() string
	Split(players []model.Player, r Rater) (Partition, error)
}

// Imbalance returns the absolute difference between the teams' summed ratings.
func Imbalance(p Partition, r Rater) float64 {
	return math.Abs(sum(p.TeamA, r) - sum(p.TeamB, r))
}

func sum(players []model.Player, r Rater) float64 {
	var total float64
	for _, p := range players {
		total += r.Score(p)
	}
	return total
}

// validatePool enforces the preconditions shared by every strategy.
func validatePool(players []model.Player) error {
	if len(players) < MinPlayers {
		return fmt.Errorf("%w: got %d, need at least %d", ErrInsufficientPlayers, len(players), MinPlayers)
	}
	seen := make(map[string]struct{}, len(players))
	for _, p := range players {
		if err := p.Validate(); err != nil {
			return err
		}
		if _, ok := seen[p.ID]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicatePlayer, p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return nil
}

// Parse resolves a strategy by name. An empty name selects Auto.
func Parse(name string, exactLimit int) (Strategy, error) {
	switch name {
	case "", NameAuto:
		return NewAuto(exactLimit), nil
	case NameGreedy:
		return Greedy{}, nil
	case NameExact:
		return NewExact(exactLimit), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}
