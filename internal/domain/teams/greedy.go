package teams

import (
	"github.com/elliotchance/pie/v2"
	"github.com/okian/pitchside/internal/domain/model"
)

// rated pairs a player with its score computed once per split.
type rated struct {
	player model.Player
	score  float64
}

// Greedy assigns players in descending score order to the smaller team, or
// on a size tie to the team with the lower running total (team A on equal
// totals). Sizes never differ by more than one; the score gap is not minimal.
type Greedy struct{}

// Name implements Strategy.
func (Greedy) Name() string { return NameGreedy }

// Split implements Strategy.
func (Greedy) Split(players []model.Player, r Rater) (Partition, error) {
	if err := validatePool(players); err != nil {
		return Partition{}, err
	}

	scored := pie.Map(players, func(p model.Player) rated {
		return rated{player: p, score: r.Score(p)}
	})
	// stable: equal scores keep input order
	sorted := pie.SortStableUsing(scored, func(a, b rated) bool {
		return a.score > b.score
	})

	out := Partition{
		TeamA: make([]model.Player, 0, len(players)/2+1),
		TeamB: make([]model.Player, 0, len(players)/2+1),
	}
	var scoreA, scoreB float64
	for _, rp := range sorted {
		if len(out.TeamA) < len(out.TeamB) || (len(out.TeamA) == len(out.TeamB) && scoreA <= scoreB) {
			out.TeamA = append(out.TeamA, rp.player)
			scoreA += rp.score
			continue
		}
		out.TeamB = append(out.TeamB, rp.player)
		scoreB += rp.score
	}
	return out, nil
}
