// Package results folds match results into per-player aggregates.
package results

import (
	"fmt"

	"github.com/okian/pitchside/internal/domain/model"
)

// Validate checks that a match can be applied to player aggregates.
func Validate(m model.Match) error {
	if len(m.TeamA.PlayerIDs) == 0 || len(m.TeamB.PlayerIDs) == 0 {
		return fmt.Errorf("%w: both sides need at least one player", model.ErrInvalidMatch)
	}
	if m.TeamA.Score < 0 || m.TeamB.Score < 0 {
		return fmt.Errorf("%w: negative score", model.ErrInvalidMatch)
	}
	seen := make(map[string]struct{}, len(m.TeamA.PlayerIDs)+len(m.TeamB.PlayerIDs))
	for _, id := range m.Participants() {
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%w: player %s listed twice", model.ErrInvalidMatch, id)
		}
		seen[id] = struct{}{}
	}
	for _, g := range m.Goals {
		if _, ok := seen[g.PlayerID]; !ok {
			return fmt.Errorf("%w: scorer %s did not play", model.ErrInvalidMatch, g.PlayerID)
		}
		if g.AssistByID == "" {
			continue
		}
		if _, ok := seen[g.AssistByID]; !ok {
			return fmt.Errorf("%w: assister %s did not play", model.ErrInvalidMatch, g.AssistByID)
		}
		if g.AssistByID == g.PlayerID {
			return fmt.Errorf("%w: %s cannot assist their own goal", model.ErrInvalidMatch, g.PlayerID)
		}
	}
	return nil
}

// Delta is the change a single match makes to one player's aggregate.
type Delta struct {
	Matches, Wins, Losses, Goals, Assists int
}

// Deltas returns the per-player changes of m, keyed by player id.
func Deltas(m model.Match) map[string]Delta {
	out := make(map[string]Delta, len(m.TeamA.PlayerIDs)+len(m.TeamB.PlayerIDs))
	for _, id := range m.Participants() {
		side, _ := m.SideOf(id)
		d := Delta{Matches: 1}
		switch outcome(m, side) {
		case 1:
			d.Wins = 1
		case -1:
			d.Losses = 1
		}
		out[id] = d
	}
	for _, g := range m.Goals {
		d := out[g.PlayerID]
		d.Goals++
		out[g.PlayerID] = d
		if g.AssistByID != "" {
			a := out[g.AssistByID]
			a.Assists++
			out[g.AssistByID] = a
		}
	}
	return out
}

// outcome is 1 for a win of side, -1 for a loss and 0 for a draw.
func outcome(m model.Match, side model.Side) int {
	own, other := m.TeamA.Score, m.TeamB.Score
	if side == model.SideB {
		own, other = other, own
	}
	switch {
	case own > other:
		return 1
	case own < other:
		return -1
	}
	return 0
}

// Apply adds the match to the aggregates of its participants. Players unknown
// to the map are skipped; the returned slice lists updated ids in lineup order.
func Apply(players map[string]model.Player, m model.Match) []string {
	return fold(players, m, 1)
}

// Revert removes a previously applied match from the aggregates.
func Revert(players map[string]model.Player, m model.Match) []string {
	return fold(players, m, -1)
}

func fold(players map[string]model.Player, m model.Match, sign int) []string {
	deltas := Deltas(m)
	updated := make([]string, 0, len(deltas))
	for _, id := range m.Participants() {
		p, ok := players[id]
		if !ok {
			continue
		}
		d := deltas[id]
		p.Matches += sign * d.Matches
		p.Wins += sign * d.Wins
		p.Losses += sign * d.Losses
		p.Goals += sign * d.Goals
		p.Assists += sign * d.Assists
		players[id] = p
		updated = append(updated, id)
	}
	return updated
}
