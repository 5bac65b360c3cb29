// Package summary renders shareable plain-text summaries of players and teams.
package summary

import (
	"fmt"
	"strings"

	"github.com/okian/pitchside/internal/domain/model"
	"github.com/okian/pitchside/internal/domain/scoring"
	"github.com/okian/pitchside/internal/domain/teams"
)

// Player renders one player's block.
func Player(p model.Player, w scoring.Weights) string {
	var b strings.Builder
	writePlayer(&b, p, w)
	return b.String()
}

// Roster renders a summary of every player in order.
func Roster(players []model.Player, w scoring.Weights) string {
	var b strings.Builder
	b.WriteString("Player summary:\n\n")
	for _, p := range players {
		writePlayer(&b, p, w)
	}
	return b.String()
}

// Teams renders both teams with their total rating.
func Teams(part teams.Partition, w scoring.Weights) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Team A (Total: %.2f):\n", w.Total(part.TeamA))
	for _, p := range part.TeamA {
		writePlayer(&b, p, w)
	}
	fmt.Fprintf(&b, "\nTeam B (Total: %.2f):\n", w.Total(part.TeamB))
	for _, p := range part.TeamB {
		writePlayer(&b, p, w)
	}
	return b.String()
}

func writePlayer(b *strings.Builder, p model.Player, w scoring.Weights) {
	fmt.Fprintf(b, "- %s (%.2f):\n", p.Name, w.Score(p))
	fmt.Fprintf(b, "  Matches: %d W / %d D / %d L\n", p.Wins, p.Draws(), p.Losses)
	fmt.Fprintf(b, "  Win rate: %.0f%%\n", scoring.WinRate(p))
	fmt.Fprintf(b, "  Goals: %d (%.2f per match)\n", p.Goals, average(p.Goals, p.Matches))
	fmt.Fprintf(b, "  Assists: %d (%.2f per match)\n\n", p.Assists, average(p.Assists, p.Matches))
}

func average(v, matches int) float64 {
	if matches <= 0 {
		return 0
	}
	return float64(v) / float64(matches)
}
