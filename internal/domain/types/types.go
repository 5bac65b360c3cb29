// Package types contains read shapes shared by the service and the HTTP API.
package types

import "github.com/okian/pitchside/internal/domain/model"

// Entry is one leaderboard row.
type Entry struct {
	Rank     int     `json:"rank"`
	PlayerID string  `json:"player_id"`
	Name     string  `json:"name"`
	Score    float64 `json:"score"`
	Matches  int     `json:"matches"`
}

// TeamSheet is a generated two-team split with its ratings.
type TeamSheet struct {
	Strategy  string         `json:"strategy"`
	TeamA     []model.Player `json:"team_a"`
	TeamB     []model.Player `json:"team_b"`
	TotalA    float64        `json:"total_a"`
	TotalB    float64        `json:"total_b"`
	Imbalance float64        `json:"imbalance"`
	Summary   string         `json:"summary"`
}
