package model

import "time"

// Side identifies one of the two teams of a match.
type Side string

const (
	SideA Side = "A"
	SideB Side = "B"
)

// Lineup is the roster and final score of one side.
type Lineup struct {
	PlayerIDs []string `json:"player_ids"`
	Score     int      `json:"score"`
}

// Goal is a single goal event. AssistByID is empty for unassisted goals.
type Goal struct {
	PlayerID   string `json:"player_id"`
	AssistByID string `json:"assist_by_id,omitempty"`
	Minute     int    `json:"minute"`
}

// Match is a played game between two lineups.
type Match struct {
	ID       string    `json:"id"`
	Date     time.Time `json:"date"`
	SeasonID string    `json:"season_id,omitempty"`
	TeamA    Lineup    `json:"team_a"`
	TeamB    Lineup    `json:"team_b"`
	Goals    []Goal    `json:"goals"`
}

// SideOf returns the side playerID played on.
func (m Match) SideOf(playerID string) (Side, bool) {
	for _, id := range m.TeamA.PlayerIDs {
		if id == playerID {
			return SideA, true
		}
	}
	for _, id := range m.TeamB.PlayerIDs {
		if id == playerID {
			return SideB, true
		}
	}
	return "", false
}

// Participants returns every player id of both lineups, team A first.
func (m Match) Participants() []string {
	out := make([]string, 0, len(m.TeamA.PlayerIDs)+len(m.TeamB.PlayerIDs))
	out = append(out, m.TeamA.PlayerIDs...)
	return append(out, m.TeamB.PlayerIDs...)
}

// Season groups matches over a date range. A nil EndDate means the season is open.
type Season struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date,omitempty"`
}

// Contains reports whether t falls within the season.
func (s Season) Contains(t time.Time) bool {
	if t.Before(s.StartDate) {
		return false
	}
	return s.EndDate == nil || !t.After(*s.EndDate)
}
