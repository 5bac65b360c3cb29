// Package model contains domain models passed between layers.
package model

import "fmt"

// Player is an aggregate snapshot of one player's record. The core treats it
// as an immutable value.
type Player struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Matches int    `json:"matches"`
	Wins    int    `json:"wins"`
	Losses  int    `json:"losses"`
	Goals   int    `json:"goals"`
	Assists int    `json:"assists"`
}

// Draws returns matches that ended without a winner.
func (p Player) Draws() int {
	return p.Matches - p.Wins - p.Losses
}

// Validate reports whether the aggregate counts are consistent.
func (p Player) Validate() error {
	switch {
	case p.ID == "":
		return fmt.Errorf("%w: missing id", ErrInvalidRecord)
	case p.Matches < 0, p.Wins < 0, p.Losses < 0, p.Goals < 0, p.Assists < 0:
		return fmt.Errorf("%w: player %s has negative counts", ErrInvalidRecord, p.ID)
	case p.Wins+p.Losses > p.Matches:
		return fmt.Errorf("%w: player %s has %d wins and %d losses in %d matches",
			ErrInvalidRecord, p.ID, p.Wins, p.Losses, p.Matches)
	}
	return nil
}
