// Package roster reads offline roster files used by the teamgen CLI.
package roster

import (
	"fmt"
	"strings"

	"github.com/elliotchance/pie/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/okian/pitchside/internal/domain/model"
)

// Roster is the parsed content of a roster file:
//
//	strategy: auto
//	players:
//	  - id: ana
//	    name: Ana
//	    matches: 10
//	    wins: 7
//	    losses: 1
//	    goals: 5
//	    assists: 3
type Roster struct {
	Strategy string         `json:"strategy"`
	Players  []model.Player `json:"players"`
}

// Load reads a YAML roster. A player without an id takes its name as id.
func Load(path string) (Roster, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return Roster{}, fmt.Errorf("%w: %s: %w", ErrLoadRoster, path, err)
	}

	var r Roster
	if err := k.UnmarshalWithConf("", &r, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return Roster{}, fmt.Errorf("%w: %s: %w", ErrLoadRoster, path, err)
	}
	for i := range r.Players {
		if r.Players[i].ID == "" {
			r.Players[i].ID = r.Players[i].Name
		}
		if err := r.Players[i].Validate(); err != nil {
			return Roster{}, fmt.Errorf("%w: %s: %w", ErrLoadRoster, path, err)
		}
	}
	return r, nil
}

// Select returns the players named by ids, in the order given. Ids match a
// player's id or, case-insensitively, its name. An empty ids selects everyone.
func (r Roster) Select(ids []string) ([]model.Player, error) {
	if len(ids) == 0 {
		return append([]model.Player(nil), r.Players...), nil
	}
	out := make([]model.Player, 0, len(ids))
	for _, id := range ids {
		i := pie.FindFirstUsing(r.Players, func(p model.Player) bool {
			return p.ID == id || strings.EqualFold(p.Name, id)
		})
		if i < 0 {
			return nil, fmt.Errorf("%w: %s", ErrUnknownPlayer, id)
		}
		out = append(out, r.Players[i])
	}
	return out, nil
}

// ParseIDs splits a comma-separated id list, dropping blanks.
func ParseIDs(s string) []string {
	parts := pie.Map(strings.Split(s, ","), strings.TrimSpace)
	return pie.Filter(parts, func(p string) bool { return p != "" })
}
