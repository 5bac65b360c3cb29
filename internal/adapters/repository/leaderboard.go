package repository

import (
	"fmt"
	"math"
	"sort"

	"github.com/okian/pitchside/internal/domain/model"
	"github.com/okian/pitchside/internal/domain/types"
)

// Rater scores a single player.
type Rater interface {
	Score(p model.Player) float64
}

// scoreScale is the fixed-point precision used to decide ties.
const scoreScale = 1e9

// Leaderboard is an immutable ranking of a player snapshot.
//
// Ordering: score DESC, then player ID ASC. Scores equal at nine decimal
// places share a rank and the next distinct score takes the next rank.
type Leaderboard struct {
	entries []types.Entry
	byID    map[string]int
}

// NewLeaderboard ranks players under r.
func NewLeaderboard(players []model.Player, r Rater) *Leaderboard {
	entries := make([]types.Entry, 0, len(players))
	for _, p := range players {
		entries = append(entries, types.Entry{
			PlayerID: p.ID,
			Name:     p.Name,
			Score:    r.Score(p),
			Matches:  p.Matches,
		})
	}
	sortEntries(entries)
	assignRanksWithTies(entries)

	byID := make(map[string]int, len(entries))
	for i, e := range entries {
		byID[e.PlayerID] = i
	}
	return &Leaderboard{entries: entries, byID: byID}
}

// TopN returns the first n entries.
func (l *Leaderboard) TopN(n int) ([]types.Entry, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, n)
	}
	n = min(n, len(l.entries))
	out := make([]types.Entry, n)
	copy(out, l.entries[:n])
	return out, nil
}

// Rank returns the entry of one player.
func (l *Leaderboard) Rank(playerID string) (types.Entry, error) {
	i, ok := l.byID[playerID]
	if !ok {
		return types.Entry{}, fmt.Errorf("%w: player %s", ErrNotFound, playerID)
	}
	return l.entries[i], nil
}

// Count returns the number of ranked players.
func (l *Leaderboard) Count() int {
	return len(l.entries)
}

func toFixedPoint(x float64) int64 {
	if math.IsNaN(x) {
		return 0
	}
	scaled := math.Round(x * scoreScale)
	if scaled >= math.MaxInt64 {
		return math.MaxInt64
	}
	if scaled <= math.MinInt64 {
		return math.MinInt64
	}
	return int64(scaled)
}

// sortEntries sorts by score descending and player ID ascending.
func sortEntries(entries []types.Entry) {
	sort.Slice(entries, func(i, j int) bool {
		si, sj := toFixedPoint(entries[i].Score), toFixedPoint(entries[j].Score)
		if si != sj {
			return si > sj
		}
		return entries[i].PlayerID < entries[j].PlayerID
	})
}

// assignRanksWithTies gives equal scores the same rank. Ranks are
// consecutive: 1, 1, 2.
func assignRanksWithTies(entries []types.Entry) {
	currentRank := 0
	for i := range entries {
		if i == 0 || toFixedPoint(entries[i].Score) != toFixedPoint(entries[i-1].Score) {
			currentRank++
		}
		entries[i].Rank = currentRank
	}
}
