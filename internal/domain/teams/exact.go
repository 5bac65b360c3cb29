package teams

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/okian/pitchside/internal/domain/model"
	"gonum.org/v1/gonum/stat/combin"
)

// Exact partition limits. Enumeration visits 2^n masks, so 24 players is
// already ~16M masks.
const (
	DefaultExactLimit = 20
	MaxExactLimit     = 24
)

// Exact enumerates every subset of the pool as a bitmask in ascending order
// and keeps the size-valid subset with the smallest score imbalance. The
// first mask found wins ties, so the result is deterministic for a given
// input order. Team A is the subset, team B its complement; both keep input
// order.
type Exact struct {
	maxPlayers int
}

// NewExact returns an Exact strategy refusing pools above maxPlayers.
// Out-of-range limits are clamped to [MinPlayers, MaxExactLimit].
func NewExact(maxPlayers int) Exact {
	return Exact{maxPlayers: clampLimit(maxPlayers)}
}

func clampLimit(n int) int {
	switch {
	case n <= 0:
		return DefaultExactLimit
	case n < MinPlayers:
		return MinPlayers
	case n > MaxExactLimit:
		return MaxExactLimit
	}
	return n
}

// Name implements Strategy.
func (Exact) Name() string { return NameExact }

// MaxPlayers returns the largest pool this strategy accepts.
func (e Exact) MaxPlayers() int {
	if e.maxPlayers == 0 {
		return DefaultExactLimit
	}
	return e.maxPlayers
}

// Split implements Strategy.
func (e Exact) Split(players []model.Player, r Rater) (Partition, error) {
	if err := validatePool(players); err != nil {
		return Partition{}, err
	}
	n := len(players)
	if n > e.MaxPlayers() {
		return Partition{}, fmt.Errorf("%w: %d players, limit %d", ErrPoolTooLarge, n, e.MaxPlayers())
	}

	scores := make([]float64, n)
	var total float64
	for i, p := range players {
		scores[i] = r.Score(p)
		total += scores[i]
	}

	best := uint64(0)
	bestDiff := math.Inf(1)
	limit := uint64(1) << uint(n)
	for mask := uint64(0); mask < limit; mask++ {
		if !sizeValid(bits.OnesCount64(mask), n) {
			continue
		}
		var subset float64
		for i := 0; i < n; i++ {
			if mask&(1<<uint(i)) != 0 {
				subset += scores[i]
			}
		}
		if diff := math.Abs(total - 2*subset); diff < bestDiff {
			best, bestDiff = mask, diff
		}
	}

	out := Partition{
		TeamA: make([]model.Player, 0, n/2+1),
		TeamB: make([]model.Player, 0, n/2+1),
	}
	for i, p := range players {
		if best&(1<<uint(i)) != 0 {
			out.TeamA = append(out.TeamA, p)
		} else {
			out.TeamB = append(out.TeamB, p)
		}
	}
	return out, nil
}

// sizeValid reports whether a subset of size s leaves teams differing by at
// most one player.
func sizeValid(s, n int) bool {
	d := 2*s - n
	return d >= -1 && d <= 1
}

// SearchSpace returns how many size-valid subsets Exact evaluates for a pool
// of n players.
func SearchSpace(n int) int {
	if n < MinPlayers {
		return 0
	}
	half := n / 2
	if n%2 == 0 {
		return combin.Binomial(n, half)
	}
	return combin.Binomial(n, half) + combin.Binomial(n, half+1)
}
