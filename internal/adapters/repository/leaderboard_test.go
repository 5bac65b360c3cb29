package repository

import (
	"errors"
	"testing"

	"github.com/okian/pitchside/internal/domain/model"
)

// goalsRater scores a player by goals only.
type goalsRater struct{}

func (goalsRater) Score(p model.Player) float64 { return float64(p.Goals) }

func TestLeaderboard_OrderAndTies(t *testing.T) {
	players := []model.Player{
		{ID: "c", Goals: 5},
		{ID: "a", Goals: 7},
		{ID: "b", Goals: 5},
		{ID: "d", Goals: 1},
	}
	lb := NewLeaderboard(players, goalsRater{})

	if lb.Count() != 4 {
		t.Fatalf("expected 4 entries, got %d", lb.Count())
	}

	top, err := lb.TopN(10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantIDs := []string{"a", "b", "c", "d"}
	wantRanks := []int{1, 2, 2, 3}
	for i, e := range top {
		if e.PlayerID != wantIDs[i] {
			t.Errorf("position %d: expected %s, got %s", i, wantIDs[i], e.PlayerID)
		}
		if e.Rank != wantRanks[i] {
			t.Errorf("position %d: expected rank %d, got %d", i, wantRanks[i], e.Rank)
		}
	}
}

func TestLeaderboard_TopNLimits(t *testing.T) {
	lb := NewLeaderboard([]model.Player{{ID: "a", Goals: 1}, {ID: "b", Goals: 2}}, goalsRater{})

	top, err := lb.TopN(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(top) != 1 || top[0].PlayerID != "b" {
		t.Errorf("expected only b, got %+v", top)
	}

	if _, err := lb.TopN(0); !errors.Is(err, ErrInvalidLimit) {
		t.Errorf("expected ErrInvalidLimit, got %v", err)
	}

	top[0].Rank = 99
	again, _ := lb.TopN(1)
	if again[0].Rank != 1 {
		t.Error("TopN must return a copy")
	}
}

func TestLeaderboard_Rank(t *testing.T) {
	lb := NewLeaderboard([]model.Player{{ID: "a", Name: "Ana", Goals: 3, Matches: 4}}, goalsRater{})

	e, err := lb.Rank("a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Rank != 1 || e.Name != "Ana" || e.Score != 3 || e.Matches != 4 {
		t.Errorf("unexpected entry %+v", e)
	}

	if _, err := lb.Rank("zed"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestLeaderboard_NearEqualScoresTie(t *testing.T) {
	r := raterFunc(func(p model.Player) float64 {
		if p.ID == "a" {
			return 0.1 + 0.2
		}
		return 0.3
	})
	lb := NewLeaderboard([]model.Player{{ID: "a"}, {ID: "b"}}, r)
	top, _ := lb.TopN(2)
	if top[0].Rank != 1 || top[1].Rank != 1 {
		t.Errorf("expected a shared rank, got %+v", top)
	}
}

func TestLeaderboard_Empty(t *testing.T) {
	lb := NewLeaderboard(nil, goalsRater{})
	top, err := lb.TopN(5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(top) != 0 {
		t.Errorf("expected no entries, got %d", len(top))
	}
}

type raterFunc func(model.Player) float64

func (f raterFunc) Score(p model.Player) float64 { return f(p) }
