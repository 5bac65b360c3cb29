package scoring_test

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/okian/pitchside/internal/domain/model"
	"github.com/okian/pitchside/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func TestWeightsScore(t *testing.T) {
	Convey("Given the default weights", t, func() {
		w := scoring.DefaultWeights()
		So(w.GoalFactor, ShouldEqual, 10)
		So(w.AssistFactor, ShouldEqual, 5)

		Convey("When a player has never played", func() {
			p := model.Player{ID: "rookie"}

			Convey("Then the score is exactly zero", func() {
				So(w.Score(p), ShouldEqual, 0)
				So(scoring.WinRate(p), ShouldEqual, 0)
			})
		})

		Convey("When a player has 10 matches, 7 wins, 5 goals and 3 assists", func() {
			p := model.Player{ID: "p", Matches: 10, Wins: 7, Losses: 1, Goals: 5, Assists: 3}

			Convey("Then the score follows the damped formula", func() {
				damping := 1 - math.Exp(-1)
				expected := 70*damping*0.7 + 0.5*damping*10 + 0.3*damping*5
				So(w.Score(p), ShouldAlmostEqual, expected, 1e-9)
				So(w.Score(p), ShouldAlmostEqual, 35.0827, 1e-4)
				So(scoring.WinRate(p), ShouldEqual, 70)
			})
		})

		Convey("When the same rates are held over more matches", func() {
			short := model.Player{ID: "s", Matches: 5, Wins: 5, Goals: 5, Assists: 5}
			long := model.Player{ID: "l", Matches: 50, Wins: 50, Goals: 50, Assists: 50}

			Convey("Then the longer record scores strictly higher", func() {
				So(w.Score(short), ShouldBeLessThan, w.Score(long))
			})

			Convey("And a single perfect match scores far below a long perfect record", func() {
				one := model.Player{ID: "o", Matches: 1, Wins: 1}
				fifty := model.Player{ID: "f", Matches: 50, Wins: 50}
				So(w.Score(one)*5, ShouldBeLessThan, w.Score(fifty))
			})
		})

		Convey("When scoring the same player twice", func() {
			p := model.Player{ID: "d", Matches: 13, Wins: 4, Losses: 6, Goals: 9, Assists: 2}

			Convey("Then results are identical", func() {
				So(w.Score(p), ShouldEqual, w.Score(p))
			})
		})
	})
}

func TestWeightSensitivity(t *testing.T) {
	Convey("Given two weight sets differing only in goal factor", t, func() {
		low := scoring.Weights{GoalFactor: 10, AssistFactor: 5}
		high := scoring.Weights{GoalFactor: 30, AssistFactor: 5}

		Convey("Then a scorer gains", func() {
			p := model.Player{ID: "scorer", Matches: 8, Wins: 3, Losses: 3, Goals: 6, Assists: 1}
			So(high.Score(p), ShouldBeGreaterThan, low.Score(p))
		})

		Convey("Then a player without goals is unaffected", func() {
			p := model.Player{ID: "keeper", Matches: 8, Wins: 3, Losses: 3, Goals: 0, Assists: 4}
			So(high.Score(p), ShouldEqual, low.Score(p))
		})
	})
}

func TestDamp(t *testing.T) {
	Convey("Given the damping transform", t, func() {
		So(scoring.Damp(100, 0, scoring.DampingScale), ShouldEqual, 0)
		So(scoring.Damp(100, 10, scoring.DampingScale), ShouldAlmostEqual, 100*(1-math.Exp(-1)), 1e-12)
		So(scoring.Damp(100, 1000, scoring.DampingScale), ShouldAlmostEqual, 100, 1e-9)
		So(scoring.Damp(1, 5, 10), ShouldBeLessThan, scoring.Damp(1, 6, 10))
	})
}

func TestWeightsTotal(t *testing.T) {
	Convey("Given a list of players", t, func() {
		w := scoring.DefaultWeights()
		players := []model.Player{
			{ID: "a", Matches: 10, Wins: 7, Losses: 1, Goals: 5, Assists: 3},
			{ID: "b", Matches: 4, Wins: 1, Losses: 2, Goals: 1},
			{ID: "c"},
		}

		Convey("Then the total equals the sum of the individual scores", func() {
			So(w.Total(players), ShouldAlmostEqual, w.Score(players[0])+w.Score(players[1]), 1e-12)
		})

		Convey("Then an empty list totals zero", func() {
			So(w.Total(nil), ShouldEqual, 0)
		})
	})
}

func TestWeightsValidate(t *testing.T) {
	Convey("Given weight candidates", t, func() {
		So(scoring.DefaultWeights().Validate(), ShouldBeNil)
		So(scoring.Weights{}.Validate(), ShouldBeNil)

		for _, w := range []scoring.Weights{
			{GoalFactor: -1, AssistFactor: 5},
			{GoalFactor: 10, AssistFactor: math.NaN()},
			{GoalFactor: math.Inf(1), AssistFactor: 5},
		} {
			So(errors.Is(w.Validate(), scoring.ErrInvalidWeights), ShouldBeTrue)
		}
	})
}

func TestScorer(t *testing.T) {
	Convey("Given a scorer with an observer", t, func() {
		var observed []scoring.Weights
		s := scoring.NewScorer(scoring.WithObserver(func(w scoring.Weights) {
			observed = append(observed, w)
		}))
		p := model.Player{ID: "p", Matches: 10, Wins: 7, Losses: 1, Goals: 5, Assists: 3}

		Convey("Then it starts from the defaults", func() {
			So(s.Weights(), ShouldResemble, scoring.DefaultWeights())
			So(s.Score(p), ShouldEqual, scoring.DefaultWeights().Score(p))
		})

		Convey("When the weights are updated", func() {
			next := scoring.Weights{GoalFactor: 30, AssistFactor: 20}
			So(s.SetWeights(next), ShouldBeNil)

			Convey("Then subsequent calls use them and the observer is told", func() {
				So(s.Weights(), ShouldResemble, next)
				So(s.Score(p), ShouldEqual, next.Score(p))
				So(s.TotalScore([]model.Player{p, p}), ShouldAlmostEqual, 2*next.Score(p), 1e-12)
				So(observed, ShouldResemble, []scoring.Weights{next})
			})
		})

		Convey("When invalid weights are set", func() {
			err := s.SetWeights(scoring.Weights{GoalFactor: -3})

			Convey("Then they are rejected and the previous weights stay", func() {
				So(errors.Is(err, scoring.ErrInvalidWeights), ShouldBeTrue)
				So(s.Weights(), ShouldResemble, scoring.DefaultWeights())
				So(observed, ShouldBeEmpty)
			})
		})
	})

	Convey("Given a scorer built with explicit weights", t, func() {
		s := scoring.NewScorer(scoring.WithWeights(scoring.Weights{GoalFactor: 2, AssistFactor: 1}))
		So(s.Weights(), ShouldResemble, scoring.Weights{GoalFactor: 2, AssistFactor: 1})

		Convey("And invalid initial weights fall back to the defaults", func() {
			d := scoring.NewScorer(scoring.WithWeights(scoring.Weights{GoalFactor: math.NaN()}))
			So(d.Weights(), ShouldResemble, scoring.DefaultWeights())
		})
	})

	Convey("Given concurrent readers and writers", t, func() {
		s := scoring.NewScorer()
		p := model.Player{ID: "p", Matches: 3, Wins: 2, Goals: 1}
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(2)
			go func(i int) {
				defer wg.Done()
				_ = s.SetWeights(scoring.Weights{GoalFactor: float64(i), AssistFactor: 1})
			}(i)
			go func() {
				defer wg.Done()
				_ = s.Score(p)
			}()
		}
		wg.Wait()

		So(s.Weights().AssistFactor, ShouldEqual, 1)
	})
}
