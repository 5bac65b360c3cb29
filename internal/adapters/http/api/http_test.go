package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/okian/pitchside/internal/adapters/http/api"
	service "github.com/okian/pitchside/internal/app"
	"github.com/okian/pitchside/internal/domain/model"
	"github.com/okian/pitchside/internal/domain/scoring"
	"github.com/okian/pitchside/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

// failingDeps embeds a working service and breaks the leaderboard.
type failingDeps struct {
	*service.Service
}

func (failingDeps) TopN(context.Context, int) ([]types.Entry, error) {
	return nil, errors.New("disk on fire")
}

func newRouter(deps api.Dependencies) *mux.Router {
	r := mux.NewRouter()
	api.NewServer(deps, &mockStatsProvider{stats: map[string]interface{}{"started": true}}, 50).
		Register(context.Background(), r)
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorCode(w *httptest.ResponseRecorder) string {
	var body struct {
		Code string `json:"code"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return body.Code
}

func newService() *service.Service {
	svc := service.New()
	So(svc.Start(context.Background()), ShouldBeNil)
	return svc
}

func TestServer_Register(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		svc := newService()
		defer svc.Stop()
		r := newRouter(svc)

		Convey("Then health serves metrics", func() {
			w := do(r, http.MethodGet, "/healthz", "")
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("Then stats are served as JSON", func() {
			w := do(r, http.MethodGet, "/stats", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldStartWith, "application/json")
			So(w.Body.String(), ShouldContainSubstring, `"started":true`)
		})

		Convey("Then unknown routes are 404", func() {
			So(do(r, http.MethodGet, "/unknown", "").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("Then wrong methods are rejected", func() {
			So(do(r, http.MethodDelete, "/teams", "").Code, ShouldEqual, http.StatusMethodNotAllowed)
		})
	})
}

func TestPlayersAPI(t *testing.T) {
	Convey("Given an empty roster", t, func() {
		svc := newService()
		defer svc.Stop()
		r := newRouter(svc)

		Convey("When a player is created", func() {
			w := do(r, http.MethodPost, "/players", `{"id":"ana","name":"Ana","matches":10,"wins":7,"losses":1,"goals":5,"assists":3}`)

			Convey("Then it is returned with 201", func() {
				So(w.Code, ShouldEqual, http.StatusCreated)
				var p model.Player
				So(json.Unmarshal(w.Body.Bytes(), &p), ShouldBeNil)
				So(p.ID, ShouldEqual, "ana")
			})

			Convey("Then it can be fetched and listed", func() {
				So(do(r, http.MethodGet, "/players/ana", "").Code, ShouldEqual, http.StatusOK)
				list := do(r, http.MethodGet, "/players", "")
				var players []model.Player
				So(json.Unmarshal(list.Body.Bytes(), &players), ShouldBeNil)
				So(len(players), ShouldEqual, 1)
			})

			Convey("Then creating it again conflicts", func() {
				again := do(r, http.MethodPost, "/players", `{"id":"ana","name":"Ana"}`)
				So(again.Code, ShouldEqual, http.StatusConflict)
				So(errorCode(again), ShouldEqual, "conflict")
			})

			Convey("Then the summary is plain text", func() {
				s := do(r, http.MethodGet, "/players/ana/summary", "")
				So(s.Code, ShouldEqual, http.StatusOK)
				So(s.Header().Get("Content-Type"), ShouldStartWith, "text/plain")
				So(s.Body.String(), ShouldStartWith, "- Ana (35.08):")
			})

			Convey("Then the roster summary includes the player", func() {
				s := do(r, http.MethodGet, "/summary", "")
				So(s.Code, ShouldEqual, http.StatusOK)
				So(s.Body.String(), ShouldContainSubstring, "- Ana (35.08):")
			})

			Convey("Then it can be renamed through PUT", func() {
				u := do(r, http.MethodPut, "/players/ana", `{"name":"Ana B","matches":10,"wins":7,"losses":1,"goals":5,"assists":3}`)
				So(u.Code, ShouldEqual, http.StatusOK)
				So(u.Body.String(), ShouldContainSubstring, `"id":"ana"`)
				So(u.Body.String(), ShouldContainSubstring, `"name":"Ana B"`)
			})

			Convey("Then it can be deleted", func() {
				So(do(r, http.MethodDelete, "/players/ana", "").Code, ShouldEqual, http.StatusNoContent)
				So(do(r, http.MethodGet, "/players/ana", "").Code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When the record is inconsistent", func() {
			w := do(r, http.MethodPost, "/players", `{"name":"Bo","matches":1,"wins":1,"losses":1}`)

			Convey("Then it is rejected as invalid", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(errorCode(w), ShouldEqual, "invalid_record")
			})
		})

		Convey("When the body is not JSON", func() {
			w := do(r, http.MethodPost, "/players", `{not json`)

			Convey("Then it is a bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(errorCode(w), ShouldEqual, "bad_request")
			})
		})

		Convey("When the body has unknown fields", func() {
			w := do(r, http.MethodPost, "/players", `{"name":"Cy","rating":99}`)

			Convey("Then it is a bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}

func TestMatchesAPI(t *testing.T) {
	Convey("Given two players", t, func() {
		svc := newService()
		defer svc.Stop()
		r := newRouter(svc)
		So(do(r, http.MethodPost, "/players", `{"id":"a","name":"A"}`).Code, ShouldEqual, http.StatusCreated)
		So(do(r, http.MethodPost, "/players", `{"id":"b","name":"B"}`).Code, ShouldEqual, http.StatusCreated)

		Convey("When a match is posted", func() {
			w := do(r, http.MethodPost, "/matches",
				`{"id":"m1","date":"2024-05-01T18:00:00Z","team_a":{"player_ids":["a"],"score":2},"team_b":{"player_ids":["b"],"score":1},"goals":[{"player_id":"a","minute":3},{"player_id":"a","minute":40},{"player_id":"b","minute":41}]}`)

			Convey("Then it is recorded and applied", func() {
				So(w.Code, ShouldEqual, http.StatusCreated)
				var p model.Player
				_ = json.Unmarshal(do(r, http.MethodGet, "/players/a", "").Body.Bytes(), &p)
				So(p.Wins, ShouldEqual, 1)
				So(p.Goals, ShouldEqual, 2)
			})

			Convey("Then it is listed and fetched", func() {
				var matches []model.Match
				_ = json.Unmarshal(do(r, http.MethodGet, "/matches", "").Body.Bytes(), &matches)
				So(len(matches), ShouldEqual, 1)
				So(do(r, http.MethodGet, "/matches/m1", "").Code, ShouldEqual, http.StatusOK)
			})

			Convey("Then editing it swaps the winner", func() {
				u := do(r, http.MethodPut, "/matches/m1",
					`{"team_a":{"player_ids":["a"],"score":0},"team_b":{"player_ids":["b"],"score":1},"goals":[{"player_id":"b","minute":9}]}`)
				So(u.Code, ShouldEqual, http.StatusOK)
				var p model.Player
				_ = json.Unmarshal(do(r, http.MethodGet, "/players/b", "").Body.Bytes(), &p)
				So(p.Wins, ShouldEqual, 1)
				So(p.Losses, ShouldEqual, 0)
			})

			Convey("Then a participant cannot be deleted", func() {
				So(do(r, http.MethodDelete, "/players/a", "").Code, ShouldEqual, http.StatusConflict)
			})

			Convey("Then deleting it reverts the stats", func() {
				So(do(r, http.MethodDelete, "/matches/m1", "").Code, ShouldEqual, http.StatusNoContent)
				var p model.Player
				_ = json.Unmarshal(do(r, http.MethodGet, "/players/a", "").Body.Bytes(), &p)
				So(p.Matches, ShouldEqual, 0)
			})
		})

		Convey("When a match has a scorer who did not play", func() {
			w := do(r, http.MethodPost, "/matches",
				`{"team_a":{"player_ids":["a"],"score":1},"team_b":{"player_ids":["b"],"score":0},"goals":[{"player_id":"z","minute":1}]}`)

			Convey("Then it is rejected", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(errorCode(w), ShouldEqual, "invalid_match")
			})
		})

		Convey("When a season is created and used", func() {
			s := do(r, http.MethodPost, "/seasons", `{"id":"s24","name":"2024","start_date":"2024-01-01T00:00:00Z"}`)
			So(s.Code, ShouldEqual, http.StatusCreated)
			m := do(r, http.MethodPost, "/matches",
				`{"season_id":"s24","team_a":{"player_ids":["a"],"score":0},"team_b":{"player_ids":["b"],"score":0}}`)
			So(m.Code, ShouldEqual, http.StatusCreated)

			Convey("Then matches filter by season", func() {
				var matches []model.Match
				_ = json.Unmarshal(do(r, http.MethodGet, "/matches?season=s24", "").Body.Bytes(), &matches)
				So(len(matches), ShouldEqual, 1)
				_ = json.Unmarshal(do(r, http.MethodGet, "/matches?season=other", "").Body.Bytes(), &matches)
				So(len(matches), ShouldEqual, 0)
			})

			Convey("Then seasons are listed", func() {
				So(do(r, http.MethodGet, "/seasons", "").Body.String(), ShouldContainSubstring, `"id":"s24"`)
			})
		})
	})
}

func TestLeaderboardAPI(t *testing.T) {
	Convey("Given a roster with records", t, func() {
		svc := newService()
		defer svc.Stop()
		r := newRouter(svc)
		do(r, http.MethodPost, "/players", `{"id":"a","name":"A","matches":10,"wins":8,"goals":4}`)
		do(r, http.MethodPost, "/players", `{"id":"b","name":"B","matches":10,"wins":2}`)

		Convey("When the leaderboard is requested", func() {
			w := do(r, http.MethodGet, "/leaderboard?limit=10", "")

			Convey("Then entries are ranked by score", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var entries []api.Entry
				So(json.Unmarshal(w.Body.Bytes(), &entries), ShouldBeNil)
				So(len(entries), ShouldEqual, 2)
				So(entries[0].PlayerID, ShouldEqual, "a")
				So(entries[1].Rank, ShouldEqual, 2)
			})
		})

		Convey("When the limit is missing, invalid or too large", func() {
			So(do(r, http.MethodGet, "/leaderboard", "").Code, ShouldEqual, http.StatusBadRequest)
			So(do(r, http.MethodGet, "/leaderboard?limit=0", "").Code, ShouldEqual, http.StatusBadRequest)
			big := do(r, http.MethodGet, "/leaderboard?limit=51", "")
			So(big.Code, ShouldEqual, http.StatusBadRequest)
			So(errorCode(big), ShouldEqual, "limit_exceeded")
		})

		Convey("When a rank is requested", func() {
			So(do(r, http.MethodGet, "/rank/b", "").Body.String(), ShouldContainSubstring, `"rank":2`)
			So(do(r, http.MethodGet, "/rank/zed", "").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When the backend fails", func() {
			fr := newRouter(failingDeps{Service: svc})
			w := do(fr, http.MethodGet, "/leaderboard?limit=5", "")

			Convey("Then it is an internal error", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				So(errorCode(w), ShouldEqual, "internal_error")
			})
		})
	})
}

func TestTeamsAPI(t *testing.T) {
	Convey("Given six players", t, func() {
		svc := newService()
		defer svc.Stop()
		r := newRouter(svc)
		for _, body := range []string{
			`{"id":"p0","name":"P0","matches":10,"wins":10,"goals":10}`,
			`{"id":"p1","name":"P1","matches":10,"wins":8,"goals":6}`,
			`{"id":"p2","name":"P2","matches":10,"wins":6,"goals":4}`,
			`{"id":"p3","name":"P3","matches":10,"wins":4,"goals":2}`,
			`{"id":"p4","name":"P4","matches":10,"wins":2,"goals":1}`,
			`{"id":"p5","name":"P5","matches":10,"wins":1}`,
		} {
			So(do(r, http.MethodPost, "/players", body).Code, ShouldEqual, http.StatusCreated)
		}

		Convey("When teams are generated with the default strategy", func() {
			w := do(r, http.MethodPost, "/teams", `{"player_ids":["p0","p1","p2","p3","p4","p5"]}`)

			Convey("Then two teams of three come back with totals", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var sheet types.TeamSheet
				So(json.Unmarshal(w.Body.Bytes(), &sheet), ShouldBeNil)
				So(sheet.Strategy, ShouldEqual, "exact")
				So(len(sheet.TeamA), ShouldEqual, 3)
				So(len(sheet.TeamB), ShouldEqual, 3)
				So(sheet.Summary, ShouldContainSubstring, "Team B (Total: ")
			})
		})

		Convey("When greedy is requested", func() {
			w := do(r, http.MethodPost, "/teams", `{"player_ids":["p0","p1","p2","p3"],"strategy":"greedy"}`)

			Convey("Then greedy is used", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"strategy":"greedy"`)
			})
		})

		Convey("When the request is malformed", func() {
			cases := []struct {
				body string
				code string
			}{
				{`{}`, "bad_request"},
				{`{"player_ids":["p0"]}`, "insufficient_players"},
				{`{"player_ids":["p0","p0"]}`, "duplicate_player"},
				{`{"player_ids":["p0","p1"],"strategy":"coin"}`, "unknown_strategy"},
			}
			for _, tc := range cases {
				w := do(r, http.MethodPost, "/teams", tc.body)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(errorCode(w), ShouldEqual, tc.code)
			}
		})

		Convey("When an unknown player is named", func() {
			w := do(r, http.MethodPost, "/teams", `{"player_ids":["p0","ghost"]}`)
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})

	Convey("Given a pool above the exact limit", t, func() {
		svc := service.New(service.WithExactLimit(4))
		So(svc.Start(context.Background()), ShouldBeNil)
		defer svc.Stop()
		r := newRouter(svc)
		ids := []string{}
		for _, id := range []string{"a", "b", "c", "d", "e"} {
			do(r, http.MethodPost, "/players", `{"id":"`+id+`","name":"`+id+`"}`)
			ids = append(ids, `"`+id+`"`)
		}

		Convey("When exact is forced", func() {
			w := do(r, http.MethodPost, "/teams", `{"player_ids":[`+strings.Join(ids, ",")+`],"strategy":"exact"}`)

			Convey("Then it is unprocessable", func() {
				So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
				So(errorCode(w), ShouldEqual, "pool_too_large")
			})
		})
	})
}

func TestSettingsAPI(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := newService()
		defer svc.Stop()
		r := newRouter(svc)

		Convey("Then the default weights are served", func() {
			var w scoring.Weights
			So(json.Unmarshal(do(r, http.MethodGet, "/settings/weights", "").Body.Bytes(), &w), ShouldBeNil)
			So(w, ShouldResemble, scoring.DefaultWeights())
		})

		Convey("When weights are updated", func() {
			w := do(r, http.MethodPut, "/settings/weights", `{"goal_factor":20,"assist_factor":1}`)

			Convey("Then later scores use them", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(svc.Weights(), ShouldResemble, scoring.Weights{GoalFactor: 20, AssistFactor: 1})
			})
		})

		Convey("When a factor is missing or negative", func() {
			So(do(r, http.MethodPut, "/settings/weights", `{"goal_factor":20}`).Code, ShouldEqual, http.StatusBadRequest)
			neg := do(r, http.MethodPut, "/settings/weights", `{"goal_factor":-1,"assist_factor":1}`)
			So(neg.Code, ShouldEqual, http.StatusBadRequest)
			So(errorCode(neg), ShouldEqual, "invalid_weights")
		})
	})
}
