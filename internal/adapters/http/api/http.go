// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/okian/pitchside/internal/domain/types"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	PlayerDependencies
	MatchDependencies
	SeasonDependencies
	LeaderboardDependencies
	TeamDependencies
	SettingsDependencies
}

// Entry mirrors the read shape returned by leaderboard queries.
type Entry = types.Entry

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	playersHandler     *PlayersHandler
	matchesHandler     *MatchesHandler
	seasonsHandler     *SeasonsHandler
	leaderboardHandler *LeaderboardHandler
	teamsHandler       *TeamsHandler
	settingsHandler    *SettingsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLeaderboardLimit int) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		playersHandler:     NewPlayersHandler(deps),
		matchesHandler:     NewMatchesHandler(deps),
		seasonsHandler:     NewSeasonsHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps, maxLeaderboardLimit),
		teamsHandler:       NewTeamsHandler(deps),
		settingsHandler:    NewSettingsHandler(deps),
	}
}

// Register attaches all HTTP routes to r.
func (s *Server) Register(_ context.Context, r *mux.Router) {
	get, post, put, del := http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete

	r.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz")).Methods(get)
	r.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats")).Methods(get)

	r.HandleFunc("/players", MetricsMiddleware(s.playersHandler.HandleList, "players")).Methods(get)
	r.HandleFunc("/players", MetricsMiddleware(s.playersHandler.HandleCreate, "players")).Methods(post)
	r.HandleFunc("/players/{id}", MetricsMiddleware(s.playersHandler.HandleGet, "player")).Methods(get)
	r.HandleFunc("/players/{id}", MetricsMiddleware(s.playersHandler.HandleUpdate, "player")).Methods(put)
	r.HandleFunc("/players/{id}", MetricsMiddleware(s.playersHandler.HandleDelete, "player")).Methods(del)
	r.HandleFunc("/players/{id}/summary", MetricsMiddleware(s.playersHandler.HandleSummary, "player_summary")).Methods(get)
	r.HandleFunc("/summary", MetricsMiddleware(s.playersHandler.HandleRosterSummary, "summary")).Methods(get)

	r.HandleFunc("/matches", MetricsMiddleware(s.matchesHandler.HandleList, "matches")).Methods(get)
	r.HandleFunc("/matches", MetricsMiddleware(s.matchesHandler.HandleCreate, "matches")).Methods(post)
	r.HandleFunc("/matches/{id}", MetricsMiddleware(s.matchesHandler.HandleGet, "match")).Methods(get)
	r.HandleFunc("/matches/{id}", MetricsMiddleware(s.matchesHandler.HandleUpdate, "match")).Methods(put)
	r.HandleFunc("/matches/{id}", MetricsMiddleware(s.matchesHandler.HandleDelete, "match")).Methods(del)

	r.HandleFunc("/seasons", MetricsMiddleware(s.seasonsHandler.HandleList, "seasons")).Methods(get)
	r.HandleFunc("/seasons", MetricsMiddleware(s.seasonsHandler.HandleCreate, "seasons")).Methods(post)

	r.HandleFunc("/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard")).Methods(get)
	r.HandleFunc("/rank/{id}", MetricsMiddleware(s.leaderboardHandler.HandleGetRank, "rank")).Methods(get)

	r.HandleFunc("/teams", MetricsMiddleware(s.teamsHandler.HandleGenerate, "teams")).Methods(post)

	r.HandleFunc("/settings/weights", MetricsMiddleware(s.settingsHandler.HandleGet, "settings")).Methods(get)
	r.HandleFunc("/settings/weights", MetricsMiddleware(s.settingsHandler.HandlePut, "settings")).Methods(put)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError maps a domain error to its HTTP status and code.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	status, code := classify(err)
	writeError(w, status, code, Wrap(op, err))
}

// decodeJSON reads one JSON object from the request body into v.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return nil
}

func pathID(r *http.Request) string {
	return mux.Vars(r)["id"]
}
