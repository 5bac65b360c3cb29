package api

import (
	"context"
	"net/http"

	"github.com/okian/pitchside/internal/domain/model"
)

// MatchDependencies defines the match operations used by the API.
type MatchDependencies interface {
	RecordMatch(ctx context.Context, m model.Match) (model.Match, error)
	ReplaceMatch(ctx context.Context, m model.Match) (model.Match, error)
	DeleteMatch(ctx context.Context, id string) error
	GetMatch(ctx context.Context, id string) (model.Match, error)
	ListMatches(ctx context.Context, seasonID string) ([]model.Match, error)
}

// MatchesHandler handles match requests.
type MatchesHandler struct {
	deps MatchDependencies
}

// NewMatchesHandler creates a new matches handler.
func NewMatchesHandler(deps MatchDependencies) *MatchesHandler {
	return &MatchesHandler{deps: deps}
}

// HandleList handles GET /matches?season=ID.
func (h *MatchesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_matches"
	matches, err := h.deps.ListMatches(r.Context(), r.URL.Query().Get("season"))
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	if matches == nil {
		matches = []model.Match{}
	}
	writeJSON(w, http.StatusOK, matches)
}

// HandleCreate handles POST /matches.
func (h *MatchesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "api.record_match"
	var m model.Match
	if err := decodeJSON(r, &m); err != nil {
		writeServiceError(w, op, err)
		return
	}
	recorded, err := h.deps.RecordMatch(r.Context(), m)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, recorded)
}

// HandleGet handles GET /matches/{id}.
func (h *MatchesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_match"
	m, err := h.deps.GetMatch(r.Context(), pathID(r))
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// HandleUpdate handles PUT /matches/{id}.
func (h *MatchesHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	const op = "api.replace_match"
	var m model.Match
	if err := decodeJSON(r, &m); err != nil {
		writeServiceError(w, op, err)
		return
	}
	m.ID = pathID(r)
	replaced, err := h.deps.ReplaceMatch(r.Context(), m)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, replaced)
}

// HandleDelete handles DELETE /matches/{id}.
func (h *MatchesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	const op = "api.delete_match"
	if err := h.deps.DeleteMatch(r.Context(), pathID(r)); err != nil {
		writeServiceError(w, op, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
