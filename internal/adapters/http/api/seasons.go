package api

import (
	"context"
	"net/http"

	"github.com/okian/pitchside/internal/domain/model"
)

// SeasonDependencies defines the season operations used by the API.
type SeasonDependencies interface {
	CreateSeason(ctx context.Context, s model.Season) (model.Season, error)
	ListSeasons(ctx context.Context) ([]model.Season, error)
}

// SeasonsHandler handles season requests.
type SeasonsHandler struct {
	deps SeasonDependencies
}

// NewSeasonsHandler creates a new seasons handler.
func NewSeasonsHandler(deps SeasonDependencies) *SeasonsHandler {
	return &SeasonsHandler{deps: deps}
}

// HandleList handles GET /seasons.
func (h *SeasonsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_seasons"
	seasons, err := h.deps.ListSeasons(r.Context())
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	if seasons == nil {
		seasons = []model.Season{}
	}
	writeJSON(w, http.StatusOK, seasons)
}

// HandleCreate handles POST /seasons.
func (h *SeasonsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_season"
	var s model.Season
	if err := decodeJSON(r, &s); err != nil {
		writeServiceError(w, op, err)
		return
	}
	created, err := h.deps.CreateSeason(r.Context(), s)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}
