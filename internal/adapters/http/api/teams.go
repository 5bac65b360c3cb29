package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/okian/pitchside/internal/domain/types"
)

// TeamDependencies defines the team generation operation used by the API.
type TeamDependencies interface {
	GenerateTeams(ctx context.Context, playerIDs []string, strategy string) (types.TeamSheet, error)
}

// teamsRequest is the body of POST /teams.
type teamsRequest struct {
	PlayerIDs []string `json:"player_ids"`
	Strategy  string   `json:"strategy"`
}

// TeamsHandler handles team generation requests.
type TeamsHandler struct {
	deps TeamDependencies
}

// NewTeamsHandler creates a new teams handler.
func NewTeamsHandler(deps TeamDependencies) *TeamsHandler {
	return &TeamsHandler{deps: deps}
}

// HandleGenerate handles POST /teams.
func (h *TeamsHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	const op = "api.generate_teams"
	var req teamsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, op, err)
		return
	}
	if len(req.PlayerIDs) == 0 {
		writeServiceError(w, op, fmt.Errorf("%w: missing player_ids", ErrBadRequest))
		return
	}
	sheet, err := h.deps.GenerateTeams(r.Context(), req.PlayerIDs, req.Strategy)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, sheet)
}
