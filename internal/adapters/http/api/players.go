package api

import (
	"context"
	"net/http"

	"github.com/okian/pitchside/internal/domain/model"
)

// PlayerDependencies defines the player operations used by the API.
type PlayerDependencies interface {
	CreatePlayer(ctx context.Context, p model.Player) (model.Player, error)
	GetPlayer(ctx context.Context, id string) (model.Player, error)
	ListPlayers(ctx context.Context) ([]model.Player, error)
	UpdatePlayer(ctx context.Context, p model.Player) (model.Player, error)
	DeletePlayer(ctx context.Context, id string) error
	PlayerSummary(ctx context.Context, id string) (string, error)
	RosterSummary(ctx context.Context) (string, error)
}

// PlayersHandler handles player requests.
type PlayersHandler struct {
	deps PlayerDependencies
}

// NewPlayersHandler creates a new players handler.
func NewPlayersHandler(deps PlayerDependencies) *PlayersHandler {
	return &PlayersHandler{deps: deps}
}

// HandleList handles GET /players.
func (h *PlayersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_players"
	players, err := h.deps.ListPlayers(r.Context())
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	if players == nil {
		players = []model.Player{}
	}
	writeJSON(w, http.StatusOK, players)
}

// HandleCreate handles POST /players.
func (h *PlayersHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_player"
	var p model.Player
	if err := decodeJSON(r, &p); err != nil {
		writeServiceError(w, op, err)
		return
	}
	created, err := h.deps.CreatePlayer(r.Context(), p)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// HandleGet handles GET /players/{id}.
func (h *PlayersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_player"
	p, err := h.deps.GetPlayer(r.Context(), pathID(r))
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HandleUpdate handles PUT /players/{id}. The path id wins over the body.
func (h *PlayersHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	const op = "api.update_player"
	var p model.Player
	if err := decodeJSON(r, &p); err != nil {
		writeServiceError(w, op, err)
		return
	}
	p.ID = pathID(r)
	updated, err := h.deps.UpdatePlayer(r.Context(), p)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// HandleDelete handles DELETE /players/{id}.
func (h *PlayersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	const op = "api.delete_player"
	if err := h.deps.DeletePlayer(r.Context(), pathID(r)); err != nil {
		writeServiceError(w, op, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleSummary handles GET /players/{id}/summary as plain text.
func (h *PlayersHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	const op = "api.player_summary"
	text, err := h.deps.PlayerSummary(r.Context(), pathID(r))
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeText(w, http.StatusOK, text)
}

// HandleRosterSummary handles GET /summary as plain text.
func (h *PlayersHandler) HandleRosterSummary(w http.ResponseWriter, r *http.Request) {
	const op = "api.roster_summary"
	text, err := h.deps.RosterSummary(r.Context())
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeText(w, http.StatusOK, text)
}
