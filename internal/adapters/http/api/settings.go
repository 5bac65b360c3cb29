package api

import (
	"context"
	"net/http"

	"github.com/okian/pitchside/internal/domain/scoring"
)

// SettingsDependencies defines the weight settings used by the API.
type SettingsDependencies interface {
	Weights() scoring.Weights
	SetWeights(ctx context.Context, w scoring.Weights) error
}

// SettingsHandler handles rating weight requests.
type SettingsHandler struct {
	deps SettingsDependencies
}

// NewSettingsHandler creates a new settings handler.
func NewSettingsHandler(deps SettingsDependencies) *SettingsHandler {
	return &SettingsHandler{deps: deps}
}

// HandleGet handles GET /settings/weights.
func (h *SettingsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Weights())
}

// HandlePut handles PUT /settings/weights. Both factors are required.
func (h *SettingsHandler) HandlePut(w http.ResponseWriter, r *http.Request) {
	const op = "api.set_weights"
	var req struct {
		GoalFactor   *float64 `json:"goal_factor"`
		AssistFactor *float64 `json:"assist_factor"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, op, err)
		return
	}
	if req.GoalFactor == nil || req.AssistFactor == nil {
		writeError(w, http.StatusBadRequest, "bad_request", Wrap(op, ErrBadRequest))
		return
	}
	weights := scoring.Weights{GoalFactor: *req.GoalFactor, AssistFactor: *req.AssistFactor}
	if err := h.deps.SetWeights(r.Context(), weights); err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, weights)
}
