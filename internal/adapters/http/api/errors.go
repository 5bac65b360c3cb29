package api

import (
	"errors"
	"net/http"

	"github.com/okian/pitchside/internal/adapters/repository"
	"github.com/okian/pitchside/internal/domain/model"
	"github.com/okian/pitchside/internal/domain/scoring"
	"github.com/okian/pitchside/internal/domain/teams"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
)

// Error records the handler operation that failed.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *Error) Unwrap() error { return e.Err }

// Wrap annotates err with op. A nil err stays nil.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}

var errorClasses = []struct {
	kind   error
	status int
	code   string
}{
	{repository.ErrNotFound, http.StatusNotFound, "not_found"},
	{repository.ErrConflict, http.StatusConflict, "conflict"},
	{teams.ErrPoolTooLarge, http.StatusUnprocessableEntity, "pool_too_large"},
	{teams.ErrInsufficientPlayers, http.StatusBadRequest, "insufficient_players"},
	{teams.ErrDuplicatePlayer, http.StatusBadRequest, "duplicate_player"},
	{teams.ErrUnknownStrategy, http.StatusBadRequest, "unknown_strategy"},
	{model.ErrInvalidRecord, http.StatusBadRequest, "invalid_record"},
	{model.ErrInvalidMatch, http.StatusBadRequest, "invalid_match"},
	{scoring.ErrInvalidWeights, http.StatusBadRequest, "invalid_weights"},
	{repository.ErrInvalidLimit, http.StatusBadRequest, "bad_request"},
	{ErrBadRequest, http.StatusBadRequest, "bad_request"},
}

// classify returns the HTTP status and error code for err.
func classify(err error) (int, string) {
	for _, c := range errorClasses {
		if errors.Is(err, c.kind) {
			return c.status, c.code
		}
	}
	return http.StatusInternalServerError, "internal_error"
}
