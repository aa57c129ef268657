package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/robalobadob/bigmonte/internal/game"
	"github.com/robalobadob/bigmonte/internal/leaderboard"
	"github.com/robalobadob/bigmonte/internal/session"
	"github.com/robalobadob/bigmonte/internal/store"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorBody{Error: code, Message: msg})
}

// statusForKind maps engine error kinds to HTTP: phase violations are
// conflicts, everything else is bad input.
func statusForKind(k game.Kind) int {
	switch k {
	case game.KindInvalidState,
		game.KindRollLimitExceeded,
		game.KindPrematureHold,
		game.KindAlreadyScored,
		game.KindIncompleteRoll:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

// writeDomainError renders errors from the engine and the stores.
func writeDomainError(w http.ResponseWriter, err error) {
	if k := game.KindOf(err); k != "" {
		writeError(w, statusForKind(k), string(k), err.Error())
		return
	}
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, leaderboard.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, session.ErrInvalidOptions), errors.Is(err, leaderboard.ErrInvalidName):
		writeError(w, http.StatusBadRequest, "invalid", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "server_error", "")
	}
}
