package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/freeeve/hexsettlers/internal/service"
	"github.com/freeeve/hexsettlers/pkg/catan"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Error encoding response")
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decodeJSON reads and decodes JSON from a request body.
func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// actionErrorBody is the 422 payload for an action the engine refused.
type actionErrorBody struct {
	Error  string           `json:"error"`
	Action catan.ActionKind `json:"action"`
	Player int              `json:"player"`
	Reason string           `json:"reason"`
}

// writeServiceError maps service and engine errors to HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	var ae *catan.ActionError
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrNotSeated):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrGameFinished), errors.Is(err, service.ErrGameBusy):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidGame):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &ae):
		writeJSON(w, http.StatusUnprocessableEntity, actionErrorBody{
			Error:  ae.Error(),
			Action: ae.Action,
			Player: ae.Player,
			Reason: ae.Err.Error(),
		})
	default:
		log.Error().Err(err).Msg("Request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
