package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"roomdesk/internal/database"
	"roomdesk/internal/models"
)

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

// writeDomainError maps domain errors onto HTTP statuses. Conflicts carry the
// first conflicting booking so clients can show it.
func writeDomainError(w http.ResponseWriter, err error) {
	var conflict *database.ConflictError
	if errors.As(err, &conflict) {
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":    err.Error(),
			"conflict": conflict.Conflicting,
		})
		return
	}

	switch {
	case errors.Is(err, database.ErrNotFound),
		errors.Is(err, database.ErrRoomNotFound),
		errors.Is(err, database.ErrUserNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, database.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, database.ErrConcurrentModification),
		errors.Is(err, database.ErrDuplicateRoomName),
		errors.Is(err, database.ErrRoomHasUpcoming):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, database.ErrInvalidTitle),
		errors.Is(err, models.ErrInvalidInterval),
		errors.Is(err, database.ErrPastBooking),
		errors.Is(err, database.ErrDateTooFar):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
