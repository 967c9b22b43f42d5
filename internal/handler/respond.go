package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/contacthub/backend/internal/repository"
	"github.com/contacthub/backend/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError translates a lifecycle-service error into an HTTP
// response: validation → 400, not found → 404, anything else → 500.
func writeServiceError(w http.ResponseWriter, err error) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, ve.Error())
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "Contact not found")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
