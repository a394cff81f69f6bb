package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"attackmode/internal/models"
)

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if dec.More() {
		return errors.New("invalid JSON: multiple JSON values")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeUnauthorized(w http.ResponseWriter) {
	writeError(w, http.StatusUnauthorized, "Unauthorized")
}

// writeStoreError maps storage failures onto the API's error taxonomy:
// not-found (including wrong owner) is a 404, uniqueness conflicts are a
// 400, and anything else is logged and hidden behind a generic 500.
func (s *Server) writeStoreError(w http.ResponseWriter, err error, resource string) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		writeError(w, http.StatusNotFound, resource+" not found")
	case errors.Is(err, models.ErrConflict):
		writeError(w, http.StatusBadRequest, resource+" already exists")
	default:
		s.log.Error("storage failure", zap.String("resource", resource), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
