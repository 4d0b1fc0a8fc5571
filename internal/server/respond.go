package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"adflow/internal/services"
)

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", slog.String("error", err.Error()))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps service error markers onto HTTP status codes:
// validation 400, not found 404, conflict 409, everything else 500.
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch services.Kind(err) {
	case services.ErrValidation:
		status = http.StatusBadRequest
	case services.ErrNotFound:
		status = http.StatusNotFound
	case services.ErrConflict:
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", slog.String("error", err.Error()))
	}
	s.writeError(w, status, err.Error())
}

func decodeBody(r *http.Request, target any) error {
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(target); err != nil {
		return services.Wrap(services.ErrValidation, "request", "decode", "invalid JSON body", err)
	}
	return nil
}
