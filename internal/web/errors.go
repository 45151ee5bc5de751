package web

// errors.go maps engine error kinds to stable client-facing statuses. Every
// error kind keeps a distinct machine-readable code; messages are the
// deterministic engine messages, never stack traces.

import (
	"encoding/json"
	"errors"
	"net/http"

	"csvprofiler/internal/analysis"
	"csvprofiler/internal/logging"
)

// ErrorResponse is the JSON structure for API error responses.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// statusForError resolves an engine error to an HTTP status and a stable code.
func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, analysis.ErrInvalidInput):
		return http.StatusBadRequest, "invalid_input"
	case errors.Is(err, analysis.ErrInvalidStructure):
		return http.StatusBadRequest, "invalid_csv_structure"
	case errors.Is(err, analysis.ErrForbiddenContent):
		return http.StatusBadRequest, "forbidden_content"
	case errors.Is(err, analysis.ErrPayloadTooLarge):
		return http.StatusRequestEntityTooLarge, "payload_too_large"
	case errors.Is(err, analysis.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, analysis.ErrStore):
		return http.StatusServiceUnavailable, "store_unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// respondError logs the error with request context and writes the JSON error
// body with the mapped status.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusForError(err)

	logger := logging.FromContext(r.Context())
	logger.Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"code", code,
		"error", err.Error(),
	)

	respondJSON(w, status, ErrorResponse{Error: err.Error(), Code: code})
}

// respondJSON writes v as a JSON response with the given status.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
