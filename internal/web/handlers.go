package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"csvprofiler/internal/analysis"
	"csvprofiler/internal/logging"
)

// handleIngestCSV profiles a raw CSV blob submitted as the request body
// (text/plain or text/csv) and returns the analysis result.
func (s *Server) handleIngestCSV(w http.ResponseWriter, r *http.Request) {
	// One byte of slack so the engine's own size guard produces the
	// deterministic error message for payloads right at the limit.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Analysis.MaxPayloadBytes+1)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, r, fmt.Errorf("%w: request body exceeds %d bytes",
				analysis.ErrPayloadTooLarge, s.cfg.Analysis.MaxPayloadBytes))
			return
		}
		respondError(w, r, fmt.Errorf("%w: unreadable request body", analysis.ErrInvalidInput))
		return
	}

	result, err := s.analyzer.Profile(r.Context(), string(body))
	if err != nil {
		respondError(w, r, err)
		return
	}

	logging.FromContext(r.Context()).Info("csv analyzed",
		"id", result.ID,
		"rows", result.NumberOfRows,
		"columns", result.NumberOfColumns,
		"already_exists", result.AlreadyExists,
	)
	respondJSON(w, http.StatusOK, result)
}

// handleGetAnalysis returns a stored analysis by id.
func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	result, err := s.analyzer.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// handleDownloadJSON serves a stored analysis as a pretty-printed JSON
// attachment.
func (s *Server) handleDownloadJSON(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	result, err := s.analyzer.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	pretty, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="analysis.json"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pretty)
}

// handleDeleteAnalysis removes a stored analysis by id.
func (s *Server) handleDeleteAnalysis(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := s.analyzer.DeleteByID(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// parseID extracts and validates the {id} path parameter. On failure it
// writes the error response and returns ok=false.
func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, fmt.Errorf("%w: malformed analysis id", analysis.ErrInvalidInput))
		return uuid.Nil, false
	}
	return id, true
}
