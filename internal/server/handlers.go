package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/agbru/hassecalc/internal/logging"
)

// ExtractorInfo describes one registered route.
type ExtractorInfo struct {
	Name   string `json:"name"`
	Family string `json:"family"`
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// getOnly rejects every method but GET.
func getOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeJSONResponse(w, http.StatusMethodNotAllowed, ErrorResponse{
				Error:   http.StatusText(http.StatusMethodNotAllowed),
				Message: "Method not allowed",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// handleHealth reports that the process is alive and since when.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSONResponse(w, http.StatusOK, map[string]any{
		"status": "healthy",
		"uptime": time.Since(s.started).Round(time.Millisecond).String(),
	})
}

// handleExtractors lists the registered routes with their families.
func (s *Server) handleExtractors(w http.ResponseWriter, _ *http.Request) {
	names := s.factory.List()
	infos := make([]ExtractorInfo, 0, len(names))
	for _, name := range names {
		x, err := s.factory.Get(name)
		if err != nil {
			s.logger.Warn("extractor lookup failed", logging.String("name", name), logging.Err(err))
			continue
		}
		infos = append(infos, ExtractorInfo{Name: name, Family: string(x.Family())})
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"extractors": infos})
}

// writeJSONResponse writes data as JSON with the given status code.
func writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}
