package server

import (
	"encoding/json"
	"net/http"
)

// NewHTTPHandler returns an http.Handler with all routes registered.
// When authToken is non-empty, requests (except GET /v1/health) must include
// a valid Authorization: Bearer <token> header.
func (s *EnvServer) NewHTTPHandler(authToken string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/records", s.handleCreateRecord)
	mux.HandleFunc("GET /v1/records", s.handleListRecords)
	mux.HandleFunc("GET /v1/records/{id}", s.handleGetRecord)
	mux.HandleFunc("PATCH /v1/records/{id}", s.handleUpdateRecord)
	mux.HandleFunc("POST /v1/records/{id}/copy", s.handleCopyRecord)
	mux.HandleFunc("DELETE /v1/records/{id}", s.handleDeleteRecord)
	mux.HandleFunc("GET /v1/records/{id}/events", s.handleGetEvents)
	mux.HandleFunc("GET /v1/types", s.handleListTypes)
	mux.HandleFunc("GET /v1/types/{name...}", s.handleGetType)
	mux.HandleFunc("PUT /v1/types/{name...}", s.handleSetType)
	mux.HandleFunc("DELETE /v1/types/{name...}", s.handleDeleteType)
	mux.HandleFunc("GET /v1/env/sections", s.handleListSections)
	mux.HandleFunc("GET /v1/env/sections/{name...}", s.handleGetSection)
	mux.HandleFunc("POST /v1/env/reload", s.handleReloadEnv)
	mux.HandleFunc("GET /v1/health", s.handleHealth)
	return LoggingMiddleware(AuthMiddleware(authToken, mux))
}

// handleHealth handles GET /v1/health.
func (s *EnvServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
