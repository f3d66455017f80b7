// Package api exposes the parsing pipeline and the property store over
// HTTP.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"listing-parser/parser"
	"listing-parser/services"
	"listing-parser/storage"
	"listing-parser/utils"
)

// Server wires the parser, the record store and the services behind a mux
// router. Store may be nil (parse-only deployments); property endpoints
// then answer 503.
type Server struct {
	parser   *parser.Parser
	store    storage.PropertyStore
	ingest   *services.IngestService
	insights *services.InsightService
	logger   *utils.Logger
}

// NewServer builds a Server. ingest is only used when store is non-nil.
func NewServer(p *parser.Parser, store storage.PropertyStore, logger *utils.Logger) *Server {
	s := &Server{
		parser:   p,
		store:    store,
		insights: services.NewInsightService(logger),
		logger:   logger,
	}
	if store != nil {
		s.ingest = services.NewIngestService(store, logger)
	}
	return s
}

// Router returns the configured HTTP router.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.logRequests)

	r.HandleFunc("/api/parse-url", s.handleParseURL).Methods(http.MethodPost)

	r.HandleFunc("/api/properties", s.handleCreateProperty).Methods(http.MethodPost)
	r.HandleFunc("/api/properties", s.handleListProperties).Methods(http.MethodGet)
	r.HandleFunc("/api/properties/{id}", s.handleGetProperty).Methods(http.MethodGet)
	r.HandleFunc("/api/properties/{id}", s.handleUpdateProperty).Methods(http.MethodPut)
	r.HandleFunc("/api/properties/{id}", s.handleDeleteProperty).Methods(http.MethodDelete)

	r.HandleFunc("/api/insights", s.handleInsights).Methods(http.MethodGet)

	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("[api] %s %s (%v)", r.Method, r.URL.Path, time.Since(start))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
