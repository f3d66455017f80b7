package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"listing-parser/models"
	"listing-parser/parser"
)

type parseURLRequest struct {
	URL string `json:"url"`
}

// handleParseURL runs the extraction pipeline for one URL. Fetch failures
// still answer 200 with a partial record — only a missing URL (client
// error) or a pipeline panic (server error) gets a non-2xx status.
func (s *Server) handleParseURL(w http.ResponseWriter, r *http.Request) {
	var req parseURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
		writeError(w, http.StatusBadRequest, "URL required")
		return
	}

	// Share sheets pass whole messages; isolate the link first.
	url := parser.ExtractURL(req.URL)
	if url == "" {
		writeError(w, http.StatusBadRequest, "URL required")
		return
	}

	record, err := s.parser.Parse(r.Context(), url)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, record)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (s *Server) handleCreateProperty(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "storage not configured")
		return
	}

	var p models.Property
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid property payload")
		return
	}
	if p.FamilyID == "" || p.Address == "" {
		writeError(w, http.StatusBadRequest, "family_id and address required")
		return
	}
	if p.Status == "" {
		p.Status = "new"
	}

	if err := s.store.Insert(r.Context(), &p); err != nil {
		s.logger.Error("[api] Insert failed: %v", err)
		writeError(w, http.StatusInternalServerError, "could not save property")
		return
	}
	writeJSON(w, http.StatusCreated, &p)
}

func (s *Server) handleListProperties(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "storage not configured")
		return
	}

	familyID := r.URL.Query().Get("family_id")
	if familyID == "" {
		writeError(w, http.StatusBadRequest, "family_id required")
		return
	}
	status := r.URL.Query().Get("status")

	properties, err := s.store.ListByFamily(r.Context(), familyID, status)
	if err != nil {
		s.logger.Error("[api] List failed: %v", err)
		writeError(w, http.StatusInternalServerError, "could not list properties")
		return
	}
	if properties == nil {
		properties = []*models.Property{}
	}
	writeJSON(w, http.StatusOK, properties)
}

func (s *Server) handleGetProperty(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "storage not configured")
		return
	}

	p, err := s.store.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "property not found")
			return
		}
		s.logger.Error("[api] Get failed: %v", err)
		writeError(w, http.StatusInternalServerError, "could not load property")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleUpdateProperty(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "storage not configured")
		return
	}

	var p models.Property
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid property payload")
		return
	}
	p.ID = mux.Vars(r)["id"]

	if err := s.store.Update(r.Context(), &p); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "property not found")
			return
		}
		s.logger.Error("[api] Update failed: %v", err)
		writeError(w, http.StatusInternalServerError, "could not update property")
		return
	}
	writeJSON(w, http.StatusOK, &p)
}

func (s *Server) handleDeleteProperty(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "storage not configured")
		return
	}

	if err := s.store.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "property not found")
			return
		}
		s.logger.Error("[api] Delete failed: %v", err)
		writeError(w, http.StatusInternalServerError, "could not delete property")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "storage not configured")
		return
	}

	familyID := r.URL.Query().Get("family_id")
	if familyID == "" {
		writeError(w, http.StatusBadRequest, "family_id required")
		return
	}

	properties, err := s.store.ListByFamily(r.Context(), familyID, "")
	if err != nil {
		s.logger.Error("[api] Insights list failed: %v", err)
		writeError(w, http.StatusInternalServerError, "could not compute insights")
		return
	}
	writeJSON(w, http.StatusOK, s.insights.Generate(properties))
}
