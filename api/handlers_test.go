package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"listing-parser/config"
	"listing-parser/models"
	"listing-parser/parser"
	"listing-parser/utils"
)

// fakeStore is an in-memory PropertyStore for handler tests.
type fakeStore struct {
	byID map[string]*models.Property
}

func newFakeStore() *fakeStore {
	return &fakeStore{byID: make(map[string]*models.Property)}
}

func (f *fakeStore) Insert(ctx context.Context, p *models.Property) error {
	if p.ID == "" {
		p.ID = "test-id"
	}
	f.byID[p.ID] = p
	return nil
}

func (f *fakeStore) Get(ctx context.Context, id string) (*models.Property, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return p, nil
}

func (f *fakeStore) Update(ctx context.Context, p *models.Property) error {
	if _, ok := f.byID[p.ID]; !ok {
		return sql.ErrNoRows
	}
	f.byID[p.ID] = p
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeStore) ListByFamily(ctx context.Context, familyID, status string) ([]*models.Property, error) {
	var out []*models.Property
	for _, p := range f.byID {
		if p.FamilyID != familyID {
			continue
		}
		if status != "" && p.Status != status {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeStore) Close() error { return nil }

func newTestServer(store *fakeStore) *Server {
	logger := utils.NewLogger()
	p := parser.New(config.DefaultHeuristics(), 5*time.Second, logger)
	if store == nil {
		return NewServer(p, nil, logger)
	}
	return NewServer(p, store, logger)
}

func doRequest(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr *bytes.Reader
	if body == "" {
		rdr = bytes.NewReader(nil)
	} else {
		rdr = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, rdr)
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

func TestParseURLMissing(t *testing.T) {
	s := newTestServer(nil)

	cases := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"empty url", `{"url": ""}`},
		{"no link in text", `{"url": "דירה מדהימה למכירה, מחיר מציאה"}`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := doRequest(t, s, http.MethodPost, "/api/parse-url", c.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status: got %d, want 400", w.Code)
			}
			if !strings.Contains(w.Body.String(), "URL required") {
				t.Errorf("body: got %q, want the URL required message", w.Body.String())
			}
		})
	}
}

func TestPropertyEndpointsWithoutStore(t *testing.T) {
	s := newTestServer(nil)

	cases := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/properties"},
		{http.MethodGet, "/api/properties?family_id=fam1"},
		{http.MethodGet, "/api/properties/abc"},
		{http.MethodPut, "/api/properties/abc"},
		{http.MethodDelete, "/api/properties/abc"},
		{http.MethodGet, "/api/insights?family_id=fam1"},
	}
	for _, c := range cases {
		w := doRequest(t, s, c.method, c.path, "{}")
		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("%s %s: got %d, want 503", c.method, c.path, w.Code)
		}
	}
}

func TestCreateProperty(t *testing.T) {
	store := newFakeStore()
	s := newTestServer(store)

	body := `{"family_id": "fam1", "address": "הרצל 15, תל אביב", "price": 2450000, "status": "new"}`
	w := doRequest(t, s, http.MethodPost, "/api/properties", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want 201 (body %s)", w.Code, w.Body.String())
	}

	var p models.Property
	if err := json.Unmarshal(w.Body.Bytes(), &p); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if p.Address != "הרצל 15, תל אביב" {
		t.Errorf("address: got %q", p.Address)
	}
	if len(store.byID) != 1 {
		t.Errorf("store has %d properties, want 1", len(store.byID))
	}
}

func TestCreatePropertyDefaultStatus(t *testing.T) {
	store := newFakeStore()
	s := newTestServer(store)

	w := doRequest(t, s, http.MethodPost, "/api/properties", `{"family_id": "fam1", "address": "x"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want 201", w.Code)
	}
	var p models.Property
	if err := json.Unmarshal(w.Body.Bytes(), &p); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if p.Status != "new" {
		t.Errorf("status: got %q, want default new", p.Status)
	}
}

func TestCreatePropertyValidation(t *testing.T) {
	s := newTestServer(newFakeStore())

	w := doRequest(t, s, http.MethodPost, "/api/properties", `{"address": "no family"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing family_id: got %d, want 400", w.Code)
	}

	w = doRequest(t, s, http.MethodPost, "/api/properties", `not json`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad json: got %d, want 400", w.Code)
	}
}

func TestGetPropertyNotFound(t *testing.T) {
	s := newTestServer(newFakeStore())

	w := doRequest(t, s, http.MethodGet, "/api/properties/missing", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", w.Code)
	}
}

func TestListProperties(t *testing.T) {
	store := newFakeStore()
	store.byID["a"] = &models.Property{ID: "a", FamilyID: "fam1", Address: "x", Status: "new"}
	store.byID["b"] = &models.Property{ID: "b", FamilyID: "fam2", Address: "y", Status: "new"}
	s := newTestServer(store)

	w := doRequest(t, s, http.MethodGet, "/api/properties?family_id=fam1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", w.Code)
	}
	var out []*models.Property
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(out) != 1 || out[0].ID != "a" {
		t.Errorf("list: got %v, want only fam1's property", out)
	}

	// No family_id is a client error, not an empty list.
	w = doRequest(t, s, http.MethodGet, "/api/properties", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing family_id: got %d, want 400", w.Code)
	}
}

func TestListPropertiesEmpty(t *testing.T) {
	s := newTestServer(newFakeStore())

	w := doRequest(t, s, http.MethodGet, "/api/properties?family_id=fam1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", w.Code)
	}
	if got := strings.TrimSpace(w.Body.String()); got != "[]" {
		t.Errorf("empty list must encode as [], got %q", got)
	}
}

func TestUpdateAndDeleteProperty(t *testing.T) {
	store := newFakeStore()
	store.byID["a"] = &models.Property{ID: "a", FamilyID: "fam1", Address: "x", Status: "new"}
	s := newTestServer(store)

	w := doRequest(t, s, http.MethodPut, "/api/properties/a", `{"family_id": "fam1", "address": "x", "status": "visited"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("update: got %d, want 200", w.Code)
	}
	if store.byID["a"].Status != "visited" {
		t.Errorf("status after update: got %q, want visited", store.byID["a"].Status)
	}

	w = doRequest(t, s, http.MethodDelete, "/api/properties/a", "")
	if w.Code != http.StatusNoContent {
		t.Errorf("delete: got %d, want 204", w.Code)
	}
	if len(store.byID) != 0 {
		t.Error("property should be gone after delete")
	}

	w = doRequest(t, s, http.MethodDelete, "/api/properties/a", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("double delete: got %d, want 404", w.Code)
	}
}

func TestInsightsEndpoint(t *testing.T) {
	price := 2000000.0
	store := newFakeStore()
	store.byID["a"] = &models.Property{ID: "a", FamilyID: "fam1", Address: "הרצל 15, תל אביב", Price: &price, Status: "new"}
	s := newTestServer(store)

	w := doRequest(t, s, http.MethodGet, "/api/insights?family_id=fam1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", w.Code)
	}
	var report models.InsightReport
	if err := json.Unmarshal(w.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.TotalProperties != 1 || report.WithPrice != 1 {
		t.Errorf("report: got %+v", report)
	}
}
