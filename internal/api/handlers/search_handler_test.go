package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allergycanada/find-allergist/backend/internal/api/handlers"
	"github.com/allergycanada/find-allergist/backend/internal/application/services"
	"github.com/allergycanada/find-allergist/backend/internal/domain/entities"
	"github.com/allergycanada/find-allergist/backend/internal/domain/providers"
	"github.com/allergycanada/find-allergist/backend/internal/domain/repositories"
	"github.com/allergycanada/find-allergist/backend/pkg/config"
	apperrors "github.com/allergycanada/find-allergist/backend/pkg/errors"
)

type memoryCache struct {
	entries map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (c *memoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	return c.entries[key], nil
}

func (c *memoryCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	c.entries[key] = value
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	delete(c.entries, key)
	return nil
}

func (c *memoryCache) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := c.entries[key]
	return ok, nil
}

type stubPhysicianRepo struct {
	records []*entities.Physician
	updated []*entities.Physician
}

func (r *stubPhysicianRepo) Create(ctx context.Context, p *entities.Physician) error { return nil }
func (r *stubPhysicianRepo) GetByID(ctx context.Context, id string) (*entities.Physician, error) {
	for _, p := range r.records {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, apperrors.NewNotFoundError("physician not found")
}
func (r *stubPhysicianRepo) Update(ctx context.Context, p *entities.Physician) error {
	r.updated = append(r.updated, p)
	return nil
}
func (r *stubPhysicianRepo) Delete(ctx context.Context, id string) error { return nil }
func (r *stubPhysicianRepo) List(ctx context.Context, filter repositories.PhysicianFilter) ([]*entities.Physician, error) {
	var out []*entities.Physician
	for _, p := range r.records {
		if filter.PublishedOnly && !p.Published {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

type stubGeocoder struct {
	coords *providers.Coordinates
	err    error
}

func (g *stubGeocoder) Geocode(ctx context.Context, address string) (*providers.Coordinates, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.coords, nil
}

func torontoPhysician(id, name string, latOffset float64) *entities.Physician {
	return &entities.Physician{
		ID:          id,
		DisplayName: name,
		Published:   true,
		Locations: []entities.PracticeLocation{
			{
				Institution: name + " Clinic",
				Address:     entities.Address{City: "Toronto", Province: "ON"},
				Geo:         &entities.Location{Latitude: 43.6532 + latOffset, Longitude: -79.3832},
			},
		},
	}
}

func newSearchHandler(records []*entities.Physician) *handlers.SearchHandler {
	repo := &stubPhysicianRepo{records: records}
	geocoder := &stubGeocoder{coords: &providers.Coordinates{Latitude: 43.6532, Longitude: -79.3832}}
	cfg := config.SearchConfig{DefaultRadiusKm: 30, PageSize: 2}

	searchService := services.NewSearchService(repo, geocoder, cfg)
	sessionService := services.NewSessionService(newMemoryCache(), 60)
	return handlers.NewSearchHandler(searchService, sessionService)
}

func TestSearchHandler_Search_Success(t *testing.T) {
	handler := newSearchHandler([]*entities.Physician{
		torontoPhysician("p1", "Dr. Near", 0.045),
		torontoPhysician("p2", "Dr. Mid", 0.1),
		torontoPhysician("p3", "Dr. Far", 0.2),
	})

	req := httptest.NewRequest("GET", "/api/allergists/search?city=Toronto&kms=30", nil)
	w := httptest.NewRecorder()

	handler.Search(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		SessionID  string            `json:"session_id"`
		Page       int               `json:"page"`
		PerPage    int               `json:"per_page"`
		TotalPages int               `json:"total_pages"`
		Count      int               `json:"count"`
		Results    []json.RawMessage `json:"results"`
		Markers    []json.RawMessage `json:"markers"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))

	assert.NotEmpty(t, response.SessionID)
	assert.Equal(t, 1, response.Page)
	assert.Equal(t, 2, response.PerPage)
	assert.Equal(t, 2, response.TotalPages)
	assert.Equal(t, 3, response.Count)
	assert.Len(t, response.Results, 2)
	// Markers cover the whole result set, not just the visible page.
	assert.Len(t, response.Markers, 3)
}

func TestSearchHandler_Search_EmptyCriteria(t *testing.T) {
	handler := newSearchHandler(nil)

	req := httptest.NewRequest("GET", "/api/allergists/search", nil)
	w := httptest.NewRecorder()

	handler.Search(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchHandler_Search_InvalidParams(t *testing.T) {
	handler := newSearchHandler(nil)

	for _, query := range []string{
		"city=Toronto&kms=-5",
		"city=Toronto&kms=abc",
		"city=Toronto&oit=maybe",
		"city=Toronto&prac_pop=robots",
		"city=Toronto&per_page=0",
	} {
		req := httptest.NewRequest("GET", "/api/allergists/search?"+query, nil)
		w := httptest.NewRecorder()
		handler.Search(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, "query %q", query)
	}
}

func TestSearchHandler_Page_RoundTrip(t *testing.T) {
	handler := newSearchHandler([]*entities.Physician{
		torontoPhysician("p1", "Dr. A", 0.01),
		torontoPhysician("p2", "Dr. B", 0.02),
		torontoPhysician("p3", "Dr. C", 0.03),
	})

	req := httptest.NewRequest("GET", "/api/allergists/search?city=Toronto", nil)
	w := httptest.NewRecorder()
	handler.Search(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var first struct {
		SessionID string `json:"session_id"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&first))
	require.NotEmpty(t, first.SessionID)

	req = httptest.NewRequest("GET", "/api/allergists/page?session_id="+first.SessionID+"&page=2", nil)
	w = httptest.NewRecorder()
	handler.Page(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var second struct {
		SessionID string `json:"session_id"`
		Page      int    `json:"page"`
		Count     int    `json:"count"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&second))
	assert.Equal(t, first.SessionID, second.SessionID)
	assert.Equal(t, 2, second.Page)
	assert.Equal(t, 3, second.Count)
}

func TestSearchHandler_Page_UnknownSession(t *testing.T) {
	handler := newSearchHandler(nil)

	req := httptest.NewRequest("GET", "/api/allergists/page?session_id=nope&page=1", nil)
	w := httptest.NewRecorder()
	handler.Page(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSearchHandler_ClearSession(t *testing.T) {
	handler := newSearchHandler([]*entities.Physician{
		torontoPhysician("p1", "Dr. A", 0.01),
	})

	req := httptest.NewRequest("GET", "/api/allergists/search?city=Toronto", nil)
	w := httptest.NewRecorder()
	handler.Search(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		SessionID string `json:"session_id"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))

	req = httptest.NewRequest("DELETE", "/api/allergists/session/"+response.SessionID, nil)
	req.SetPathValue("id", response.SessionID)
	w = httptest.NewRecorder()
	handler.ClearSession(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)

	req = httptest.NewRequest("GET", "/api/allergists/page?session_id="+response.SessionID+"&page=1", nil)
	w = httptest.NewRecorder()
	handler.Page(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
