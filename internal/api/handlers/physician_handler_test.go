package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allergycanada/find-allergist/backend/internal/api/handlers"
	"github.com/allergycanada/find-allergist/backend/internal/domain/entities"
	"github.com/allergycanada/find-allergist/backend/internal/domain/repositories"
)

type stubIndexRepo struct {
	suggestions []repositories.Suggestion
	indexed     []string
	deleted     []string
}

func (r *stubIndexRepo) InitSchema(ctx context.Context) error { return nil }
func (r *stubIndexRepo) Index(ctx context.Context, p *entities.Physician) error {
	r.indexed = append(r.indexed, p.ID)
	return nil
}
func (r *stubIndexRepo) Delete(ctx context.Context, id string) error {
	r.deleted = append(r.deleted, id)
	return nil
}
func (r *stubIndexRepo) Suggest(ctx context.Context, prefix string, limit int) ([]repositories.Suggestion, error) {
	return r.suggestions, nil
}

type stubCapabilities struct {
	ownerUserID string
}

func (c *stubCapabilities) CanEdit(ctx context.Context, userID, physicianID string) (bool, error) {
	return userID == c.ownerUserID, nil
}

func TestPhysicianHandler_GetPhysician(t *testing.T) {
	repo := &stubPhysicianRepo{records: []*entities.Physician{
		{ID: "pub", DisplayName: "Dr. Visible", Published: true},
		{ID: "hidden", DisplayName: "Dr. Hidden", Published: false},
	}}
	handler := handlers.NewPhysicianHandler(repo, nil, &stubCapabilities{})

	tests := []struct {
		name       string
		id         string
		wantStatus int
	}{
		{"published", "pub", http.StatusOK},
		{"unpublished looks missing", "hidden", http.StatusNotFound},
		{"unknown", "nope", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/allergists/"+tt.id, nil)
			req.SetPathValue("id", tt.id)
			w := httptest.NewRecorder()

			handler.GetPhysician(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestPhysicianHandler_UpdatePhysician_RequiresAuth(t *testing.T) {
	repo := &stubPhysicianRepo{records: []*entities.Physician{
		{ID: "p1", DisplayName: "Dr. Owner", Published: true, OwnerUserID: "user-1"},
	}}
	handler := handlers.NewPhysicianHandler(repo, nil, &stubCapabilities{ownerUserID: "user-1"})

	body := `{"offers_oit":true}`

	// No identity header.
	req := httptest.NewRequest("PATCH", "/api/allergists/p1", strings.NewReader(body))
	req.SetPathValue("id", "p1")
	w := httptest.NewRecorder()
	handler.UpdatePhysician(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Wrong user.
	req = httptest.NewRequest("PATCH", "/api/allergists/p1", strings.NewReader(body))
	req.SetPathValue("id", "p1")
	req.Header.Set("X-User-ID", "someone-else")
	w = httptest.NewRecorder()
	handler.UpdatePhysician(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, repo.updated)
}

func TestPhysicianHandler_UpdatePhysician_Success(t *testing.T) {
	repo := &stubPhysicianRepo{records: []*entities.Physician{
		{ID: "p1", DisplayName: "Dr. Owner", Published: true, OwnerUserID: "user-1"},
	}}
	index := &stubIndexRepo{}
	handler := handlers.NewPhysicianHandler(repo, index, &stubCapabilities{ownerUserID: "user-1"})

	body := `{"display_name":"Dr. Renamed","offers_oit":true,"prac_pop":"pediatric"}`
	req := httptest.NewRequest("PATCH", "/api/allergists/p1", strings.NewReader(body))
	req.SetPathValue("id", "p1")
	req.Header.Set("X-User-ID", "user-1")
	w := httptest.NewRecorder()

	handler.UpdatePhysician(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, repo.updated, 1)

	updated := repo.updated[0]
	assert.Equal(t, "Dr. Renamed", updated.DisplayName)
	assert.True(t, updated.OffersOIT)
	assert.Equal(t, entities.PopulationPediatric, updated.Population)
	assert.Equal(t, []string{"p1"}, index.indexed)
}

func TestPhysicianHandler_UpdatePhysician_UnpublishRemovesFromIndex(t *testing.T) {
	repo := &stubPhysicianRepo{records: []*entities.Physician{
		{ID: "p1", DisplayName: "Dr. Owner", Published: true, OwnerUserID: "user-1"},
	}}
	index := &stubIndexRepo{}
	handler := handlers.NewPhysicianHandler(repo, index, &stubCapabilities{ownerUserID: "user-1"})

	req := httptest.NewRequest("PATCH", "/api/allergists/p1", strings.NewReader(`{"published":false}`))
	req.SetPathValue("id", "p1")
	req.Header.Set("X-User-ID", "user-1")
	w := httptest.NewRecorder()

	handler.UpdatePhysician(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"p1"}, index.deleted)
	assert.Empty(t, index.indexed)
}

func TestPhysicianHandler_UpdatePhysician_RejectsBadInput(t *testing.T) {
	repo := &stubPhysicianRepo{records: []*entities.Physician{
		{ID: "p1", DisplayName: "Dr. Owner", Published: true, OwnerUserID: "user-1"},
	}}
	handler := handlers.NewPhysicianHandler(repo, nil, &stubCapabilities{ownerUserID: "user-1"})

	for _, body := range []string{
		`{"display_name":"   "}`,
		`{"prac_pop":"robots"}`,
		`not json`,
	} {
		req := httptest.NewRequest("PATCH", "/api/allergists/p1", strings.NewReader(body))
		req.SetPathValue("id", "p1")
		req.Header.Set("X-User-ID", "user-1")
		w := httptest.NewRecorder()

		handler.UpdatePhysician(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, "body %q", body)
	}
	assert.Empty(t, repo.updated)
}

func TestPhysicianHandler_Suggest(t *testing.T) {
	index := &stubIndexRepo{suggestions: []repositories.Suggestion{
		{ID: "p1", DisplayName: "Dr. Jane Smith", City: "Toronto", Province: "ON"},
	}}
	handler := handlers.NewPhysicianHandler(&stubPhysicianRepo{}, index, &stubCapabilities{})

	req := httptest.NewRequest("GET", "/api/allergists/suggest?q=smi", nil)
	w := httptest.NewRecorder()

	handler.Suggest(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Suggestions []repositories.Suggestion `json:"suggestions"`
		Count       int                       `json:"count"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, 1, response.Count)
	assert.Equal(t, "Dr. Jane Smith", response.Suggestions[0].DisplayName)
}

func TestPhysicianHandler_Suggest_MissingQuery(t *testing.T) {
	handler := handlers.NewPhysicianHandler(&stubPhysicianRepo{}, nil, &stubCapabilities{})

	req := httptest.NewRequest("GET", "/api/allergists/suggest", nil)
	w := httptest.NewRecorder()

	handler.Suggest(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
