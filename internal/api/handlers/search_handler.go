package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/allergycanada/find-allergist/backend/internal/application/services"
	"github.com/allergycanada/find-allergist/backend/internal/domain/entities"
	"github.com/allergycanada/find-allergist/backend/internal/infrastructure/observability"
	"github.com/allergycanada/find-allergist/backend/internal/render"
	apperrors "github.com/allergycanada/find-allergist/backend/pkg/errors"
)

// SearchHandler handles allergist search and result pagination requests.
type SearchHandler struct {
	searchService  *services.SearchService
	sessionService *services.SessionService
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(searchService *services.SearchService, sessionService *services.SessionService) *SearchHandler {
	return &SearchHandler{
		searchService:  searchService,
		sessionService: sessionService,
	}
}

// Search handles GET /api/allergists/search
//
// Query parameters: name, city, province, postal, kms, oit, prac_pop,
// page, per_page. Runs a fresh search, stores the ranked result set under a
// new session and returns the requested page plus the full marker set.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	criteria, err := parseCriteria(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.searchService.Search(r.Context(), criteria)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	sessionID := h.sessionService.NewSessionID()
	if err := h.sessionService.Save(r.Context(), sessionID, result); err != nil {
		// Pagination falls back to re-searching; the first page is still good.
		observability.LoggerFromContext(r.Context()).Warn().Err(err).
			Msg("failed to persist search session")
		sessionID = ""
	}

	respondWithJSON(w, http.StatusOK, resultPayload(sessionID, result))
}

// Page handles GET /api/allergists/page?session_id=...&page=N
//
// Re-slices the stored result set without re-running the search or the
// geocoder. Expired or unknown sessions return 404 so the client knows to
// submit the search again.
func (h *SearchHandler) Page(w http.ResponseWriter, r *http.Request) {
	sessionID := strings.TrimSpace(r.URL.Query().Get("session_id"))
	if sessionID == "" {
		respondWithError(w, http.StatusBadRequest, "session_id parameter is required")
		return
	}

	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid page parameter")
			return
		}
		page = parsed
	}

	result, err := h.sessionService.Page(r.Context(), sessionID, page)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, resultPayload(sessionID, result))
}

// ClearSession handles DELETE /api/allergists/session/{id}
func (h *SearchHandler) ClearSession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	if sessionID == "" {
		respondWithError(w, http.StatusBadRequest, "session ID is required")
		return
	}

	if err := h.sessionService.Clear(r.Context(), sessionID); err != nil {
		respondWithAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func parseCriteria(r *http.Request) (entities.SearchCriteria, error) {
	q := r.URL.Query()

	criteria := entities.SearchCriteria{
		Name:       strings.TrimSpace(q.Get("name")),
		City:       strings.TrimSpace(q.Get("city")),
		Province:   strings.TrimSpace(q.Get("province")),
		PostalCode: strings.TrimSpace(q.Get("postal")),
	}

	if raw := q.Get("kms"); raw != "" {
		radius, err := strconv.ParseFloat(raw, 64)
		if err != nil || radius < 0 {
			return criteria, errors.New("invalid kms parameter")
		}
		criteria.RadiusKm = radius
	}

	if raw := q.Get("oit"); raw != "" {
		oit, err := strconv.ParseBool(raw)
		if err != nil {
			return criteria, errors.New("invalid oit parameter")
		}
		criteria.OffersOIT = &oit
	}

	if raw := q.Get("prac_pop"); raw != "" {
		population, ok := entities.ParsePracticePopulation(raw)
		if !ok {
			return criteria, errors.New("invalid prac_pop parameter")
		}
		criteria.Population = population
	}

	if raw := q.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return criteria, errors.New("invalid page parameter")
		}
		criteria.Page = page
	}

	if raw := q.Get("per_page"); raw != "" {
		perPage, err := strconv.Atoi(raw)
		if err != nil || perPage <= 0 {
			return criteria, errors.New("invalid per_page parameter")
		}
		criteria.PerPage = perPage
	}

	return criteria, nil
}

// resultPayload renders one page of grouped results plus map markers for the
// entire result set, so the map stays complete while the list pages.
func resultPayload(sessionID string, result *entities.SearchResult) map[string]interface{} {
	pageItems := result.PageItems(result.Page)

	return map[string]interface{}{
		"session_id":  sessionID,
		"page":        result.Page,
		"per_page":    result.PerPage,
		"total_pages": result.TotalPages,
		"count":       result.Count(),
		"origin":      result.Origin,
		"results":     render.GroupByPhysician(pageItems),
		"markers":     render.Markers(result.Items),
	}
}

// Helper functions
func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// respondWithAppError maps application error types onto HTTP status codes.
func respondWithAppError(w http.ResponseWriter, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case apperrors.ErrorTypeNotFound:
			respondWithError(w, http.StatusNotFound, appErr.Message)
		case apperrors.ErrorTypeValidation:
			respondWithError(w, http.StatusBadRequest, appErr.Message)
		case apperrors.ErrorTypeUnauthorized:
			respondWithError(w, http.StatusUnauthorized, appErr.Message)
		case apperrors.ErrorTypeForbidden:
			respondWithError(w, http.StatusForbidden, appErr.Message)
		case apperrors.ErrorTypeExternal:
			respondWithError(w, http.StatusBadGateway, appErr.Message)
		default:
			respondWithError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}
	respondWithError(w, http.StatusInternalServerError, "internal server error")
}
