package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/allergycanada/find-allergist/backend/internal/domain/entities"
	"github.com/allergycanada/find-allergist/backend/internal/domain/providers"
	"github.com/allergycanada/find-allergist/backend/internal/domain/repositories"
	"github.com/allergycanada/find-allergist/backend/internal/infrastructure/observability"
)

// PhysicianHandler handles physician profile requests.
type PhysicianHandler struct {
	physicianRepo repositories.PhysicianRepository
	indexRepo     repositories.PhysicianIndexRepository
	capabilities  providers.CapabilityProvider
}

// NewPhysicianHandler creates a new physician handler
func NewPhysicianHandler(
	physicianRepo repositories.PhysicianRepository,
	indexRepo repositories.PhysicianIndexRepository,
	capabilities providers.CapabilityProvider,
) *PhysicianHandler {
	return &PhysicianHandler{
		physicianRepo: physicianRepo,
		indexRepo:     indexRepo,
		capabilities:  capabilities,
	}
}

// GetPhysician handles GET /api/allergists/{id}
//
// Unpublished profiles are indistinguishable from missing ones.
func (h *PhysicianHandler) GetPhysician(w http.ResponseWriter, r *http.Request) {
	physicianID := r.PathValue("id")
	if physicianID == "" {
		respondWithError(w, http.StatusBadRequest, "physician ID is required")
		return
	}

	physician, err := h.physicianRepo.GetByID(r.Context(), physicianID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	if !physician.Published {
		respondWithError(w, http.StatusNotFound, "physician not found")
		return
	}

	respondWithJSON(w, http.StatusOK, physician)
}

// updatePhysicianRequest carries the editable profile fields. Pointer fields
// distinguish "not supplied" from explicit zero values.
type updatePhysicianRequest struct {
	DisplayName      *string                      `json:"display_name,omitempty"`
	Credentials      *string                      `json:"credentials,omitempty"`
	Population       *string                      `json:"prac_pop,omitempty"`
	OffersOIT        *bool                        `json:"offers_oit,omitempty"`
	SpecialInterests *[]string                    `json:"special_interests,omitempty"`
	Locations        *[]entities.PracticeLocation `json:"locations,omitempty"`
	Published        *bool                        `json:"published,omitempty"`
}

// UpdatePhysician handles PATCH /api/allergists/{id}
//
// The caller is identified by the X-User-ID header set by the edge
// authenticator; only the profile owner may edit.
func (h *PhysicianHandler) UpdatePhysician(w http.ResponseWriter, r *http.Request) {
	physicianID := r.PathValue("id")
	if physicianID == "" {
		respondWithError(w, http.StatusBadRequest, "physician ID is required")
		return
	}

	userID := strings.TrimSpace(r.Header.Get("X-User-ID"))
	if userID == "" {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	allowed, err := h.capabilities.CanEdit(r.Context(), userID, physicianID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	if !allowed {
		respondWithError(w, http.StatusForbidden, "not allowed to edit this profile")
		return
	}

	var req updatePhysicianRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	physician, err := h.physicianRepo.GetByID(r.Context(), physicianID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	if req.DisplayName != nil {
		name := strings.TrimSpace(*req.DisplayName)
		if name == "" {
			respondWithError(w, http.StatusBadRequest, "display_name cannot be empty")
			return
		}
		physician.DisplayName = name
	}
	if req.Credentials != nil {
		physician.Credentials = strings.TrimSpace(*req.Credentials)
	}
	if req.Population != nil {
		population, ok := entities.ParsePracticePopulation(*req.Population)
		if !ok {
			respondWithError(w, http.StatusBadRequest, "invalid prac_pop value")
			return
		}
		physician.Population = population
	}
	if req.OffersOIT != nil {
		physician.OffersOIT = *req.OffersOIT
	}
	if req.SpecialInterests != nil {
		physician.SpecialInterests = *req.SpecialInterests
	}
	if req.Locations != nil {
		physician.Locations = *req.Locations
	}
	if req.Published != nil {
		physician.Published = *req.Published
	}

	if err := h.physicianRepo.Update(r.Context(), physician); err != nil {
		respondWithAppError(w, err)
		return
	}

	// Keep the suggest index in step with the record.
	if h.indexRepo != nil {
		if physician.Published {
			err = h.indexRepo.Index(r.Context(), physician)
		} else {
			err = h.indexRepo.Delete(r.Context(), physician.ID)
		}
		if err != nil {
			observability.LoggerFromContext(r.Context()).Warn().Err(err).
				Str("physician_id", physician.ID).
				Msg("failed to update suggest index")
		}
	}

	respondWithJSON(w, http.StatusOK, physician)
}

// Suggest handles GET /api/allergists/suggest?q=...
func (h *PhysicianHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		respondWithError(w, http.StatusBadRequest, "q parameter is required")
		return
	}

	if h.indexRepo == nil {
		respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"suggestions": []repositories.Suggestion{},
			"count":       0,
		})
		return
	}

	suggestions, err := h.indexRepo.Suggest(r.Context(), query, 10)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to fetch suggestions")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"suggestions": suggestions,
		"count":       len(suggestions),
	})
}
