package services

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/allergycanada/find-allergist/backend/internal/domain/entities"
	"github.com/allergycanada/find-allergist/backend/internal/domain/providers"
	apperrors "github.com/allergycanada/find-allergist/backend/pkg/errors"
)

const sessionKeyPrefix = "search:session:"

// SessionService holds each client's last ranked result set so page
// navigation re-slices in memory instead of re-running the search. State is
// keyed per session, never shared across clients; saving a new search for a
// session supersedes the previous one.
type SessionService struct {
	cache      providers.CacheProvider
	ttlSeconds int
}

// NewSessionService creates a new session service
func NewSessionService(cache providers.CacheProvider, ttlSeconds int) *SessionService {
	if ttlSeconds <= 0 {
		ttlSeconds = 1800
	}
	return &SessionService{
		cache:      cache,
		ttlSeconds: ttlSeconds,
	}
}

// NewSessionID mints a fresh session identifier.
func (s *SessionService) NewSessionID() string {
	return uuid.NewString()
}

// Save stores the full ranked result set for a session, replacing any
// previous search.
func (s *SessionService) Save(ctx context.Context, sessionID string, result *entities.SearchResult) error {
	if s.cache == nil || sessionID == "" {
		return nil
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return apperrors.NewInternalError("failed to encode search session", err)
	}
	if err := s.cache.Set(ctx, sessionKeyPrefix+sessionID, payload, s.ttlSeconds); err != nil {
		return apperrors.NewInternalError("failed to store search session", err)
	}
	return nil
}

// Page loads the stored result set and moves its window to the requested
// page, clamped into range. No search or geocode is re-run.
func (s *SessionService) Page(ctx context.Context, sessionID string, page int) (*entities.SearchResult, error) {
	result, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	result.Page = result.ClampPage(page)
	return result, nil
}

// Clear drops a session's stored results (explicit start-over).
func (s *SessionService) Clear(ctx context.Context, sessionID string) error {
	if s.cache == nil || sessionID == "" {
		return nil
	}
	return s.cache.Delete(ctx, sessionKeyPrefix+sessionID)
}

func (s *SessionService) load(ctx context.Context, sessionID string) (*entities.SearchResult, error) {
	if s.cache == nil || sessionID == "" {
		return nil, apperrors.NewNotFoundError("search session not found")
	}

	payload, err := s.cache.Get(ctx, sessionKeyPrefix+sessionID)
	if err != nil || len(payload) == 0 {
		return nil, apperrors.NewNotFoundError("search session expired or unknown")
	}

	var result entities.SearchResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, apperrors.NewInternalError("failed to decode search session", err)
	}
	return &result, nil
}
