package database

import (
	"context"
	"database/sql"

	"github.com/doug-martin/goqu/v9"

	"github.com/allergycanada/find-allergist/backend/internal/domain/providers"
	"github.com/allergycanada/find-allergist/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/allergycanada/find-allergist/backend/pkg/errors"
)

// CapabilityAdapter answers edit-capability checks from the profile store.
// A caller may edit a profile it owns; broader role handling stays with the
// host platform.
type CapabilityAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewCapabilityAdapter creates a new capability adapter
func NewCapabilityAdapter(client *postgres.Client) providers.CapabilityProvider {
	return &CapabilityAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// CanEdit reports whether userID owns the physician profile
func (a *CapabilityAdapter) CanEdit(ctx context.Context, userID, physicianID string) (bool, error) {
	if userID == "" || physicianID == "" {
		return false, nil
	}

	query, args, err := a.db.Select("owner_user_id").
		From(physiciansTable).
		Where(goqu.Ex{"id": physicianID}).
		ToSQL()
	if err != nil {
		return false, apperrors.NewInternalError("failed to build capability query", err)
	}

	var ownerID string
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(&ownerID)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, apperrors.NewInternalError("failed to check edit capability", err)
	}

	return ownerID == userID, nil
}
