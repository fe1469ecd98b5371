package repositories

import (
	"context"

	"github.com/allergycanada/find-allergist/backend/internal/domain/entities"
)

// PhysicianRepository defines the interface for physician profile data operations
type PhysicianRepository interface {
	// Create creates a new physician profile
	Create(ctx context.Context, physician *entities.Physician) error

	// GetByID retrieves a physician by ID, including practice locations in
	// priority order
	GetByID(ctx context.Context, id string) (*entities.Physician, error)

	// Update updates a physician profile
	Update(ctx context.Context, physician *entities.Physician) error

	// Delete deletes a physician profile
	Delete(ctx context.Context, id string) error

	// List retrieves physicians with filters
	List(ctx context.Context, filter PhysicianFilter) ([]*entities.Physician, error)
}

// PhysicianIndexRepository defines the interface for the name suggest index
// (e.g. Typesense)
type PhysicianIndexRepository interface {
	// InitSchema ensures the collection exists
	InitSchema(ctx context.Context) error

	// Index indexes a physician
	Index(ctx context.Context, physician *entities.Physician) error

	// Delete removes a physician from the index
	Delete(ctx context.Context, id string) error

	// Suggest returns type-ahead suggestions for a name prefix
	Suggest(ctx context.Context, prefix string, limit int) ([]Suggestion, error)
}

// PhysicianFilter defines filters for listing physicians
type PhysicianFilter struct {
	PublishedOnly bool
	Limit         int
	Offset        int
}

// Suggestion is one type-ahead hit.
type Suggestion struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	City        string `json:"city,omitempty"`
	Province    string `json:"province,omitempty"`
}
