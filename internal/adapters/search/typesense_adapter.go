package search

import (
	"context"
	"fmt"

	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"

	"github.com/allergycanada/find-allergist/backend/internal/domain/entities"
	"github.com/allergycanada/find-allergist/backend/internal/domain/repositories"
	tsclient "github.com/allergycanada/find-allergist/backend/internal/infrastructure/clients/typesense"
)

const collectionName = tsclient.PhysiciansCollection

// TypesenseAdapter implements the physician suggest index using Typesense
type TypesenseAdapter struct {
	client *tsclient.Client
}

var _ repositories.PhysicianIndexRepository = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client *tsclient.Client) *TypesenseAdapter {
	return &TypesenseAdapter{client: client}
}

// InitSchema ensures the collection exists
func (a *TypesenseAdapter) InitSchema(ctx context.Context) error {
	_, err := a.client.Client().Collection(collectionName).Retrieve(ctx)
	if err == nil {
		return nil
	}

	schema := &api.CollectionSchema{
		Name: collectionName,
		Fields: []api.Field{
			{Name: "id", Type: "string"},
			{Name: "display_name", Type: "string"},
			{Name: "city", Type: "string", Facet: pointer.True()},
			{Name: "province", Type: "string", Facet: pointer.True()},
			{Name: "published", Type: "bool"},
			{Name: "updated_at", Type: "int64"},
		},
		DefaultSortingField: pointer.String("updated_at"),
	}

	_, err = a.client.Client().Collections().Create(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to create typesense collection: %w", err)
	}
	return nil
}

// Index indexes a physician. The first practice location supplies the
// city/province facets.
func (a *TypesenseAdapter) Index(ctx context.Context, physician *entities.Physician) error {
	city, province := "", ""
	if len(physician.Locations) > 0 {
		city = physician.Locations[0].Address.City
		province = physician.Locations[0].Address.Province
	}

	document := map[string]interface{}{
		"id":           physician.ID,
		"display_name": physician.DisplayName,
		"city":         city,
		"province":     province,
		"published":    physician.Published,
		"updated_at":   physician.UpdatedAt.Unix(),
	}

	_, err := a.client.Client().Collection(collectionName).Documents().Upsert(ctx, document)
	if err != nil {
		return fmt.Errorf("failed to index physician: %w", err)
	}
	return nil
}

// Delete removes a physician from the index
func (a *TypesenseAdapter) Delete(ctx context.Context, id string) error {
	_, err := a.client.Client().Collection(collectionName).Document(id).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete physician from index: %w", err)
	}
	return nil
}

// Suggest returns name type-ahead suggestions for published physicians
func (a *TypesenseAdapter) Suggest(ctx context.Context, prefix string, limit int) ([]repositories.Suggestion, error) {
	if limit <= 0 {
		limit = 10
	}

	params := &api.SearchCollectionParams{
		Q:        pointer.String(prefix),
		QueryBy:  pointer.String("display_name"),
		FilterBy: pointer.String("published:true"),
		PerPage:  pointer.Int(limit),
		Prefix:   pointer.String("true"),
	}

	result, err := a.client.Client().Collection(collectionName).Documents().Search(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to search physician index: %w", err)
	}

	var suggestions []repositories.Suggestion
	if result.Hits == nil {
		return suggestions, nil
	}
	for _, hit := range *result.Hits {
		if hit.Document == nil {
			continue
		}
		doc := *hit.Document
		suggestion := repositories.Suggestion{}
		if id, ok := doc["id"].(string); ok {
			suggestion.ID = id
		}
		if name, ok := doc["display_name"].(string); ok {
			suggestion.DisplayName = name
		}
		if city, ok := doc["city"].(string); ok {
			suggestion.City = city
		}
		if province, ok := doc["province"].(string); ok {
			suggestion.Province = province
		}
		suggestions = append(suggestions, suggestion)
	}

	return suggestions, nil
}
