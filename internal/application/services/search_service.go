package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/allergycanada/find-allergist/backend/internal/domain/entities"
	"github.com/allergycanada/find-allergist/backend/internal/domain/providers"
	"github.com/allergycanada/find-allergist/backend/internal/domain/repositories"
	"github.com/allergycanada/find-allergist/backend/internal/infrastructure/observability"
	"github.com/allergycanada/find-allergist/backend/internal/render"
	"github.com/allergycanada/find-allergist/backend/pkg/config"
	apperrors "github.com/allergycanada/find-allergist/backend/pkg/errors"
	"github.com/allergycanada/find-allergist/backend/pkg/geo"
	"github.com/allergycanada/find-allergist/backend/pkg/postal"
)

// SearchService runs the directory search pipeline: origin resolution,
// candidate filtering, per-location distance ranking and pagination.
type SearchService struct {
	physicians repositories.PhysicianRepository
	geocoder   providers.Geocoder
	filter     *CandidateFilter
	cfg        config.SearchConfig
	metrics    *observability.Metrics
}

// NewSearchService creates a new search service
func NewSearchService(physicians repositories.PhysicianRepository, geocoder providers.Geocoder, cfg config.SearchConfig) *SearchService {
	return &SearchService{
		physicians: physicians,
		geocoder:   geocoder,
		filter:     NewCandidateFilter(),
		cfg:        cfg,
	}
}

// SetMetrics enables search instrumentation.
func (s *SearchService) SetMetrics(metrics *observability.Metrics) {
	s.metrics = metrics
}

// Search executes one search submission and returns the full ranked result
// set with the requested page clamped into range.
//
// An unresolvable origin is not a failure: the search degrades to unlimited
// radius with unknown distances, because name and city matches are still
// useful without one.
func (s *SearchService) Search(ctx context.Context, criteria entities.SearchCriteria) (*entities.SearchResult, error) {
	if criteria.IsEmpty() {
		return nil, apperrors.NewValidationError("at least one of name, city, province or postal code is required")
	}

	start := time.Now()

	perPage := criteria.PerPage
	if perPage <= 0 {
		perPage = s.cfg.PageSize
	}
	if perPage <= 0 {
		perPage = 20
	}

	radiusKm := 0.0
	var origin *entities.Location
	if criteria.HasLocationFields() {
		radiusKm = criteria.RadiusKm
		if radiusKm <= 0 {
			radiusKm = s.cfg.DefaultRadiusKm
		}

		geocodeStart := time.Now()
		coords, err := s.geocoder.Geocode(ctx, originAddress(criteria))
		if err != nil {
			if ctx.Err() != nil {
				// A superseded search was cancelled; not an error state.
				return nil, ctx.Err()
			}
			observability.RecordGeocodeMetric(ctx, s.metrics, "error", time.Since(geocodeStart))
			observability.LoggerFromContext(ctx).Warn().Err(err).
				Msg("origin geocode failed, skipping radius filter")
			radiusKm = 0
		} else {
			observability.RecordGeocodeMetric(ctx, s.metrics, "ok", time.Since(geocodeStart))
			origin = &entities.Location{Latitude: coords.Latitude, Longitude: coords.Longitude}
		}
	}

	records, err := s.physicians.List(ctx, repositories.PhysicianFilter{PublishedOnly: true})
	if err != nil {
		return nil, err
	}

	candidates := s.filter.Filter(criteria, records)
	items := buildItems(candidates, origin, radiusKm)
	sortItems(items)
	for i := range items {
		items[i].MarkerKey = render.ItemMarkerKey(items[i])
	}

	totalPages := 0
	if len(items) > 0 {
		totalPages = (len(items) + perPage - 1) / perPage
	}

	result := &entities.SearchResult{
		Items:      items,
		Origin:     origin,
		PerPage:    perPage,
		TotalPages: totalPages,
	}
	result.Page = result.ClampPage(criteria.Page)

	observability.RecordSearchMetric(ctx, s.metrics, origin != nil, len(items), time.Since(start))

	return result, nil
}

// originAddress composes the geocoding query from the location criteria.
func originAddress(criteria entities.SearchCriteria) string {
	parts := make([]string, 0, 4)
	if city := strings.TrimSpace(criteria.City); city != "" {
		parts = append(parts, city)
	}
	if province := strings.TrimSpace(criteria.Province); province != "" {
		parts = append(parts, province)
	}
	if code := strings.TrimSpace(criteria.PostalCode); code != "" {
		parts = append(parts, postal.Format(code))
	}
	parts = append(parts, "Canada")
	return strings.Join(parts, ", ")
}

// buildItems flattens physicians into (physician, location) items. With an
// origin, only geocoded locations qualify and the radius cutoff applies.
// Without one, every location survives with an unknown distance, and even
// location-less physicians stay name-searchable.
func buildItems(candidates []*entities.Physician, origin *entities.Location, radiusKm float64) []entities.SearchResultItem {
	var items []entities.SearchResultItem

	for _, physician := range candidates {
		if origin == nil && len(physician.Locations) == 0 {
			items = append(items, entities.SearchResultItem{
				Physician:  physician,
				DistanceKm: entities.UnknownDistance,
			})
			continue
		}

		for i := range physician.Locations {
			location := &physician.Locations[i]

			if origin == nil {
				items = append(items, entities.SearchResultItem{
					Physician:     physician,
					Location:      location,
					LocationIndex: i,
					DistanceKm:    entities.UnknownDistance,
				})
				continue
			}

			if location.Geo == nil {
				continue
			}
			distance := geo.Between(origin.Latitude, origin.Longitude, location.Geo.Latitude, location.Geo.Longitude)
			if radiusKm > 0 && distance > radiusKm {
				continue
			}
			items = append(items, entities.SearchResultItem{
				Physician:     physician,
				Location:      location,
				LocationIndex: i,
				DistanceKm:    distance,
			})
		}
	}

	return items
}

// sortItems orders ascending by distance with unknown distances last, then
// by physician name and location insertion order so ties are deterministic.
func sortItems(items []entities.SearchResultItem) {
	sort.SliceStable(items, func(i, j int) bool {
		di, dj := items[i].DistanceKm, items[j].DistanceKm
		iUnknown := di == entities.UnknownDistance
		jUnknown := dj == entities.UnknownDistance
		if iUnknown != jUnknown {
			return !iUnknown
		}
		if !iUnknown && di != dj {
			return di < dj
		}
		ni, nj := items[i].Physician.DisplayName, items[j].Physician.DisplayName
		if ni != nj {
			return ni < nj
		}
		return items[i].LocationIndex < items[j].LocationIndex
	})
}
