// Package render projects a ranked search result sequence into its two
// views: the paginated, physician-grouped list and the flat map marker set.
// Both views are derived from the same items; neither is fetched separately.
package render

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/allergycanada/find-allergist/backend/internal/domain/entities"
)

// MarkerKey derives the stable identity linking a list entry to its map
// marker. It is a pure function of the three display strings so the list and
// map sides agree without a shared lookup table. Two locations with an
// identical (institution, address, physician) triple collide to the same
// key; that deduplication is intentional.
func MarkerKey(institution, address, physicianName string) string {
	joined := canonical(institution) + "|" + canonical(address) + "|" + canonical(physicianName)
	sum := sha256.Sum256([]byte(joined))
	return hex.EncodeToString(sum[:])
}

// ItemMarkerKey computes the marker key for one result item.
func ItemMarkerKey(item entities.SearchResultItem) string {
	if item.Location == nil || item.Physician == nil {
		return ""
	}
	return MarkerKey(item.Location.Institution, addressLine(item.Location.Address), item.Physician.DisplayName)
}

// Marker is one map pin. Markers cover the entire result set, not just the
// current page, so any list entry can resolve to an already-placed marker.
type Marker struct {
	Key           string            `json:"key"`
	Institution   string            `json:"institution"`
	PhysicianName string            `json:"physician_name"`
	Location      entities.Location `json:"location"`
	DistanceKm    float64           `json:"distance_km"`
}

// Markers flattens every geocoded item into a marker, deduplicating by key.
// The first occurrence wins; with distance-sorted input that is the nearest.
func Markers(items []entities.SearchResultItem) []Marker {
	seen := make(map[string]struct{}, len(items))
	markers := make([]Marker, 0, len(items))

	for _, item := range items {
		if item.Location == nil || item.Location.Geo == nil {
			continue
		}
		key := item.MarkerKey
		if key == "" {
			key = ItemMarkerKey(item)
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		markers = append(markers, Marker{
			Key:           key,
			Institution:   item.Location.Institution,
			PhysicianName: item.Physician.DisplayName,
			Location:      *item.Location.Geo,
			DistanceKm:    item.DistanceKm,
		})
	}

	return markers
}

func addressLine(addr entities.Address) string {
	parts := make([]string, 0, 5)
	for _, p := range []string{addr.Street, addr.City, addr.Province, addr.PostalCode, addr.Country} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, strings.TrimSpace(p))
		}
	}
	return strings.Join(parts, ", ")
}

func canonical(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
