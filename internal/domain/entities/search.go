package entities

import "strings"

// UnknownDistance is reported when no origin point could be resolved for a
// search. Items carrying it are never dropped by the radius cutoff and sort
// after every known distance.
const UnknownDistance = -1.0

// SearchCriteria is a single search submission. All fields are optional but
// at least one of name/city/province/postal/OIT/population must be set.
type SearchCriteria struct {
	Name       string             `json:"name,omitempty"`
	City       string             `json:"city,omitempty"`
	Province   string             `json:"province,omitempty"`
	PostalCode string             `json:"postal,omitempty"`
	OffersOIT  *bool              `json:"oit,omitempty"`
	Population PracticePopulation `json:"prac_pop,omitempty"`
	RadiusKm   float64            `json:"kms,omitempty"`
	Page       int                `json:"page,omitempty"`
	PerPage    int                `json:"per_page,omitempty"`
}

// HasLocationFields reports whether any geographic criterion was supplied.
// When none is, radius filtering is skipped entirely.
func (c SearchCriteria) HasLocationFields() bool {
	return strings.TrimSpace(c.City) != "" ||
		strings.TrimSpace(c.Province) != "" ||
		strings.TrimSpace(c.PostalCode) != ""
}

// IsEmpty reports whether no usable criterion was supplied at all.
func (c SearchCriteria) IsEmpty() bool {
	return strings.TrimSpace(c.Name) == "" &&
		!c.HasLocationFields() &&
		c.OffersOIT == nil &&
		c.Population == ""
}

// SearchResultItem is one (physician, location) pair with its computed
// distance. A physician with several qualifying locations produces several
// items, each ranked independently.
type SearchResultItem struct {
	Physician     *Physician        `json:"physician"`
	Location      *PracticeLocation `json:"location,omitempty"`
	LocationIndex int               `json:"location_index"`
	DistanceKm    float64           `json:"distance_km"`
	MarkerKey     string            `json:"marker_key,omitempty"`
}

// SearchResult holds the full ranked item sequence of one search plus the
// current page window. The item slice is the single source both the list and
// the map projections are derived from.
type SearchResult struct {
	Items      []SearchResultItem `json:"items"`
	Origin     *Location          `json:"origin,omitempty"`
	Page       int                `json:"page"`
	PerPage    int                `json:"per_page"`
	TotalPages int                `json:"total_pages"`
}

// Count returns the total number of ranked items across all pages.
func (r *SearchResult) Count() int {
	return len(r.Items)
}

// ClampPage forces a requested page into [1, TotalPages]. An empty result
// set clamps to page 1.
func (r *SearchResult) ClampPage(page int) int {
	if page < 1 {
		return 1
	}
	if r.TotalPages > 0 && page > r.TotalPages {
		return r.TotalPages
	}
	return page
}

// PageItems slices the ranked items for the given (already clamped) page.
func (r *SearchResult) PageItems(page int) []SearchResultItem {
	if r.PerPage <= 0 || len(r.Items) == 0 {
		return nil
	}
	page = r.ClampPage(page)
	start := (page - 1) * r.PerPage
	if start >= len(r.Items) {
		return nil
	}
	end := start + r.PerPage
	if end > len(r.Items) {
		end = len(r.Items)
	}
	return r.Items[start:end]
}
