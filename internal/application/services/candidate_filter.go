package services

import (
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/allergycanada/find-allergist/backend/internal/domain/entities"
	"github.com/allergycanada/find-allergist/backend/pkg/postal"
)

// maxNameEditDistance is the fuzzy name-match cutoff. A fixed edit distance
// of 4 is permissive for short names; kept as-is for compatibility with the
// established matching behavior.
const maxNameEditDistance = 4

// CandidateFilter selects physician records matching the structured search
// criteria. All supplied predicates are ANDed; output order is unspecified,
// ranking happens later.
type CandidateFilter struct{}

// NewCandidateFilter creates a new candidate filter
func NewCandidateFilter() *CandidateFilter {
	return &CandidateFilter{}
}

// Filter returns the records matching every supplied criterion.
func (f *CandidateFilter) Filter(criteria entities.SearchCriteria, records []*entities.Physician) []*entities.Physician {
	var matches []*entities.Physician
	for _, record := range records {
		if f.matches(criteria, record) {
			matches = append(matches, record)
		}
	}
	return matches
}

func (f *CandidateFilter) matches(criteria entities.SearchCriteria, record *entities.Physician) bool {
	if name := strings.TrimSpace(criteria.Name); name != "" && !nameMatches(name, record.DisplayName) {
		return false
	}
	if city := strings.TrimSpace(criteria.City); city != "" && !matchesCity(city, record.Locations) {
		return false
	}
	if province := strings.TrimSpace(criteria.Province); province != "" && !matchesProvince(province, record.Locations) {
		return false
	}
	if code := postal.Normalize(criteria.PostalCode); code != "" && !matchesPostal(code, record.Locations) {
		return false
	}
	if criteria.OffersOIT != nil && record.OffersOIT != *criteria.OffersOIT {
		return false
	}
	if criteria.Population != "" && record.Population != criteria.Population {
		return false
	}
	return true
}

// nameMatches accepts a word-boundary prefix match on the normalized name,
// falling back to an edit-distance comparison to tolerate misspellings.
func nameMatches(fragment, name string) bool {
	frag := normalizeName(fragment)
	full := normalizeName(name)
	if frag == "" {
		return true
	}
	if strings.HasPrefix(full, frag) {
		return true
	}
	for _, word := range strings.Fields(full) {
		if strings.HasPrefix(word, frag) {
			return true
		}
	}
	return levenshtein.ComputeDistance(full, frag) <= maxNameEditDistance
}

// normalizeName lower-cases and strips the "Dr." title prefix.
func normalizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	switch {
	case strings.HasPrefix(name, "dr. "):
		name = name[4:]
	case strings.HasPrefix(name, "dr."):
		name = name[3:]
	case strings.HasPrefix(name, "dr "):
		name = name[3:]
	}
	return strings.TrimSpace(name)
}

func matchesCity(city string, locations []entities.PracticeLocation) bool {
	needle := strings.ToLower(city)
	for _, loc := range locations {
		if strings.Contains(strings.ToLower(loc.Address.City), needle) {
			return true
		}
	}
	return false
}

func matchesProvince(province string, locations []entities.PracticeLocation) bool {
	needle := strings.ToLower(province)
	for _, loc := range locations {
		stored := strings.ToLower(loc.Address.Province)
		if stored == needle || strings.HasPrefix(stored, needle) {
			return true
		}
	}
	return false
}

func matchesPostal(normalized string, locations []entities.PracticeLocation) bool {
	for _, loc := range locations {
		if strings.HasPrefix(postal.Normalize(loc.Address.PostalCode), normalized) {
			return true
		}
	}
	return false
}
