package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/allergycanada/find-allergist/backend/internal/domain/entities"
)

func physicianNamed(id, name string) *entities.Physician {
	return &entities.Physician{ID: id, DisplayName: name}
}

func boolPtr(b bool) *bool { return &b }

func TestCandidateFilter_NameMatching(t *testing.T) {
	filter := NewCandidateFilter()
	records := []*entities.Physician{
		physicianNamed("p1", "Dr. Jane Smith"),
		physicianNamed("p2", "Dr. Robert Smithson"),
		physicianNamed("p3", "Dr. Maria Gonzalez"),
	}

	tests := []struct {
		name    string
		query   string
		wantIDs []string
	}{
		{"exact surname", "Smith", []string{"p1", "p2"}},
		{"title prefix stripped from query", "Dr. Smith", []string{"p1", "p2"}},
		{"word boundary prefix", "Gonz", []string{"p3"}},
		{"misspelling within edit distance", "Jane Smyth", []string{"p1"}},
		{"full name", "Jane Smith", []string{"p1"}},
		{"no match", "Zebrowski-Kowalczyk", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches := filter.Filter(entities.SearchCriteria{Name: tt.query}, records)
			var ids []string
			for _, m := range matches {
				ids = append(ids, m.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestCandidateFilter_EditDistanceThresholdIsFour(t *testing.T) {
	filter := NewCandidateFilter()
	records := []*entities.Physician{physicianNamed("p1", "Dr. Brown")}

	// "brown" vs "brawne" is distance 2, vs "bxxxxn" distance 4, vs a
	// fully different string beyond 4.
	assert.Len(t, filter.Filter(entities.SearchCriteria{Name: "brawne"}, records), 1)
	assert.Len(t, filter.Filter(entities.SearchCriteria{Name: "bxxxxn"}, records), 1)
	assert.Empty(t, filter.Filter(entities.SearchCriteria{Name: "wilkinson-petersburg"}, records))
}

func TestCandidateFilter_LocationFields(t *testing.T) {
	filter := NewCandidateFilter()
	toronto := &entities.Physician{
		ID:          "p1",
		DisplayName: "Dr. Jane Smith",
		Locations: []entities.PracticeLocation{
			{Address: entities.Address{City: "Toronto", Province: "ON", PostalCode: "M5V3L9"}},
		},
	}
	ottawa := &entities.Physician{
		ID:          "p2",
		DisplayName: "Dr. John Doe",
		Locations: []entities.PracticeLocation{
			{Address: entities.Address{City: "Ottawa", Province: "ON", PostalCode: "K1A0A6"}},
		},
	}
	records := []*entities.Physician{toronto, ottawa}

	matches := filter.Filter(entities.SearchCriteria{City: "toron"}, records)
	assert.Len(t, matches, 1)
	assert.Equal(t, "p1", matches[0].ID)

	matches = filter.Filter(entities.SearchCriteria{Province: "ON"}, records)
	assert.Len(t, matches, 2)

	// Postal comparison uses the normalized form regardless of input casing
	// or spacing.
	matches = filter.Filter(entities.SearchCriteria{PostalCode: "k1a 0a6"}, records)
	assert.Len(t, matches, 1)
	assert.Equal(t, "p2", matches[0].ID)

	matches = filter.Filter(entities.SearchCriteria{PostalCode: "M5V"}, records)
	assert.Len(t, matches, 1)
	assert.Equal(t, "p1", matches[0].ID)
}

func TestCandidateFilter_FlagsAndPopulation(t *testing.T) {
	filter := NewCandidateFilter()
	records := []*entities.Physician{
		{ID: "p1", DisplayName: "Dr. A", OffersOIT: true, Population: entities.PopulationPediatric},
		{ID: "p2", DisplayName: "Dr. B", OffersOIT: false, Population: entities.PopulationAdults},
	}

	matches := filter.Filter(entities.SearchCriteria{OffersOIT: boolPtr(true)}, records)
	assert.Len(t, matches, 1)
	assert.Equal(t, "p1", matches[0].ID)

	matches = filter.Filter(entities.SearchCriteria{Population: entities.PopulationAdults}, records)
	assert.Len(t, matches, 1)
	assert.Equal(t, "p2", matches[0].ID)

	// Criteria AND together.
	matches = filter.Filter(entities.SearchCriteria{
		OffersOIT:  boolPtr(true),
		Population: entities.PopulationAdults,
	}, records)
	assert.Empty(t, matches)
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "jane smith", normalizeName("Dr. Jane Smith"))
	assert.Equal(t, "jane smith", normalizeName("dr Jane Smith"))
	assert.Equal(t, "jane smith", normalizeName("  Jane Smith  "))
	assert.Equal(t, "drake wells", normalizeName("Drake Wells"))
}
