package render

import (
	"github.com/allergycanada/find-allergist/backend/internal/domain/entities"
	"github.com/allergycanada/find-allergist/backend/pkg/postal"
)

// PhysicianGroup is one list heading: a physician with the qualifying
// locations from the current page nested underneath.
type PhysicianGroup struct {
	ID               string         `json:"id"`
	DisplayName      string         `json:"display_name"`
	Credentials      string         `json:"credentials,omitempty"`
	Population       string         `json:"practice_population,omitempty"`
	OffersOIT        bool           `json:"offers_oit"`
	SpecialInterests []string       `json:"special_interests,omitempty"`
	Locations        []LocationView `json:"locations"`
}

// LocationView is one nested location entry of a list group.
type LocationView struct {
	Institution          string             `json:"institution"`
	Street               string             `json:"street,omitempty"`
	City                 string             `json:"city,omitempty"`
	Province             string             `json:"province,omitempty"`
	PostalCode           string             `json:"postal_code,omitempty"`
	Country              string             `json:"country,omitempty"`
	Phone                string             `json:"phone,omitempty"`
	Fax                  string             `json:"fax,omitempty"`
	Extension            string             `json:"extension,omitempty"`
	Geo                  *entities.Location `json:"geo,omitempty"`
	DistanceKm           float64            `json:"distance_km"`
	MarkerKey            string             `json:"marker_key,omitempty"`
	PracticeSettings     []string           `json:"practice_settings,omitempty"`
	ConsultationServices []string           `json:"consultation_services,omitempty"`
	ClinicalTrialSite    bool               `json:"clinical_trial_site"`
}

// GroupByPhysician folds consecutive same-physician items into one group.
// Items arrive distance-sorted; grouping never reorders them, it only merges
// adjacent entries that share a physician.
func GroupByPhysician(items []entities.SearchResultItem) []PhysicianGroup {
	var groups []PhysicianGroup

	for _, item := range items {
		if item.Physician == nil {
			continue
		}
		if len(groups) == 0 || groups[len(groups)-1].ID != item.Physician.ID {
			groups = append(groups, PhysicianGroup{
				ID:               item.Physician.ID,
				DisplayName:      item.Physician.DisplayName,
				Credentials:      item.Physician.Credentials,
				Population:       string(item.Physician.Population),
				OffersOIT:        item.Physician.OffersOIT,
				SpecialInterests: item.Physician.SpecialInterests,
			})
		}

		if item.Location == nil {
			continue
		}

		group := &groups[len(groups)-1]
		group.Locations = append(group.Locations, LocationView{
			Institution:          item.Location.Institution,
			Street:               item.Location.Address.Street,
			City:                 item.Location.Address.City,
			Province:             item.Location.Address.Province,
			PostalCode:           postal.Format(item.Location.Address.PostalCode),
			Country:              item.Location.Address.Country,
			Phone:                item.Location.Phone,
			Fax:                  item.Location.Fax,
			Extension:            item.Location.Extension,
			Geo:                  item.Location.Geo,
			DistanceKm:           item.DistanceKm,
			MarkerKey:            item.MarkerKey,
			PracticeSettings:     item.Location.PracticeSettings,
			ConsultationServices: item.Location.ConsultationServices,
			ClinicalTrialSite:    item.Location.ClinicalTrialSite,
		})
	}

	return groups
}
