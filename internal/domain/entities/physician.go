package entities

import "time"

// PracticePopulation categorizes the patient population a physician treats.
type PracticePopulation string

const (
	PopulationAll       PracticePopulation = "all"
	PopulationAdults    PracticePopulation = "adults"
	PopulationPediatric PracticePopulation = "pediatric"
)

// ParsePracticePopulation maps a query/storage value to a known category.
func ParsePracticePopulation(value string) (PracticePopulation, bool) {
	switch PracticePopulation(value) {
	case PopulationAll, PopulationAdults, PopulationPediatric:
		return PracticePopulation(value), true
	}
	return "", false
}

// Physician represents a registered allergist profile.
// Locations are kept in insertion order; that order is the practice priority.
type Physician struct {
	ID               string             `json:"id" db:"id"`
	DisplayName      string             `json:"display_name" db:"display_name"`
	Credentials      string             `json:"credentials,omitempty" db:"credentials"`
	Population       PracticePopulation `json:"practice_population,omitempty" db:"practice_population"`
	OffersOIT        bool               `json:"offers_oit" db:"offers_oit"`
	SpecialInterests []string           `json:"special_interests,omitempty" db:"-"`
	Locations        []PracticeLocation `json:"locations" db:"-"`
	Published        bool               `json:"published" db:"published"`
	OwnerUserID      string             `json:"-" db:"owner_user_id"`
	CreatedAt        time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at" db:"updated_at"`
}

// PracticeLocation is one practice address of a physician.
type PracticeLocation struct {
	Institution          string    `json:"institution" db:"institution"`
	Address              Address   `json:"address" db:"-"`
	Phone                string    `json:"phone,omitempty" db:"phone"`
	Fax                  string    `json:"fax,omitempty" db:"fax"`
	Extension            string    `json:"extension,omitempty" db:"extension"`
	Geo                  *Location `json:"geo,omitempty" db:"-"`
	PracticeSettings     []string  `json:"practice_settings,omitempty" db:"-"`
	ConsultationServices []string  `json:"consultation_services,omitempty" db:"-"`
	ClinicalTrialSite    bool      `json:"clinical_trial_site" db:"clinical_trial_site"`
}

// Address represents a postal address.
type Address struct {
	Street     string `json:"street" db:"street"`
	City       string `json:"city" db:"city"`
	Province   string `json:"province" db:"province"`
	PostalCode string `json:"postal_code" db:"postal_code"`
	Country    string `json:"country" db:"country"`
}

// Location represents geographical coordinates.
type Location struct {
	Latitude  float64 `json:"latitude" db:"latitude"`
	Longitude float64 `json:"longitude" db:"longitude"`
}
