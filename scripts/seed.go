// Command seed loads a small set of published physician profiles into
// PostgreSQL (and the Typesense suggest collection when available) for local
// development. Set RESET_DB=true to truncate the physician tables first.
package main

import (
	"context"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/allergycanada/find-allergist/backend/internal/adapters/database"
	"github.com/allergycanada/find-allergist/backend/internal/adapters/search"
	"github.com/allergycanada/find-allergist/backend/internal/domain/entities"
	"github.com/allergycanada/find-allergist/backend/internal/infrastructure/clients/postgres"
	"github.com/allergycanada/find-allergist/backend/internal/infrastructure/clients/typesense"
	"github.com/allergycanada/find-allergist/backend/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to DB")
	}
	defer pgClient.Close()

	var indexAdapter *search.TypesenseAdapter
	if tsClient, err := typesense.NewClient(&cfg.Typesense); err == nil {
		indexAdapter = search.NewTypesenseAdapter(tsClient)
		if err := indexAdapter.InitSchema(context.Background()); err != nil {
			log.Warn().Err(err).Msg("failed to init Typesense schema")
		}
	} else {
		log.Warn().Err(err).Msg("Typesense unavailable, seeding database only")
	}

	physicianAdapter := database.NewPhysicianAdapter(pgClient)
	ctx := context.Background()

	if os.Getenv("RESET_DB") == "true" {
		log.Info().Msg("RESET_DB=true detected, truncating tables before seeding")
		_, err := pgClient.DB().ExecContext(ctx, `
			TRUNCATE TABLE
				practice_locations,
				physicians
			RESTART IDENTITY CASCADE
		`)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to truncate tables")
		}
	}

	for _, physician := range samplePhysicians() {
		if err := physicianAdapter.Create(ctx, physician); err != nil {
			log.Error().Err(err).Str("name", physician.DisplayName).Msg("failed to seed physician")
			continue
		}
		if indexAdapter != nil && physician.Published {
			if err := indexAdapter.Index(ctx, physician); err != nil {
				log.Warn().Err(err).Str("name", physician.DisplayName).Msg("failed to index physician")
			}
		}
		log.Info().Str("id", physician.ID).Str("name", physician.DisplayName).Msg("seeded physician")
	}

	log.Info().Msg("seeding complete")
}

func samplePhysicians() []*entities.Physician {
	return []*entities.Physician{
		{
			ID:          uuid.NewString(),
			DisplayName: "Dr. Jane Smith",
			Credentials: "MD, FRCPC",
			Population:  entities.PopulationAll,
			OffersOIT:   true,
			SpecialInterests: []string{
				"food allergy",
				"oral immunotherapy",
			},
			Published: true,
			Locations: []entities.PracticeLocation{
				{
					Institution: "Toronto Allergy Centre",
					Address: entities.Address{
						Street:     "123 University Ave",
						City:       "Toronto",
						Province:   "ON",
						PostalCode: "M5V3L9",
						Country:    "Canada",
					},
					Phone:            "416-555-0101",
					Geo:              &entities.Location{Latitude: 43.6532, Longitude: -79.3832},
					PracticeSettings: []string{"community"},
					ConsultationServices: []string{
						"skin testing",
						"food challenges",
					},
				},
			},
		},
		{
			ID:          uuid.NewString(),
			DisplayName: "Dr. Pierre Tremblay",
			Credentials: "MD, FRCPC",
			Population:  entities.PopulationPediatric,
			OffersOIT:   false,
			SpecialInterests: []string{
				"asthma",
				"drug allergy",
			},
			Published: true,
			Locations: []entities.PracticeLocation{
				{
					Institution: "Hôpital Sainte-Justine",
					Address: entities.Address{
						Street:     "3175 Chemin de la Côte-Sainte-Catherine",
						City:       "Montreal",
						Province:   "QC",
						PostalCode: "H3T1C5",
						Country:    "Canada",
					},
					Phone:             "514-555-0102",
					Geo:               &entities.Location{Latitude: 45.5017, Longitude: -73.5673},
					PracticeSettings:  []string{"academic"},
					ClinicalTrialSite: true,
				},
			},
		},
		{
			ID:          uuid.NewString(),
			DisplayName: "Dr. Anita Rao",
			Credentials: "MD",
			Population:  entities.PopulationAdults,
			OffersOIT:   true,
			Published:   true,
			Locations: []entities.PracticeLocation{
				{
					Institution: "Ottawa Allergy Clinic",
					Address: entities.Address{
						Street:     "501 Smyth Rd",
						City:       "Ottawa",
						Province:   "ON",
						PostalCode: "K1H8L6",
						Country:    "Canada",
					},
					Phone: "613-555-0103",
					Geo:   &entities.Location{Latitude: 45.4215, Longitude: -75.6972},
				},
				{
					Institution: "Kingston Satellite Clinic",
					Address: entities.Address{
						Street:     "76 Stuart St",
						City:       "Kingston",
						Province:   "ON",
						PostalCode: "K7L2V7",
						Country:    "Canada",
					},
					Phone: "613-555-0104",
					Geo:   &entities.Location{Latitude: 44.2253, Longitude: -76.4951},
				},
			},
		},
		{
			// Unpublished draft profile; invisible to search until published.
			ID:          uuid.NewString(),
			DisplayName: "Dr. Sam Lee",
			Population:  entities.PopulationAll,
			Published:   false,
			Locations: []entities.PracticeLocation{
				{
					Institution: "Vancouver Allergy Associates",
					Address: entities.Address{
						City:       "Vancouver",
						Province:   "BC",
						PostalCode: "V6B1A1",
						Country:    "Canada",
					},
				},
			},
		},
	}
}
