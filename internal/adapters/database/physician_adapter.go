package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"

	"github.com/allergycanada/find-allergist/backend/internal/domain/entities"
	"github.com/allergycanada/find-allergist/backend/internal/domain/repositories"
	"github.com/allergycanada/find-allergist/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/allergycanada/find-allergist/backend/pkg/errors"
)

const (
	physiciansTable = "physicians"
	locationsTable  = "practice_locations"
)

// PhysicianAdapter implements the PhysicianRepository interface
type PhysicianAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewPhysicianAdapter creates a new physician adapter
func NewPhysicianAdapter(client *postgres.Client) repositories.PhysicianRepository {
	return &PhysicianAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates a new physician profile with its practice locations
func (a *PhysicianAdapter) Create(ctx context.Context, physician *entities.Physician) error {
	record := goqu.Record{
		"id":                  physician.ID,
		"display_name":        physician.DisplayName,
		"credentials":         physician.Credentials,
		"practice_population": string(physician.Population),
		"offers_oit":          physician.OffersOIT,
		"special_interests":   pq.Array(physician.SpecialInterests),
		"published":           physician.Published,
		"owner_user_id":       physician.OwnerUserID,
		"created_at":          physician.CreatedAt,
		"updated_at":          physician.UpdatedAt,
	}

	query, args, err := a.db.Insert(physiciansTable).Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	tx, err := a.client.DB().BeginTx(ctx, nil)
	if err != nil {
		return apperrors.NewInternalError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create physician", err)
	}

	if err := a.insertLocations(ctx, tx, physician.ID, physician.Locations); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewInternalError("failed to commit physician", err)
	}
	return nil
}

// GetByID retrieves a physician by ID with locations in priority order
func (a *PhysicianAdapter) GetByID(ctx context.Context, id string) (*entities.Physician, error) {
	query, args, err := a.db.Select(
		"id", "display_name", "credentials", "practice_population",
		"offers_oit", "special_interests", "published", "owner_user_id",
		"created_at", "updated_at",
	).From(physiciansTable).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	physician, err := a.scanPhysician(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("physician with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get physician", err)
	}

	locations, err := a.loadLocations(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	physician.Locations = locations[id]

	return physician, nil
}

// Update updates a physician profile and replaces its locations
func (a *PhysicianAdapter) Update(ctx context.Context, physician *entities.Physician) error {
	physician.UpdatedAt = time.Now()

	record := goqu.Record{
		"display_name":        physician.DisplayName,
		"credentials":         physician.Credentials,
		"practice_population": string(physician.Population),
		"offers_oit":          physician.OffersOIT,
		"special_interests":   pq.Array(physician.SpecialInterests),
		"published":           physician.Published,
		"updated_at":          physician.UpdatedAt,
	}

	query, args, err := a.db.Update(physiciansTable).
		Set(record).
		Where(goqu.Ex{"id": physician.ID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	tx, err := a.client.DB().BeginTx(ctx, nil)
	if err != nil {
		return apperrors.NewInternalError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update physician", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to check update result", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("physician with id %s not found", physician.ID))
	}

	// Locations are replaced wholesale; position preserves priority order.
	delQuery, delArgs, err := a.db.Delete(locationsTable).
		Where(goqu.Ex{"physician_id": physician.ID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}
	if _, err := tx.ExecContext(ctx, delQuery, delArgs...); err != nil {
		return apperrors.NewInternalError("failed to replace practice locations", err)
	}

	if err := a.insertLocations(ctx, tx, physician.ID, physician.Locations); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewInternalError("failed to commit physician update", err)
	}
	return nil
}

// Delete deletes a physician profile
func (a *PhysicianAdapter) Delete(ctx context.Context, id string) error {
	query, args, err := a.db.Delete(physiciansTable).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete physician", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to check delete result", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("physician with id %s not found", id))
	}
	return nil
}

// List retrieves physicians with filters, locations included
func (a *PhysicianAdapter) List(ctx context.Context, filter repositories.PhysicianFilter) ([]*entities.Physician, error) {
	ds := a.db.Select(
		"id", "display_name", "credentials", "practice_population",
		"offers_oit", "special_interests", "published", "owner_user_id",
		"created_at", "updated_at",
	).From(physiciansTable)

	if filter.PublishedOnly {
		ds = ds.Where(goqu.Ex{"published": true})
	}
	ds = ds.Order(goqu.I("display_name").Asc())
	if filter.Limit > 0 {
		ds = ds.Limit(uint(filter.Limit))
	}
	if filter.Offset > 0 {
		ds = ds.Offset(uint(filter.Offset))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list physicians", err)
	}
	defer rows.Close()

	var physicians []*entities.Physician
	var ids []string
	for rows.Next() {
		physician, err := a.scanPhysician(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan physician", err)
		}
		physicians = append(physicians, physician)
		ids = append(ids, physician.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to read physicians", err)
	}

	if len(ids) == 0 {
		return physicians, nil
	}

	locations, err := a.loadLocations(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, physician := range physicians {
		physician.Locations = locations[physician.ID]
	}

	return physicians, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (a *PhysicianAdapter) scanPhysician(row rowScanner) (*entities.Physician, error) {
	physician := &entities.Physician{}
	var credentials, population sql.NullString

	err := row.Scan(
		&physician.ID,
		&physician.DisplayName,
		&credentials,
		&population,
		&physician.OffersOIT,
		pq.Array(&physician.SpecialInterests),
		&physician.Published,
		&physician.OwnerUserID,
		&physician.CreatedAt,
		&physician.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	physician.Credentials = credentials.String
	if pop, ok := entities.ParsePracticePopulation(population.String); ok {
		physician.Population = pop
	}

	return physician, nil
}

func (a *PhysicianAdapter) insertLocations(ctx context.Context, tx *sql.Tx, physicianID string, locations []entities.PracticeLocation) error {
	for position, loc := range locations {
		record := goqu.Record{
			"physician_id":          physicianID,
			"position":              position,
			"institution":           loc.Institution,
			"street":                loc.Address.Street,
			"city":                  loc.Address.City,
			"province":              loc.Address.Province,
			"postal_code":           loc.Address.PostalCode,
			"country":               loc.Address.Country,
			"phone":                 loc.Phone,
			"fax":                   loc.Fax,
			"extension":             loc.Extension,
			"practice_settings":     pq.Array(loc.PracticeSettings),
			"consultation_services": pq.Array(loc.ConsultationServices),
			"clinical_trial_site":   loc.ClinicalTrialSite,
		}
		if loc.Geo != nil {
			record["latitude"] = loc.Geo.Latitude
			record["longitude"] = loc.Geo.Longitude
		} else {
			record["latitude"] = nil
			record["longitude"] = nil
		}

		query, args, err := a.db.Insert(locationsTable).Rows(record).ToSQL()
		if err != nil {
			return apperrors.NewInternalError("failed to build location insert", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return apperrors.NewInternalError("failed to insert practice location", err)
		}
	}
	return nil
}

func (a *PhysicianAdapter) loadLocations(ctx context.Context, physicianIDs []string) (map[string][]entities.PracticeLocation, error) {
	query, args, err := a.db.Select(
		"physician_id", "institution", "street", "city", "province",
		"postal_code", "country", "phone", "fax", "extension",
		"latitude", "longitude", "practice_settings",
		"consultation_services", "clinical_trial_site",
	).From(locationsTable).
		Where(goqu.Ex{"physician_id": physicianIDs}).
		Order(goqu.I("physician_id").Asc(), goqu.I("position").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build locations query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load practice locations", err)
	}
	defer rows.Close()

	locations := make(map[string][]entities.PracticeLocation, len(physicianIDs))
	for rows.Next() {
		var physicianID string
		var loc entities.PracticeLocation
		var phone, fax, extension sql.NullString
		var latitude, longitude sql.NullFloat64

		err := rows.Scan(
			&physicianID,
			&loc.Institution,
			&loc.Address.Street,
			&loc.Address.City,
			&loc.Address.Province,
			&loc.Address.PostalCode,
			&loc.Address.Country,
			&phone,
			&fax,
			&extension,
			&latitude,
			&longitude,
			pq.Array(&loc.PracticeSettings),
			pq.Array(&loc.ConsultationServices),
			&loc.ClinicalTrialSite,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan practice location", err)
		}

		loc.Phone = phone.String
		loc.Fax = fax.String
		loc.Extension = extension.String
		if latitude.Valid && longitude.Valid {
			loc.Geo = &entities.Location{
				Latitude:  latitude.Float64,
				Longitude: longitude.Float64,
			}
		}

		locations[physicianID] = append(locations[physicianID], loc)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to read practice locations", err)
	}

	return locations, nil
}
