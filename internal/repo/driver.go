package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pkordes/medtransport/internal/domain"
)

// pgDriverRepo is the Postgres implementation of DriverRepo.
type pgDriverRepo struct {
	db db
}

// NewDriverRepo constructs a DriverRepo backed by the provided db connection.
func NewDriverRepo(db db) DriverRepo {
	return &pgDriverRepo{db: db}
}

const driverColumns = `id, name, license, medical_training, vehicle_id, contact,
		certification_expiry, background_check, active, rating`

func (r *pgDriverRepo) Create(ctx context.Context, pr domain.DriverProfile) (domain.Driver, error) {
	const q = `
		WITH next AS (
			UPDATE registry_counters SET last_id = last_id + 1
			WHERE name = 'drivers'
			RETURNING last_id
		)
		INSERT INTO drivers (id, name, license, medical_training, vehicle_id, contact,
			certification_expiry, background_check)
		VALUES ((SELECT last_id FROM next), @name, @license, @medical_training, @vehicle_id,
			@contact, @certification_expiry, @background_check)
		RETURNING ` + driverColumns

	result, err := scanDriver(r.db.QueryRow(ctx, q, driverArgs(pr)))
	if err != nil {
		return domain.Driver{}, fmt.Errorf("repo.DriverRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgDriverRepo) GetByID(ctx context.Context, id int64) (domain.Driver, error) {
	q := `SELECT ` + driverColumns + ` FROM drivers WHERE id = @id`

	result, err := scanDriver(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Driver{}, fmt.Errorf("repo.DriverRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgDriverRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Driver, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM drivers`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.DriverRepo.ListPaged: count: %w", err)
	}

	q := `SELECT ` + driverColumns + ` FROM drivers ORDER BY id LIMIT @limit OFFSET @offset`
	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"limit": p.Limit, "offset": p.Offset()})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.DriverRepo.ListPaged: %w", err)
	}
	drivers, err := collect(rows, scanDriver)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.DriverRepo.ListPaged: scan: %w", err)
	}
	return drivers, total, nil
}

// Update overwrites the credential columns; active and rating are untouched.
func (r *pgDriverRepo) Update(ctx context.Context, id int64, pr domain.DriverProfile) (domain.Driver, error) {
	const q = `
		UPDATE drivers
		SET name                 = @name,
		    license              = @license,
		    medical_training     = @medical_training,
		    vehicle_id           = @vehicle_id,
		    contact              = @contact,
		    certification_expiry = @certification_expiry,
		    background_check     = @background_check,
		    updated_at           = now()
		WHERE id = @id
		RETURNING ` + driverColumns

	args := driverArgs(pr)
	args["id"] = id

	result, err := scanDriver(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Driver{}, fmt.Errorf("repo.DriverRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgDriverRepo) SetRating(ctx context.Context, id int64, rating int) (domain.Driver, error) {
	const q = `
		UPDATE drivers SET rating = @rating, updated_at = now()
		WHERE id = @id
		RETURNING ` + driverColumns

	result, err := scanDriver(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "rating": rating}))
	if err != nil {
		return domain.Driver{}, fmt.Errorf("repo.DriverRepo.SetRating: %w", err)
	}
	return result, nil
}

func driverArgs(pr domain.DriverProfile) pgx.NamedArgs {
	return pgx.NamedArgs{
		"name":                 pr.Name,
		"license":              pr.License,
		"medical_training":     pr.MedicalTraining,
		"vehicle_id":           pr.VehicleID,
		"contact":              pr.Contact,
		"certification_expiry": int64(pr.CertificationExpiry),
		"background_check":     pr.BackgroundCheck,
	}
}

func scanDriver(s scanner) (domain.Driver, error) {
	var (
		d      domain.Driver
		expiry int64
		rating int16
	)
	err := s.Scan(&d.ID, &d.Name, &d.License, &d.MedicalTraining, &d.VehicleID, &d.Contact,
		&expiry, &d.BackgroundCheck, &d.Active, &rating)
	if err != nil {
		return domain.Driver{}, notFound(err)
	}
	d.CertificationExpiry = uint64(expiry)
	d.Rating = int(rating)
	return d, nil
}
