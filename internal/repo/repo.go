// Package repo contains the storage for the four registries. Each registry has
// an interface, a Postgres implementation and an in-memory implementation.
// No business rules live here beyond the compare-and-set on trip status, which
// has to be atomic with the write.
package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/medtransport/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
// Integration tests pass a transaction that is rolled back after each test.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PatientRepo defines the persistence operations for patients.
type PatientRepo interface {
	// Create stores a new active patient under the next sequential id.
	Create(ctx context.Context, profile domain.PatientProfile) (domain.Patient, error)

	// GetByID returns domain.ErrNotFound if no patient has that id.
	GetByID(ctx context.Context, id int64) (domain.Patient, error)

	// ListPaged returns one page of patients ordered by id, and the total count.
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Patient, int64, error)

	// Update replaces the profile of an existing patient, keeping Active.
	Update(ctx context.Context, id int64, profile domain.PatientProfile) (domain.Patient, error)

	// SetActive sets the active flag unconditionally.
	SetActive(ctx context.Context, id int64, active bool) (domain.Patient, error)
}

// DriverRepo defines the persistence operations for drivers.
type DriverRepo interface {
	// Create stores a new active driver with rating 0 under the next sequential id.
	Create(ctx context.Context, profile domain.DriverProfile) (domain.Driver, error)
	GetByID(ctx context.Context, id int64) (domain.Driver, error)
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Driver, int64, error)

	// Update replaces the profile of an existing driver, keeping Active and Rating.
	Update(ctx context.Context, id int64, profile domain.DriverProfile) (domain.Driver, error)

	// SetRating stores rating. Range checks belong to the caller.
	SetRating(ctx context.Context, id int64, rating int) (domain.Driver, error)
}

// TripRepo defines the persistence operations for trips.
type TripRepo interface {
	// Create stores a new scheduled trip under the next sequential id.
	// Status and actual times on the input are ignored.
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	GetByID(ctx context.Context, id int64) (domain.Trip, error)

	// List returns every trip matching f ordered by id.
	List(ctx context.Context, f domain.TripFilter) ([]domain.Trip, error)

	// ListPaged returns one page of trips matching f ordered by id, and the total count.
	ListPaged(ctx context.Context, f domain.TripFilter, p domain.PaginationParams) ([]domain.Trip, int64, error)

	// UpdatePlan replaces the plan of a scheduled trip.
	// Returns domain.ErrInvalid when the trip is no longer scheduled.
	UpdatePlan(ctx context.Context, id int64, plan domain.TripPlan) (domain.Trip, error)

	// Transition applies action at height as a compare-and-set on the current
	// status. Returns domain.ErrInvalid when the trip is not in the source state.
	Transition(ctx context.Context, id int64, action domain.TripAction, height uint64) (domain.Trip, error)
}

// EquipmentRepo defines the persistence operations for equipment and vehicle assignments.
type EquipmentRepo interface {
	// Create stores new active equipment under the next sequential id with
	// LastMaintenance set to height.
	Create(ctx context.Context, spec domain.EquipmentSpec, height uint64) (domain.Equipment, error)
	GetByID(ctx context.Context, id int64) (domain.Equipment, error)
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Equipment, int64, error)

	// Update replaces the editable fields, keeping LastMaintenance and Active.
	Update(ctx context.Context, id int64, spec domain.EquipmentSpec) (domain.Equipment, error)
	RecordMaintenance(ctx context.Context, id int64, height uint64) (domain.Equipment, error)
	SetActive(ctx context.Context, id int64, active bool) (domain.Equipment, error)

	// AssignToVehicle replaces the equipment list of a vehicle.
	AssignToVehicle(ctx context.Context, ve domain.VehicleEquipment) (domain.VehicleEquipment, error)

	// GetVehicleEquipment returns domain.ErrNotFound if the vehicle was never assigned.
	GetVehicleEquipment(ctx context.Context, vehicleID string) (domain.VehicleEquipment, error)
}

// scanner is satisfied by both pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// notFound converts pgx.ErrNoRows into domain.ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

// optHeight converts a nullable BIGINT into an optional block height.
func optHeight(v pgtype.Int8) *uint64 {
	if !v.Valid {
		return nil
	}
	h := uint64(v.Int64)
	return &h
}

// idList never returns nil so array columns receive '{}' rather than NULL.
func idList(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}

// collect scans every row with scan and closes rows.
func collect[T any](rows pgx.Rows, scan func(scanner) (T, error)) ([]T, error) {
	defer rows.Close()
	out := []T{}
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
