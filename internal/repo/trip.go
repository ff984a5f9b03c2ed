package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/medtransport/internal/domain"
)

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

const tripColumns = `id, patient_id, driver_id, pickup_location, destination, scheduled_time,
		required_equipment, notes, status, actual_pickup_time, actual_dropoff_time`

func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		WITH next AS (
			UPDATE registry_counters SET last_id = last_id + 1
			WHERE name = 'trips'
			RETURNING last_id
		)
		INSERT INTO trips (id, patient_id, driver_id, pickup_location, destination,
			scheduled_time, required_equipment, notes, status)
		VALUES ((SELECT last_id FROM next), @patient_id, @driver_id, @pickup_location,
			@destination, @scheduled_time, @required_equipment, @notes, 'scheduled')
		RETURNING ` + tripColumns

	args := planArgs(trip.TripPlan)
	args["patient_id"] = trip.PatientID
	args["driver_id"] = trip.DriverID

	result, err := scanTrip(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) GetByID(ctx context.Context, id int64) (domain.Trip, error) {
	q := `SELECT ` + tripColumns + ` FROM trips WHERE id = @id`

	result, err := scanTrip(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return result, nil
}

// List returns every trip matching f ordered by id.
func (r *pgTripRepo) List(ctx context.Context, f domain.TripFilter) ([]domain.Trip, error) {
	q := `SELECT ` + tripColumns + ` FROM trips
		WHERE (@status::text IS NULL OR status = @status::text)
		ORDER BY id`

	rows, err := r.db.Query(ctx, q, filterArgs(f))
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.List: %w", err)
	}
	trips, err := collect(rows, scanTrip)
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.List: scan: %w", err)
	}
	return trips, nil
}

func (r *pgTripRepo) ListPaged(ctx context.Context, f domain.TripFilter, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	args := filterArgs(f)

	var total int64
	const countQ = `SELECT count(*) FROM trips WHERE (@status::text IS NULL OR status = @status::text)`
	if err := r.db.QueryRow(ctx, countQ, args).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListPaged: count: %w", err)
	}

	q := `SELECT ` + tripColumns + ` FROM trips
		WHERE (@status::text IS NULL OR status = @status::text)
		ORDER BY id
		LIMIT @limit OFFSET @offset`
	args["limit"] = p.Limit
	args["offset"] = p.Offset()

	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListPaged: %w", err)
	}
	trips, err := collect(rows, scanTrip)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListPaged: scan: %w", err)
	}
	return trips, total, nil
}

// UpdatePlan only matches scheduled trips. When nothing matches, a follow-up
// read tells a missing trip apart from one that is already underway.
func (r *pgTripRepo) UpdatePlan(ctx context.Context, id int64, plan domain.TripPlan) (domain.Trip, error) {
	const q = `
		UPDATE trips
		SET pickup_location    = @pickup_location,
		    destination        = @destination,
		    scheduled_time     = @scheduled_time,
		    required_equipment = @required_equipment,
		    notes              = @notes,
		    updated_at         = now()
		WHERE id = @id AND status = 'scheduled'
		RETURNING ` + tripColumns

	args := planArgs(plan)
	args["id"] = id

	result, err := scanTrip(r.db.QueryRow(ctx, q, args))
	if errors.Is(err, domain.ErrNotFound) {
		err = r.rejected(ctx, id, "update")
	}
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.UpdatePlan: %w", err)
	}
	return result, nil
}

// Transition is a compare-and-set on status: the row is only updated while it
// is still in the action's source state.
func (r *pgTripRepo) Transition(ctx context.Context, id int64, action domain.TripAction, height uint64) (domain.Trip, error) {
	from, to, ok := action.Transition()
	if !ok {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Transition: %w: unknown trip action %q", domain.ErrInvalid, action)
	}

	const q = `
		UPDATE trips
		SET status              = @to,
		    actual_pickup_time  = CASE WHEN @to = 'in_progress' THEN @height ELSE actual_pickup_time END,
		    actual_dropoff_time = CASE WHEN @to = 'completed' THEN @height ELSE actual_dropoff_time END,
		    updated_at          = now()
		WHERE id = @id AND status = @from
		RETURNING ` + tripColumns

	args := pgx.NamedArgs{
		"id":     id,
		"from":   string(from),
		"to":     string(to),
		"height": int64(height),
	}

	result, err := scanTrip(r.db.QueryRow(ctx, q, args))
	if errors.Is(err, domain.ErrNotFound) {
		err = r.rejected(ctx, id, string(action))
	}
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Transition: %w", err)
	}
	return result, nil
}

// rejected explains why a conditional update on trip id matched no row.
func (r *pgTripRepo) rejected(ctx context.Context, id int64, op string) error {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: cannot %s a trip that is %s", domain.ErrTransition, op, current.Status)
}

func planArgs(plan domain.TripPlan) pgx.NamedArgs {
	return pgx.NamedArgs{
		"pickup_location":    plan.PickupLocation,
		"destination":        plan.Destination,
		"scheduled_time":     int64(plan.ScheduledTime),
		"required_equipment": idList(plan.RequiredEquipment),
		"notes":              plan.Notes,
	}
}

func filterArgs(f domain.TripFilter) pgx.NamedArgs {
	var status *string
	if f.Status != nil {
		s := string(*f.Status)
		status = &s
	}
	return pgx.NamedArgs{"status": status}
}

// scanTrip maps a single row selected with tripColumns, handling the nullable
// actual times and the equipment array.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t         domain.Trip
		scheduled int64
		status    string
		pickup    pgtype.Int8
		dropoff   pgtype.Int8
	)
	err := s.Scan(&t.ID, &t.PatientID, &t.DriverID, &t.PickupLocation, &t.Destination,
		&scheduled, &t.RequiredEquipment, &t.Notes, &status, &pickup, &dropoff)
	if err != nil {
		return domain.Trip{}, notFound(err)
	}
	t.ScheduledTime = uint64(scheduled)
	t.Status = domain.TripStatus(status)
	t.ActualPickupTime = optHeight(pickup)
	t.ActualDropoffTime = optHeight(dropoff)
	t.RequiredEquipment = idList(t.RequiredEquipment)
	return t, nil
}
