package repo

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/pkordes/medtransport/internal/domain"
)

// table is an in-memory registry keyed by sequential id. Records are never
// deleted, so walking 1..lastID yields them in id order.
type table[T any] struct {
	mu     sync.RWMutex
	lastID int64
	rows   map[int64]T
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: map[int64]T{}}
}

// insert assigns the next id, stores the record built for it and returns it.
func (t *table[T]) insert(build func(id int64) T) T {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastID++
	rec := build(t.lastID)
	t.rows[t.lastID] = rec
	return rec
}

func (t *table[T]) get(id int64) (T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	rec, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, domain.ErrNotFound
	}
	return rec, nil
}

// modify reads the record, lets fn derive its replacement and writes that
// back, all under the write lock. When fn fails nothing is written.
func (t *table[T]) modify(id int64, fn func(T) (T, error)) (T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	var zero T
	rec, ok := t.rows[id]
	if !ok {
		return zero, domain.ErrNotFound
	}
	next, err := fn(rec)
	if err != nil {
		return zero, err
	}
	t.rows[id] = next
	return next, nil
}

// page returns the records accepted by match, in id order, limited to p.
// A nil match accepts everything.
func (t *table[T]) page(match func(T) bool, p *domain.PaginationParams) ([]T, int64) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := []T{}
	var total int64
	for id := int64(1); id <= t.lastID; id++ {
		rec, ok := t.rows[id]
		if !ok || (match != nil && !match(rec)) {
			continue
		}
		total++
		if p != nil && (total <= int64(p.Offset()) || len(out) >= p.Limit) {
			continue
		}
		out = append(out, rec)
	}
	return out, total
}

// ---- patients --------------------------------------------------------------

// memPatientRepo is the in-memory implementation of PatientRepo.
type memPatientRepo struct {
	t *table[domain.Patient]
}

// NewMemPatientRepo returns an empty in-memory PatientRepo.
// Instantiate one per test so registries never leak between tests.
func NewMemPatientRepo() PatientRepo {
	return &memPatientRepo{t: newTable[domain.Patient]()}
}

func (r *memPatientRepo) Create(_ context.Context, pr domain.PatientProfile) (domain.Patient, error) {
	return r.t.insert(func(id int64) domain.Patient {
		return domain.Patient{ID: id, PatientProfile: pr, Active: true}
	}), nil
}

func (r *memPatientRepo) GetByID(_ context.Context, id int64) (domain.Patient, error) {
	p, err := r.t.get(id)
	if err != nil {
		return domain.Patient{}, fmt.Errorf("repo.MemPatientRepo.GetByID: %w", err)
	}
	return p, nil
}

func (r *memPatientRepo) ListPaged(_ context.Context, p domain.PaginationParams) ([]domain.Patient, int64, error) {
	items, total := r.t.page(nil, &p)
	return items, total, nil
}

func (r *memPatientRepo) Update(_ context.Context, id int64, pr domain.PatientProfile) (domain.Patient, error) {
	p, err := r.t.modify(id, func(cur domain.Patient) (domain.Patient, error) {
		return cur.WithProfile(pr), nil
	})
	if err != nil {
		return domain.Patient{}, fmt.Errorf("repo.MemPatientRepo.Update: %w", err)
	}
	return p, nil
}

func (r *memPatientRepo) SetActive(_ context.Context, id int64, active bool) (domain.Patient, error) {
	p, err := r.t.modify(id, func(cur domain.Patient) (domain.Patient, error) {
		cur.Active = active
		return cur, nil
	})
	if err != nil {
		return domain.Patient{}, fmt.Errorf("repo.MemPatientRepo.SetActive: %w", err)
	}
	return p, nil
}

// ---- drivers ---------------------------------------------------------------

// memDriverRepo is the in-memory implementation of DriverRepo.
type memDriverRepo struct {
	t *table[domain.Driver]
}

// NewMemDriverRepo returns an empty in-memory DriverRepo.
func NewMemDriverRepo() DriverRepo {
	return &memDriverRepo{t: newTable[domain.Driver]()}
}

func (r *memDriverRepo) Create(_ context.Context, pr domain.DriverProfile) (domain.Driver, error) {
	return r.t.insert(func(id int64) domain.Driver {
		return domain.Driver{ID: id, DriverProfile: pr, Active: true}
	}), nil
}

func (r *memDriverRepo) GetByID(_ context.Context, id int64) (domain.Driver, error) {
	d, err := r.t.get(id)
	if err != nil {
		return domain.Driver{}, fmt.Errorf("repo.MemDriverRepo.GetByID: %w", err)
	}
	return d, nil
}

func (r *memDriverRepo) ListPaged(_ context.Context, p domain.PaginationParams) ([]domain.Driver, int64, error) {
	items, total := r.t.page(nil, &p)
	return items, total, nil
}

func (r *memDriverRepo) Update(_ context.Context, id int64, pr domain.DriverProfile) (domain.Driver, error) {
	d, err := r.t.modify(id, func(cur domain.Driver) (domain.Driver, error) {
		return cur.WithProfile(pr), nil
	})
	if err != nil {
		return domain.Driver{}, fmt.Errorf("repo.MemDriverRepo.Update: %w", err)
	}
	return d, nil
}

func (r *memDriverRepo) SetRating(_ context.Context, id int64, rating int) (domain.Driver, error) {
	d, err := r.t.modify(id, func(cur domain.Driver) (domain.Driver, error) {
		cur.Rating = rating
		return cur, nil
	})
	if err != nil {
		return domain.Driver{}, fmt.Errorf("repo.MemDriverRepo.SetRating: %w", err)
	}
	return d, nil
}

// ---- trips -----------------------------------------------------------------

// memTripRepo is the in-memory implementation of TripRepo. Stored trips own
// their slices and pointers; every read and write goes through cloneTrip.
type memTripRepo struct {
	t *table[domain.Trip]
}

// NewMemTripRepo returns an empty in-memory TripRepo.
func NewMemTripRepo() TripRepo {
	return &memTripRepo{t: newTable[domain.Trip]()}
}

func (r *memTripRepo) Create(_ context.Context, trip domain.Trip) (domain.Trip, error) {
	created := r.t.insert(func(id int64) domain.Trip {
		return cloneTrip(domain.Trip{
			ID:        id,
			PatientID: trip.PatientID,
			DriverID:  trip.DriverID,
			TripPlan:  trip.TripPlan,
			Status:    domain.TripScheduled,
		})
	})
	return cloneTrip(created), nil
}

func (r *memTripRepo) GetByID(_ context.Context, id int64) (domain.Trip, error) {
	trip, err := r.t.get(id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.MemTripRepo.GetByID: %w", err)
	}
	return cloneTrip(trip), nil
}

func (r *memTripRepo) List(_ context.Context, f domain.TripFilter) ([]domain.Trip, error) {
	items, _ := r.t.page(tripMatcher(f), nil)
	return cloneTrips(items), nil
}

func (r *memTripRepo) ListPaged(_ context.Context, f domain.TripFilter, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	items, total := r.t.page(tripMatcher(f), &p)
	return cloneTrips(items), total, nil
}

func (r *memTripRepo) UpdatePlan(_ context.Context, id int64, plan domain.TripPlan) (domain.Trip, error) {
	trip, err := r.t.modify(id, func(cur domain.Trip) (domain.Trip, error) {
		if !cur.Status.Editable() {
			return cur, fmt.Errorf("%w: cannot update a trip that is %s", domain.ErrTransition, cur.Status)
		}
		cur.TripPlan = plan
		return cloneTrip(cur), nil
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.MemTripRepo.UpdatePlan: %w", err)
	}
	return cloneTrip(trip), nil
}

func (r *memTripRepo) Transition(_ context.Context, id int64, action domain.TripAction, height uint64) (domain.Trip, error) {
	trip, err := r.t.modify(id, func(cur domain.Trip) (domain.Trip, error) {
		return cur.Apply(action, height)
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.MemTripRepo.Transition: %w", err)
	}
	return cloneTrip(trip), nil
}

func tripMatcher(f domain.TripFilter) func(domain.Trip) bool {
	if f.Status == nil {
		return nil
	}
	want := *f.Status
	return func(t domain.Trip) bool { return t.Status == want }
}

func cloneTrip(t domain.Trip) domain.Trip {
	t.RequiredEquipment = idList(slices.Clone(t.RequiredEquipment))
	if t.ActualPickupTime != nil {
		h := *t.ActualPickupTime
		t.ActualPickupTime = &h
	}
	if t.ActualDropoffTime != nil {
		h := *t.ActualDropoffTime
		t.ActualDropoffTime = &h
	}
	return t
}

func cloneTrips(trips []domain.Trip) []domain.Trip {
	for i := range trips {
		trips[i] = cloneTrip(trips[i])
	}
	return trips
}

// ---- equipment -------------------------------------------------------------

// memEquipmentRepo is the in-memory implementation of EquipmentRepo.
type memEquipmentRepo struct {
	t *table[domain.Equipment]

	mu       sync.RWMutex
	vehicles map[string][]int64
}

// NewMemEquipmentRepo returns an empty in-memory EquipmentRepo.
func NewMemEquipmentRepo() EquipmentRepo {
	return &memEquipmentRepo{
		t:        newTable[domain.Equipment](),
		vehicles: map[string][]int64{},
	}
}

func (r *memEquipmentRepo) Create(_ context.Context, spec domain.EquipmentSpec, height uint64) (domain.Equipment, error) {
	return r.t.insert(func(id int64) domain.Equipment {
		return domain.Equipment{ID: id, EquipmentSpec: spec, LastMaintenance: height, Active: true}
	}), nil
}

func (r *memEquipmentRepo) GetByID(_ context.Context, id int64) (domain.Equipment, error) {
	e, err := r.t.get(id)
	if err != nil {
		return domain.Equipment{}, fmt.Errorf("repo.MemEquipmentRepo.GetByID: %w", err)
	}
	return e, nil
}

func (r *memEquipmentRepo) ListPaged(_ context.Context, p domain.PaginationParams) ([]domain.Equipment, int64, error) {
	items, total := r.t.page(nil, &p)
	return items, total, nil
}

func (r *memEquipmentRepo) Update(_ context.Context, id int64, spec domain.EquipmentSpec) (domain.Equipment, error) {
	return r.modify("Update", id, func(cur domain.Equipment) domain.Equipment {
		return cur.WithSpec(spec)
	})
}

func (r *memEquipmentRepo) RecordMaintenance(_ context.Context, id int64, height uint64) (domain.Equipment, error) {
	return r.modify("RecordMaintenance", id, func(cur domain.Equipment) domain.Equipment {
		cur.LastMaintenance = height
		return cur
	})
}

func (r *memEquipmentRepo) SetActive(_ context.Context, id int64, active bool) (domain.Equipment, error) {
	return r.modify("SetActive", id, func(cur domain.Equipment) domain.Equipment {
		cur.Active = active
		return cur
	})
}

func (r *memEquipmentRepo) modify(op string, id int64, fn func(domain.Equipment) domain.Equipment) (domain.Equipment, error) {
	e, err := r.t.modify(id, func(cur domain.Equipment) (domain.Equipment, error) {
		return fn(cur), nil
	})
	if err != nil {
		return domain.Equipment{}, fmt.Errorf("repo.MemEquipmentRepo.%s: %w", op, err)
	}
	return e, nil
}

func (r *memEquipmentRepo) AssignToVehicle(_ context.Context, ve domain.VehicleEquipment) (domain.VehicleEquipment, error) {
	list := idList(slices.Clone(ve.EquipmentList))
	r.mu.Lock()
	r.vehicles[ve.VehicleID] = list
	r.mu.Unlock()
	return domain.VehicleEquipment{VehicleID: ve.VehicleID, EquipmentList: slices.Clone(list)}, nil
}

func (r *memEquipmentRepo) GetVehicleEquipment(_ context.Context, vehicleID string) (domain.VehicleEquipment, error) {
	r.mu.RLock()
	list, ok := r.vehicles[vehicleID]
	r.mu.RUnlock()
	if !ok {
		return domain.VehicleEquipment{}, fmt.Errorf("repo.MemEquipmentRepo.GetVehicleEquipment: %w", domain.ErrNotFound)
	}
	return domain.VehicleEquipment{VehicleID: vehicleID, EquipmentList: slices.Clone(list)}, nil
}
