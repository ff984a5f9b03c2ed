// Package contract exposes the registries through a method-name call surface:
// a contract name, a method name and a positional argument list in, a tagged
// Result out. It is the in-process stand-in for the external ledger.
package contract

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/medtransport/internal/domain"
)

// Contract names.
const (
	PatientRegistration = "patient-registration"
	DriverVerification  = "driver-verification"
	TripCoordination    = "trip-coordination"
	MedicalEquipment    = "medical-equipment"
)

// Patients is the patient registry as seen by the call surface.
type Patients interface {
	Register(ctx context.Context, pr domain.PatientProfile) (domain.Patient, error)
	Get(ctx context.Context, id int64) (domain.Patient, error)
	Update(ctx context.Context, id int64, pr domain.PatientProfile) (domain.Patient, error)
	Deactivate(ctx context.Context, id int64) (domain.Patient, error)
	Reactivate(ctx context.Context, id int64) (domain.Patient, error)
}

// Drivers is the driver registry as seen by the call surface.
type Drivers interface {
	Register(ctx context.Context, pr domain.DriverProfile) (domain.Driver, error)
	Get(ctx context.Context, id int64) (domain.Driver, error)
	Update(ctx context.Context, id int64, pr domain.DriverProfile) (domain.Driver, error)
	Rate(ctx context.Context, id int64, rating int) (domain.Driver, error)
	IsCertificationValid(ctx context.Context, id int64) (bool, error)
}

// Trips is the trip coordinator as seen by the call surface.
type Trips interface {
	Schedule(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	Get(ctx context.Context, id int64) (domain.Trip, error)
	Update(ctx context.Context, id int64, plan domain.TripPlan) (domain.Trip, error)
	Start(ctx context.Context, id int64) (domain.Trip, error)
	Complete(ctx context.Context, id int64) (domain.Trip, error)
	Cancel(ctx context.Context, id int64) (domain.Trip, error)
}

// Equipment is the equipment registry as seen by the call surface.
type Equipment interface {
	Register(ctx context.Context, spec domain.EquipmentSpec) (domain.Equipment, error)
	Get(ctx context.Context, id int64) (domain.Equipment, error)
	Update(ctx context.Context, id int64, spec domain.EquipmentSpec) (domain.Equipment, error)
	RecordMaintenance(ctx context.Context, id int64) (domain.Equipment, error)
	IsMaintenanceDue(ctx context.Context, id int64) (bool, error)
	Deactivate(ctx context.Context, id int64) (domain.Equipment, error)
	Reactivate(ctx context.Context, id int64) (domain.Equipment, error)
	AssignToVehicle(ctx context.Context, vehicleID string, equipment []int64) (domain.VehicleEquipment, error)
	VehicleEquipment(ctx context.Context, vehicleID string) (domain.VehicleEquipment, error)
}

// method is one callable entry point. arity is the exact number of
// positional arguments; the args passed to fn have already been counted.
type method struct {
	arity    int
	readOnly bool
	fn       func(ctx context.Context, a args) (any, error)
}

// Ledger dispatches calls to the registries.
type Ledger struct {
	contracts map[string]map[string]method
	log       *slog.Logger
}

// NewLedger wires the four contracts. A nil logger means slog.Default.
func NewLedger(p Patients, d Drivers, t Trips, e Equipment, log *slog.Logger) *Ledger {
	if log == nil {
		log = slog.Default()
	}
	return &Ledger{
		contracts: map[string]map[string]method{
			PatientRegistration: patientMethods(p),
			DriverVerification:  driverMethods(d),
			TripCoordination:    tripMethods(t),
			MedicalEquipment:    equipmentMethods(e),
		},
		log: log,
	}
}

// Call invokes contract.method with args. Failures are reported in the
// Result, never returned or panicked.
func (l *Ledger) Call(ctx context.Context, contract, name string, argv ...any) Result {
	return l.call(ctx, contract, name, false, argv)
}

// CallReadOnly is Call restricted to methods that do not change state.
func (l *Ledger) CallReadOnly(ctx context.Context, contract, name string, argv ...any) Result {
	return l.call(ctx, contract, name, true, argv)
}

// Methods lists the method names of contract in sorted order, or nil for an
// unknown contract.
func (l *Ledger) Methods(contract string) []string {
	methods, ok := l.contracts[contract]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(methods))
	for name := range methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (l *Ledger) call(ctx context.Context, contract, name string, readOnly bool, argv []any) Result {
	tx := uuid.New()
	start := time.Now()

	v, err := l.dispatch(ctx, contract, name, readOnly, argv)

	attrs := []any{
		"tx_id", tx.String(),
		"contract", contract,
		"method", name,
		"read_only", readOnly,
		"success", err == nil,
		"duration_ms", time.Since(start).Milliseconds(),
	}
	if err != nil {
		l.log.InfoContext(ctx, "contract call failed", append(attrs, "error", err)...)
		return failed(tx, err)
	}
	l.log.DebugContext(ctx, "contract call", attrs...)
	return ok(tx, v)
}

func (l *Ledger) dispatch(ctx context.Context, contract, name string, readOnly bool, argv []any) (any, error) {
	methods, found := l.contracts[contract]
	if !found {
		return nil, fmt.Errorf("contract %q: %w", contract, domain.ErrNotFound)
	}
	m, found := methods[name]
	if !found {
		return nil, fmt.Errorf("method %s.%s: %w", contract, name, domain.ErrNotFound)
	}
	if readOnly && !m.readOnly {
		return nil, fmt.Errorf("%w: %s.%s is not read-only", domain.ErrInvalid, contract, name)
	}
	if len(argv) != m.arity {
		return nil, fmt.Errorf("%w: %s.%s takes %d arguments, got %d", domain.ErrInvalid, contract, name, m.arity, len(argv))
	}
	return m.fn(ctx, args(argv))
}
