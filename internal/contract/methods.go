package contract

import (
	"context"

	"github.com/pkordes/medtransport/internal/domain"
)

// getter builds a read-only method taking a single id and returning the
// ledger view of the record.
func getter[T any](get func(context.Context, int64) (T, error), view func(T) Record) method {
	return method{arity: 1, readOnly: true, fn: func(ctx context.Context, a args) (any, error) {
		id, err := a.id(0)
		if err != nil {
			return nil, err
		}
		rec, err := get(ctx, id)
		if err != nil {
			return nil, err
		}
		return view(rec), nil
	}}
}

// check builds a read-only method taking a single id and returning a bool.
func check(fn func(context.Context, int64) (bool, error)) method {
	return method{arity: 1, readOnly: true, fn: func(ctx context.Context, a args) (any, error) {
		id, err := a.id(0)
		if err != nil {
			return nil, err
		}
		return fn(ctx, id)
	}}
}

// action builds a state-changing method taking a single id. It returns true.
func action[T any](fn func(context.Context, int64) (T, error)) method {
	return method{arity: 1, fn: func(ctx context.Context, a args) (any, error) {
		id, err := a.id(0)
		if err != nil {
			return nil, err
		}
		if _, err := fn(ctx, id); err != nil {
			return nil, err
		}
		return true, nil
	}}
}

// ---- patient-registration --------------------------------------------------

// patientProfile reads name, address, contact, medical condition, mobility
// requirements, special needs and emergency contact starting at from.
func patientProfile(a args, from int) (domain.PatientProfile, error) {
	s, err := a.strings(from, 7)
	if err != nil {
		return domain.PatientProfile{}, err
	}
	return domain.PatientProfile{
		Name:                 s[0],
		Address:              s[1],
		Contact:              s[2],
		MedicalCondition:     s[3],
		MobilityRequirements: s[4],
		SpecialNeeds:         s[5],
		EmergencyContact:     s[6],
	}, nil
}

func patientMethods(p Patients) map[string]method {
	return map[string]method{
		"register-patient": {arity: 7, fn: func(ctx context.Context, a args) (any, error) {
			pr, err := patientProfile(a, 0)
			if err != nil {
				return nil, err
			}
			created, err := p.Register(ctx, pr)
			if err != nil {
				return nil, err
			}
			return created.ID, nil
		}},
		"get-patient": getter(p.Get, patientRecord),
		"update-patient": {arity: 8, fn: func(ctx context.Context, a args) (any, error) {
			id, err := a.id(0)
			if err != nil {
				return nil, err
			}
			pr, err := patientProfile(a, 1)
			if err != nil {
				return nil, err
			}
			if _, err := p.Update(ctx, id, pr); err != nil {
				return nil, err
			}
			return true, nil
		}},
		"deactivate-patient": action(p.Deactivate),
		"reactivate-patient": action(p.Reactivate),
	}
}

// ---- driver-verification ---------------------------------------------------

// driverProfile reads name, license, medical training, vehicle id, contact,
// certification expiry and background check starting at from.
func driverProfile(a args, from int) (domain.DriverProfile, error) {
	s, err := a.strings(from, 5)
	if err != nil {
		return domain.DriverProfile{}, err
	}
	expiry, err := a.height(from + 5)
	if err != nil {
		return domain.DriverProfile{}, err
	}
	background, err := a.bool(from + 6)
	if err != nil {
		return domain.DriverProfile{}, err
	}
	return domain.DriverProfile{
		Name:                s[0],
		License:             s[1],
		MedicalTraining:     s[2],
		VehicleID:           s[3],
		Contact:             s[4],
		CertificationExpiry: expiry,
		BackgroundCheck:     background,
	}, nil
}

func driverMethods(d Drivers) map[string]method {
	return map[string]method{
		"register-driver": {arity: 7, fn: func(ctx context.Context, a args) (any, error) {
			pr, err := driverProfile(a, 0)
			if err != nil {
				return nil, err
			}
			created, err := d.Register(ctx, pr)
			if err != nil {
				return nil, err
			}
			return created.ID, nil
		}},
		"get-driver": getter(d.Get, driverRecord),
		"update-driver": {arity: 8, fn: func(ctx context.Context, a args) (any, error) {
			id, err := a.id(0)
			if err != nil {
				return nil, err
			}
			pr, err := driverProfile(a, 1)
			if err != nil {
				return nil, err
			}
			if _, err := d.Update(ctx, id, pr); err != nil {
				return nil, err
			}
			return true, nil
		}},
		"is-certification-valid": check(d.IsCertificationValid),
		"rate-driver": {arity: 2, fn: func(ctx context.Context, a args) (any, error) {
			id, err := a.id(0)
			if err != nil {
				return nil, err
			}
			rating, err := a.int(1)
			if err != nil {
				return nil, err
			}
			if _, err := d.Rate(ctx, id, rating); err != nil {
				return nil, err
			}
			return true, nil
		}},
	}
}

// ---- trip-coordination -----------------------------------------------------

// tripPlan reads pickup location, destination, scheduled time, required
// equipment and notes starting at from.
func tripPlan(a args, from int) (domain.TripPlan, error) {
	s, err := a.strings(from, 2)
	if err != nil {
		return domain.TripPlan{}, err
	}
	scheduled, err := a.height(from + 2)
	if err != nil {
		return domain.TripPlan{}, err
	}
	equipment, err := a.ids(from + 3)
	if err != nil {
		return domain.TripPlan{}, err
	}
	notes, err := a.string(from + 4)
	if err != nil {
		return domain.TripPlan{}, err
	}
	return domain.TripPlan{
		PickupLocation:    s[0],
		Destination:       s[1],
		ScheduledTime:     scheduled,
		RequiredEquipment: equipment,
		Notes:             notes,
	}, nil
}

func tripMethods(t Trips) map[string]method {
	return map[string]method{
		"schedule-trip": {arity: 7, fn: func(ctx context.Context, a args) (any, error) {
			patientID, err := a.id(0)
			if err != nil {
				return nil, err
			}
			driverID, err := a.id(1)
			if err != nil {
				return nil, err
			}
			plan, err := tripPlan(a, 2)
			if err != nil {
				return nil, err
			}
			created, err := t.Schedule(ctx, domain.Trip{PatientID: patientID, DriverID: driverID, TripPlan: plan})
			if err != nil {
				return nil, err
			}
			return created.ID, nil
		}},
		"get-trip":      getter(t.Get, tripRecord),
		"start-trip":    action(t.Start),
		"complete-trip": action(t.Complete),
		"cancel-trip":   action(t.Cancel),
		"update-trip": {arity: 6, fn: func(ctx context.Context, a args) (any, error) {
			id, err := a.id(0)
			if err != nil {
				return nil, err
			}
			plan, err := tripPlan(a, 1)
			if err != nil {
				return nil, err
			}
			if _, err := t.Update(ctx, id, plan); err != nil {
				return nil, err
			}
			return true, nil
		}},
	}
}

// ---- medical-equipment -----------------------------------------------------

// equipmentSpec reads name, description, certification required and
// maintenance interval starting at from.
func equipmentSpec(a args, from int) (domain.EquipmentSpec, error) {
	s, err := a.strings(from, 2)
	if err != nil {
		return domain.EquipmentSpec{}, err
	}
	certRequired, err := a.bool(from + 2)
	if err != nil {
		return domain.EquipmentSpec{}, err
	}
	interval, err := a.height(from + 3)
	if err != nil {
		return domain.EquipmentSpec{}, err
	}
	return domain.EquipmentSpec{
		Name:                  s[0],
		Description:           s[1],
		CertificationRequired: certRequired,
		MaintenanceInterval:   interval,
	}, nil
}

func equipmentMethods(e Equipment) map[string]method {
	return map[string]method{
		"register-equipment": {arity: 4, fn: func(ctx context.Context, a args) (any, error) {
			spec, err := equipmentSpec(a, 0)
			if err != nil {
				return nil, err
			}
			created, err := e.Register(ctx, spec)
			if err != nil {
				return nil, err
			}
			return created.ID, nil
		}},
		"get-equipment": getter(e.Get, equipmentRecord),
		"update-equipment": {arity: 5, fn: func(ctx context.Context, a args) (any, error) {
			id, err := a.id(0)
			if err != nil {
				return nil, err
			}
			spec, err := equipmentSpec(a, 1)
			if err != nil {
				return nil, err
			}
			if _, err := e.Update(ctx, id, spec); err != nil {
				return nil, err
			}
			return true, nil
		}},
		"record-maintenance": action(e.RecordMaintenance),
		"is-maintenance-due": check(e.IsMaintenanceDue),
		"assign-equipment-to-vehicle": {arity: 2, fn: func(ctx context.Context, a args) (any, error) {
			vehicleID, err := a.string(0)
			if err != nil {
				return nil, err
			}
			equipment, err := a.ids(1)
			if err != nil {
				return nil, err
			}
			if _, err := e.AssignToVehicle(ctx, vehicleID, equipment); err != nil {
				return nil, err
			}
			return true, nil
		}},
		"get-vehicle-equipment": {arity: 1, readOnly: true, fn: func(ctx context.Context, a args) (any, error) {
			vehicleID, err := a.string(0)
			if err != nil {
				return nil, err
			}
			ve, err := e.VehicleEquipment(ctx, vehicleID)
			if err != nil {
				return nil, err
			}
			return vehicleRecord(ve), nil
		}},
		"deactivate-equipment": action(e.Deactivate),
		"reactivate-equipment": action(e.Reactivate),
	}
}
