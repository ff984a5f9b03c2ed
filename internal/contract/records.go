package contract

import "github.com/pkordes/medtransport/internal/domain"

// Record is the ledger view of a stored entry: kebab-case keys, as read back
// by get-* methods.
type Record map[string]any

func patientRecord(p domain.Patient) Record {
	return Record{
		"id":                    p.ID,
		"name":                  p.Name,
		"address":               p.Address,
		"contact":               p.Contact,
		"medical-condition":     p.MedicalCondition,
		"mobility-requirements": p.MobilityRequirements,
		"special-needs":         p.SpecialNeeds,
		"emergency-contact":     p.EmergencyContact,
		"active":                p.Active,
	}
}

func driverRecord(d domain.Driver) Record {
	return Record{
		"id":                   d.ID,
		"name":                 d.Name,
		"license":              d.License,
		"medical-training":     d.MedicalTraining,
		"vehicle-id":           d.VehicleID,
		"contact":              d.Contact,
		"certification-expiry": d.CertificationExpiry,
		"background-check":     d.BackgroundCheck,
		"active":               d.Active,
		"rating":               d.Rating,
	}
}

// tripRecord reports unset actual times as nil.
func tripRecord(t domain.Trip) Record {
	return Record{
		"id":                  t.ID,
		"patient-id":          t.PatientID,
		"driver-id":           t.DriverID,
		"pickup-location":     t.PickupLocation,
		"destination":         t.Destination,
		"scheduled-time":      t.ScheduledTime,
		"required-equipment":  t.RequiredEquipment,
		"status":              string(t.Status),
		"notes":               t.Notes,
		"actual-pickup-time":  t.ActualPickupTime,
		"actual-dropoff-time": t.ActualDropoffTime,
	}
}

func equipmentRecord(e domain.Equipment) Record {
	return Record{
		"id":                     e.ID,
		"name":                   e.Name,
		"description":            e.Description,
		"certification-required": e.CertificationRequired,
		"maintenance-interval":   e.MaintenanceInterval,
		"last-maintenance":       e.LastMaintenance,
		"active":                 e.Active,
	}
}

func vehicleRecord(ve domain.VehicleEquipment) Record {
	return Record{
		"vehicle-id":     ve.VehicleID,
		"equipment-list": ve.EquipmentList,
	}
}
