// Package domain contains the core record types for the medical transport
// registries. This package has no dependencies on storage or transport and is
// imported by every other internal package (repo, service, contract, handler).
package domain

// PatientProfile holds the editable fields of a patient record.
// An update replaces the whole profile.
type PatientProfile struct {
	Name                 string `json:"name"`
	Address              string `json:"address"`
	Contact              string `json:"contact"`
	MedicalCondition     string `json:"medicalCondition"`
	MobilityRequirements string `json:"mobilityRequirements"`
	SpecialNeeds         string `json:"specialNeeds"`
	EmergencyContact     string `json:"emergencyContact"`
}

// Patient is a registered patient. Active is true on registration and is only
// changed by deactivate/reactivate, never by a profile update.
type Patient struct {
	ID int64 `json:"id"`
	PatientProfile
	Active bool `json:"active"`
}

// WithProfile returns a copy of p whose editable fields are replaced by pr.
// ID and Active are carried over from p.
func (p Patient) WithProfile(pr PatientProfile) Patient {
	p.PatientProfile = pr
	return p
}
