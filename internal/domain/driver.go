package domain

// MaxRating is the highest rating a driver can receive. Ratings are 0..MaxRating.
const MaxRating = 5

// DriverProfile holds the editable credential fields of a driver record.
type DriverProfile struct {
	Name            string `json:"name"`
	License         string `json:"license"`
	MedicalTraining string `json:"medicalTraining"`
	VehicleID       string `json:"vehicleId"`
	Contact         string `json:"contact"`
	// CertificationExpiry is the block height at which certification lapses.
	CertificationExpiry uint64 `json:"certificationExpiry"`
	BackgroundCheck     bool   `json:"backgroundCheck"`
}

// Driver is a registered driver. Active and Rating survive profile updates.
type Driver struct {
	ID int64 `json:"id"`
	DriverProfile
	Active bool `json:"active"`
	Rating int  `json:"rating"`
}

// WithProfile returns a copy of d whose editable fields are replaced by pr.
func (d Driver) WithProfile(pr DriverProfile) Driver {
	d.DriverProfile = pr
	return d
}

// CertificationValidAt reports whether the certification is still valid at
// the given block height. Expiry is exclusive.
func (d Driver) CertificationValidAt(height uint64) bool {
	return height < d.CertificationExpiry
}

// ValidRating reports whether r is within 0..MaxRating.
func ValidRating(r int) bool {
	return r >= 0 && r <= MaxRating
}
