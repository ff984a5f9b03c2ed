package domain

// ManifestRow is a single row of the trip manifest export.
// It is a flat view of one trip: the required equipment list is flattened to
// its ids and the optional timestamps are nil until set.
type ManifestRow struct {
	TripID            int64      `json:"tripId"`
	PatientID         int64      `json:"patientId"`
	DriverID          int64      `json:"driverId"`
	Status            TripStatus `json:"status"`
	PickupLocation    string     `json:"pickupLocation"`
	Destination       string     `json:"destination"`
	ScheduledTime     uint64     `json:"scheduledTime"`
	ActualPickupTime  *uint64    `json:"actualPickupTime"`
	ActualDropoffTime *uint64    `json:"actualDropoffTime"`
	RequiredEquipment []int64    `json:"requiredEquipment"`
	Notes             string     `json:"notes"`
}
