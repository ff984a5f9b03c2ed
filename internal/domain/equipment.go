package domain

// EquipmentSpec holds the editable fields of an equipment record.
type EquipmentSpec struct {
	Name                  string `json:"name"`
	Description           string `json:"description"`
	CertificationRequired bool   `json:"certificationRequired"`
	// MaintenanceInterval is the number of blocks between required services.
	MaintenanceInterval uint64 `json:"maintenanceInterval"`
}

// Equipment is a registered piece of medical equipment.
// LastMaintenance is the block height of the most recent service and starts
// at the height the equipment was registered.
type Equipment struct {
	ID int64 `json:"id"`
	EquipmentSpec
	LastMaintenance uint64 `json:"lastMaintenance"`
	Active          bool   `json:"active"`
}

// WithSpec returns a copy of e whose editable fields are replaced by s.
func (e Equipment) WithSpec(s EquipmentSpec) Equipment {
	e.EquipmentSpec = s
	return e
}

// MaintenanceDueAt reports whether the equipment needs service at height,
// i.e. height >= LastMaintenance+MaintenanceInterval without overflowing.
func (e Equipment) MaintenanceDueAt(height uint64) bool {
	return height >= e.LastMaintenance && height-e.LastMaintenance >= e.MaintenanceInterval
}

// VehicleEquipment is the list of equipment assigned to one vehicle.
// Assigning replaces the whole list.
type VehicleEquipment struct {
	VehicleID     string  `json:"vehicleId"`
	EquipmentList []int64 `json:"equipmentList"`
}
