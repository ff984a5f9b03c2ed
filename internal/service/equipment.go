package service

import (
	"context"
	"fmt"

	"github.com/pkordes/medtransport/internal/domain"
	"github.com/pkordes/medtransport/internal/ledger"
	"github.com/pkordes/medtransport/internal/repo"
)

// EquipmentService implements the equipment registry and vehicle assignments.
type EquipmentService struct {
	repo  repo.EquipmentRepo
	clock ledger.Clock
}

// NewEquipmentService constructs an EquipmentService.
func NewEquipmentService(r repo.EquipmentRepo, clock ledger.Clock) *EquipmentService {
	return &EquipmentService{repo: r, clock: clock}
}

// Register stores new active equipment whose last maintenance is the current height.
func (s *EquipmentService) Register(ctx context.Context, spec domain.EquipmentSpec) (domain.Equipment, error) {
	if err := validateEquipment(spec); err != nil {
		return domain.Equipment{}, err
	}
	e, err := s.repo.Create(ctx, spec, s.clock.BlockHeight())
	if err != nil {
		return domain.Equipment{}, fmt.Errorf("service.EquipmentService.Register: %w", err)
	}
	return e, nil
}

func (s *EquipmentService) Get(ctx context.Context, id int64) (domain.Equipment, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Equipment{}, fmt.Errorf("service.EquipmentService.Get: %w", err)
	}
	return e, nil
}

func (s *EquipmentService) List(ctx context.Context, p domain.PaginationParams) (domain.Page[domain.Equipment], error) {
	items, total, err := s.repo.ListPaged(ctx, p)
	if err != nil {
		return domain.Page[domain.Equipment]{}, fmt.Errorf("service.EquipmentService.List: %w", err)
	}
	if items == nil {
		items = []domain.Equipment{}
	}
	return domain.Page[domain.Equipment]{Items: items, Total: total}, nil
}

// Update replaces the editable spec. LastMaintenance and Active are preserved.
func (s *EquipmentService) Update(ctx context.Context, id int64, spec domain.EquipmentSpec) (domain.Equipment, error) {
	if err := validateEquipment(spec); err != nil {
		return domain.Equipment{}, err
	}
	e, err := s.repo.Update(ctx, id, spec)
	if err != nil {
		return domain.Equipment{}, fmt.Errorf("service.EquipmentService.Update: %w", err)
	}
	return e, nil
}

// RecordMaintenance stamps the current block height as the last service.
func (s *EquipmentService) RecordMaintenance(ctx context.Context, id int64) (domain.Equipment, error) {
	e, err := s.repo.RecordMaintenance(ctx, id, s.clock.BlockHeight())
	if err != nil {
		return domain.Equipment{}, fmt.Errorf("service.EquipmentService.RecordMaintenance: %w", err)
	}
	return e, nil
}

// IsMaintenanceDue reports whether the current height has reached
// lastMaintenance + maintenanceInterval. A missing id is domain.ErrNotFound.
func (s *EquipmentService) IsMaintenanceDue(ctx context.Context, id int64) (bool, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("service.EquipmentService.IsMaintenanceDue: %w", err)
	}
	return e.MaintenanceDueAt(s.clock.BlockHeight()), nil
}

func (s *EquipmentService) Deactivate(ctx context.Context, id int64) (domain.Equipment, error) {
	e, err := s.repo.SetActive(ctx, id, false)
	if err != nil {
		return domain.Equipment{}, fmt.Errorf("service.EquipmentService.Deactivate: %w", err)
	}
	return e, nil
}

func (s *EquipmentService) Reactivate(ctx context.Context, id int64) (domain.Equipment, error) {
	e, err := s.repo.SetActive(ctx, id, true)
	if err != nil {
		return domain.Equipment{}, fmt.Errorf("service.EquipmentService.Reactivate: %w", err)
	}
	return e, nil
}

// AssignToVehicle replaces the equipment list of vehicleID. Equipment ids are
// not checked against the registry.
func (s *EquipmentService) AssignToVehicle(ctx context.Context, vehicleID string, equipment []int64) (domain.VehicleEquipment, error) {
	if err := requireFields("vehicleId", vehicleID); err != nil {
		return domain.VehicleEquipment{}, err
	}
	ve, err := s.repo.AssignToVehicle(ctx, domain.VehicleEquipment{VehicleID: vehicleID, EquipmentList: equipment})
	if err != nil {
		return domain.VehicleEquipment{}, fmt.Errorf("service.EquipmentService.AssignToVehicle: %w", err)
	}
	return ve, nil
}

// VehicleEquipment returns domain.ErrNotFound if the vehicle was never assigned.
func (s *EquipmentService) VehicleEquipment(ctx context.Context, vehicleID string) (domain.VehicleEquipment, error) {
	ve, err := s.repo.GetVehicleEquipment(ctx, vehicleID)
	if err != nil {
		return domain.VehicleEquipment{}, fmt.Errorf("service.EquipmentService.VehicleEquipment: %w", err)
	}
	return ve, nil
}

func validateEquipment(spec domain.EquipmentSpec) error {
	if err := requireFields("name", spec.Name); err != nil {
		return err
	}
	return requireHeights([]string{"maintenanceInterval"}, spec.MaintenanceInterval)
}
