package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pkordes/medtransport/internal/domain"
)

// pgEquipmentRepo is the Postgres implementation of EquipmentRepo.
type pgEquipmentRepo struct {
	db db
}

// NewEquipmentRepo constructs an EquipmentRepo backed by the provided db connection.
func NewEquipmentRepo(db db) EquipmentRepo {
	return &pgEquipmentRepo{db: db}
}

const equipmentColumns = `id, name, description, certification_required, maintenance_interval,
		last_maintenance, active`

func (r *pgEquipmentRepo) Create(ctx context.Context, spec domain.EquipmentSpec, height uint64) (domain.Equipment, error) {
	const q = `
		WITH next AS (
			UPDATE registry_counters SET last_id = last_id + 1
			WHERE name = 'equipment'
			RETURNING last_id
		)
		INSERT INTO equipment (id, name, description, certification_required,
			maintenance_interval, last_maintenance)
		VALUES ((SELECT last_id FROM next), @name, @description, @certification_required,
			@maintenance_interval, @last_maintenance)
		RETURNING ` + equipmentColumns

	args := specArgs(spec)
	args["last_maintenance"] = int64(height)

	result, err := scanEquipment(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Equipment{}, fmt.Errorf("repo.EquipmentRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgEquipmentRepo) GetByID(ctx context.Context, id int64) (domain.Equipment, error) {
	q := `SELECT ` + equipmentColumns + ` FROM equipment WHERE id = @id`

	result, err := scanEquipment(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Equipment{}, fmt.Errorf("repo.EquipmentRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgEquipmentRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Equipment, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM equipment`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.EquipmentRepo.ListPaged: count: %w", err)
	}

	q := `SELECT ` + equipmentColumns + ` FROM equipment ORDER BY id LIMIT @limit OFFSET @offset`
	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"limit": p.Limit, "offset": p.Offset()})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.EquipmentRepo.ListPaged: %w", err)
	}
	items, err := collect(rows, scanEquipment)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.EquipmentRepo.ListPaged: scan: %w", err)
	}
	return items, total, nil
}

func (r *pgEquipmentRepo) Update(ctx context.Context, id int64, spec domain.EquipmentSpec) (domain.Equipment, error) {
	const q = `
		UPDATE equipment
		SET name                   = @name,
		    description            = @description,
		    certification_required = @certification_required,
		    maintenance_interval   = @maintenance_interval,
		    updated_at             = now()
		WHERE id = @id
		RETURNING ` + equipmentColumns

	args := specArgs(spec)
	args["id"] = id

	result, err := scanEquipment(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Equipment{}, fmt.Errorf("repo.EquipmentRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgEquipmentRepo) RecordMaintenance(ctx context.Context, id int64, height uint64) (domain.Equipment, error) {
	const q = `
		UPDATE equipment SET last_maintenance = @height, updated_at = now()
		WHERE id = @id
		RETURNING ` + equipmentColumns

	result, err := scanEquipment(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "height": int64(height)}))
	if err != nil {
		return domain.Equipment{}, fmt.Errorf("repo.EquipmentRepo.RecordMaintenance: %w", err)
	}
	return result, nil
}

func (r *pgEquipmentRepo) SetActive(ctx context.Context, id int64, active bool) (domain.Equipment, error) {
	const q = `
		UPDATE equipment SET active = @active, updated_at = now()
		WHERE id = @id
		RETURNING ` + equipmentColumns

	result, err := scanEquipment(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "active": active}))
	if err != nil {
		return domain.Equipment{}, fmt.Errorf("repo.EquipmentRepo.SetActive: %w", err)
	}
	return result, nil
}

// AssignToVehicle upserts the vehicle's list, replacing any previous assignment.
func (r *pgEquipmentRepo) AssignToVehicle(ctx context.Context, ve domain.VehicleEquipment) (domain.VehicleEquipment, error) {
	const q = `
		INSERT INTO vehicle_equipment (vehicle_id, equipment_list)
		VALUES (@vehicle_id, @equipment_list)
		ON CONFLICT (vehicle_id) DO UPDATE
		SET equipment_list = EXCLUDED.equipment_list,
		    updated_at     = now()
		RETURNING vehicle_id, equipment_list`

	args := pgx.NamedArgs{"vehicle_id": ve.VehicleID, "equipment_list": idList(ve.EquipmentList)}

	result, err := scanVehicleEquipment(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.VehicleEquipment{}, fmt.Errorf("repo.EquipmentRepo.AssignToVehicle: %w", err)
	}
	return result, nil
}

func (r *pgEquipmentRepo) GetVehicleEquipment(ctx context.Context, vehicleID string) (domain.VehicleEquipment, error) {
	const q = `SELECT vehicle_id, equipment_list FROM vehicle_equipment WHERE vehicle_id = @vehicle_id`

	result, err := scanVehicleEquipment(r.db.QueryRow(ctx, q, pgx.NamedArgs{"vehicle_id": vehicleID}))
	if err != nil {
		return domain.VehicleEquipment{}, fmt.Errorf("repo.EquipmentRepo.GetVehicleEquipment: %w", err)
	}
	return result, nil
}

func specArgs(s domain.EquipmentSpec) pgx.NamedArgs {
	return pgx.NamedArgs{
		"name":                   s.Name,
		"description":            s.Description,
		"certification_required": s.CertificationRequired,
		"maintenance_interval":   int64(s.MaintenanceInterval),
	}
}

func scanEquipment(s scanner) (domain.Equipment, error) {
	var (
		e        domain.Equipment
		interval int64
		last     int64
	)
	err := s.Scan(&e.ID, &e.Name, &e.Description, &e.CertificationRequired, &interval, &last, &e.Active)
	if err != nil {
		return domain.Equipment{}, notFound(err)
	}
	e.MaintenanceInterval = uint64(interval)
	e.LastMaintenance = uint64(last)
	return e, nil
}

func scanVehicleEquipment(s scanner) (domain.VehicleEquipment, error) {
	var ve domain.VehicleEquipment
	if err := s.Scan(&ve.VehicleID, &ve.EquipmentList); err != nil {
		return domain.VehicleEquipment{}, notFound(err)
	}
	ve.EquipmentList = idList(ve.EquipmentList)
	return ve, nil
}
