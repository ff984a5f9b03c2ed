package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pkordes/medtransport/internal/domain"
)

// pgPatientRepo is the Postgres implementation of PatientRepo.
type pgPatientRepo struct {
	db db
}

// NewPatientRepo constructs a PatientRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewPatientRepo(db db) PatientRepo {
	return &pgPatientRepo{db: db}
}

const patientColumns = `id, name, address, contact, medical_condition, mobility_requirements,
		special_needs, emergency_contact, active`

// Create takes the next patient id from registry_counters and inserts the row
// in the same statement, so a failed insert never burns an id.
func (r *pgPatientRepo) Create(ctx context.Context, pr domain.PatientProfile) (domain.Patient, error) {
	const q = `
		WITH next AS (
			UPDATE registry_counters SET last_id = last_id + 1
			WHERE name = 'patients'
			RETURNING last_id
		)
		INSERT INTO patients (id, name, address, contact, medical_condition,
			mobility_requirements, special_needs, emergency_contact)
		VALUES ((SELECT last_id FROM next), @name, @address, @contact, @medical_condition,
			@mobility_requirements, @special_needs, @emergency_contact)
		RETURNING ` + patientColumns

	row := r.db.QueryRow(ctx, q, patientArgs(pr))
	result, err := scanPatient(row)
	if err != nil {
		return domain.Patient{}, fmt.Errorf("repo.PatientRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves a patient by id.
func (r *pgPatientRepo) GetByID(ctx context.Context, id int64) (domain.Patient, error) {
	q := `SELECT ` + patientColumns + ` FROM patients WHERE id = @id`

	result, err := scanPatient(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Patient{}, fmt.Errorf("repo.PatientRepo.GetByID: %w", err)
	}
	return result, nil
}

// ListPaged returns one page of patients ordered by id.
func (r *pgPatientRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Patient, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM patients`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.PatientRepo.ListPaged: count: %w", err)
	}

	q := `SELECT ` + patientColumns + ` FROM patients ORDER BY id LIMIT @limit OFFSET @offset`
	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"limit": p.Limit, "offset": p.Offset()})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.PatientRepo.ListPaged: %w", err)
	}
	patients, err := collect(rows, scanPatient)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.PatientRepo.ListPaged: scan: %w", err)
	}
	return patients, total, nil
}

// Update overwrites the profile columns only; active is left as stored.
func (r *pgPatientRepo) Update(ctx context.Context, id int64, pr domain.PatientProfile) (domain.Patient, error) {
	const q = `
		UPDATE patients
		SET name                  = @name,
		    address               = @address,
		    contact               = @contact,
		    medical_condition     = @medical_condition,
		    mobility_requirements = @mobility_requirements,
		    special_needs         = @special_needs,
		    emergency_contact     = @emergency_contact,
		    updated_at            = now()
		WHERE id = @id
		RETURNING ` + patientColumns

	args := patientArgs(pr)
	args["id"] = id

	result, err := scanPatient(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Patient{}, fmt.Errorf("repo.PatientRepo.Update: %w", err)
	}
	return result, nil
}

// SetActive sets the active flag.
func (r *pgPatientRepo) SetActive(ctx context.Context, id int64, active bool) (domain.Patient, error) {
	const q = `
		UPDATE patients SET active = @active, updated_at = now()
		WHERE id = @id
		RETURNING ` + patientColumns

	result, err := scanPatient(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "active": active}))
	if err != nil {
		return domain.Patient{}, fmt.Errorf("repo.PatientRepo.SetActive: %w", err)
	}
	return result, nil
}

func patientArgs(pr domain.PatientProfile) pgx.NamedArgs {
	return pgx.NamedArgs{
		"name":                  pr.Name,
		"address":               pr.Address,
		"contact":               pr.Contact,
		"medical_condition":     pr.MedicalCondition,
		"mobility_requirements": pr.MobilityRequirements,
		"special_needs":         pr.SpecialNeeds,
		"emergency_contact":     pr.EmergencyContact,
	}
}

// scanPatient maps a single row selected with patientColumns.
func scanPatient(s scanner) (domain.Patient, error) {
	var p domain.Patient
	err := s.Scan(&p.ID, &p.Name, &p.Address, &p.Contact, &p.MedicalCondition,
		&p.MobilityRequirements, &p.SpecialNeeds, &p.EmergencyContact, &p.Active)
	if err != nil {
		return domain.Patient{}, notFound(err)
	}
	return p, nil
}
