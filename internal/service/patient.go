package service

import (
	"context"
	"fmt"

	"github.com/pkordes/medtransport/internal/domain"
	"github.com/pkordes/medtransport/internal/repo"
)

// PatientService implements the patient registry.
type PatientService struct {
	repo repo.PatientRepo
}

// NewPatientService constructs a PatientService backed by the provided PatientRepo.
func NewPatientService(r repo.PatientRepo) *PatientService {
	return &PatientService{repo: r}
}

// Register validates and stores a new active patient.
func (s *PatientService) Register(ctx context.Context, pr domain.PatientProfile) (domain.Patient, error) {
	if err := validatePatient(pr); err != nil {
		return domain.Patient{}, err
	}
	p, err := s.repo.Create(ctx, pr)
	if err != nil {
		return domain.Patient{}, fmt.Errorf("service.PatientService.Register: %w", err)
	}
	return p, nil
}

// Get returns domain.ErrNotFound if the patient does not exist.
func (s *PatientService) Get(ctx context.Context, id int64) (domain.Patient, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Patient{}, fmt.Errorf("service.PatientService.Get: %w", err)
	}
	return p, nil
}

// List returns one page of patients ordered by id.
func (s *PatientService) List(ctx context.Context, p domain.PaginationParams) (domain.Page[domain.Patient], error) {
	items, total, err := s.repo.ListPaged(ctx, p)
	if err != nil {
		return domain.Page[domain.Patient]{}, fmt.Errorf("service.PatientService.List: %w", err)
	}
	if items == nil {
		items = []domain.Patient{}
	}
	return domain.Page[domain.Patient]{Items: items, Total: total}, nil
}

// Update replaces the patient's profile. The active flag is preserved.
func (s *PatientService) Update(ctx context.Context, id int64, pr domain.PatientProfile) (domain.Patient, error) {
	if err := validatePatient(pr); err != nil {
		return domain.Patient{}, err
	}
	p, err := s.repo.Update(ctx, id, pr)
	if err != nil {
		return domain.Patient{}, fmt.Errorf("service.PatientService.Update: %w", err)
	}
	return p, nil
}

// Deactivate clears the active flag. Calling it twice is harmless.
func (s *PatientService) Deactivate(ctx context.Context, id int64) (domain.Patient, error) {
	p, err := s.repo.SetActive(ctx, id, false)
	if err != nil {
		return domain.Patient{}, fmt.Errorf("service.PatientService.Deactivate: %w", err)
	}
	return p, nil
}

// Reactivate sets the active flag. Calling it twice is harmless.
func (s *PatientService) Reactivate(ctx context.Context, id int64) (domain.Patient, error) {
	p, err := s.repo.SetActive(ctx, id, true)
	if err != nil {
		return domain.Patient{}, fmt.Errorf("service.PatientService.Reactivate: %w", err)
	}
	return p, nil
}

func validatePatient(pr domain.PatientProfile) error {
	return requireFields("name", pr.Name)
}
