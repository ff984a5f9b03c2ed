package service

import (
	"context"
	"fmt"

	"github.com/pkordes/medtransport/internal/domain"
	"github.com/pkordes/medtransport/internal/ledger"
	"github.com/pkordes/medtransport/internal/repo"
)

// DriverService implements the driver registry. Certification checks are
// evaluated against the ledger clock.
type DriverService struct {
	repo  repo.DriverRepo
	clock ledger.Clock
}

// NewDriverService constructs a DriverService.
func NewDriverService(r repo.DriverRepo, clock ledger.Clock) *DriverService {
	return &DriverService{repo: r, clock: clock}
}

// Register validates and stores a new active driver with rating 0.
func (s *DriverService) Register(ctx context.Context, pr domain.DriverProfile) (domain.Driver, error) {
	if err := validateDriver(pr); err != nil {
		return domain.Driver{}, err
	}
	d, err := s.repo.Create(ctx, pr)
	if err != nil {
		return domain.Driver{}, fmt.Errorf("service.DriverService.Register: %w", err)
	}
	return d, nil
}

func (s *DriverService) Get(ctx context.Context, id int64) (domain.Driver, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Driver{}, fmt.Errorf("service.DriverService.Get: %w", err)
	}
	return d, nil
}

func (s *DriverService) List(ctx context.Context, p domain.PaginationParams) (domain.Page[domain.Driver], error) {
	items, total, err := s.repo.ListPaged(ctx, p)
	if err != nil {
		return domain.Page[domain.Driver]{}, fmt.Errorf("service.DriverService.List: %w", err)
	}
	if items == nil {
		items = []domain.Driver{}
	}
	return domain.Page[domain.Driver]{Items: items, Total: total}, nil
}

// Update replaces the driver's credentials. Active and Rating are preserved.
func (s *DriverService) Update(ctx context.Context, id int64, pr domain.DriverProfile) (domain.Driver, error) {
	if err := validateDriver(pr); err != nil {
		return domain.Driver{}, err
	}
	d, err := s.repo.Update(ctx, id, pr)
	if err != nil {
		return domain.Driver{}, fmt.Errorf("service.DriverService.Update: %w", err)
	}
	return d, nil
}

// Rate sets the driver's rating. Values outside 0..5 are rejected with
// domain.ErrInvalid before anything is written.
func (s *DriverService) Rate(ctx context.Context, id int64, rating int) (domain.Driver, error) {
	if !domain.ValidRating(rating) {
		return domain.Driver{}, fmt.Errorf("%w: rating must be between 0 and %d, got %d", domain.ErrInvalid, domain.MaxRating, rating)
	}
	d, err := s.repo.SetRating(ctx, id, rating)
	if err != nil {
		return domain.Driver{}, fmt.Errorf("service.DriverService.Rate: %w", err)
	}
	return d, nil
}

// IsCertificationValid reports whether the current block height is before the
// driver's certification expiry. A missing driver is domain.ErrNotFound.
func (s *DriverService) IsCertificationValid(ctx context.Context, id int64) (bool, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("service.DriverService.IsCertificationValid: %w", err)
	}
	return d.CertificationValidAt(s.clock.BlockHeight()), nil
}

func validateDriver(pr domain.DriverProfile) error {
	if err := requireFields("name", pr.Name, "license", pr.License); err != nil {
		return err
	}
	return requireHeights([]string{"certificationExpiry"}, pr.CertificationExpiry)
}
