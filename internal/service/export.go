package service

import (
	"context"
	"fmt"

	"github.com/pkordes/medtransport/internal/domain"
	"github.com/pkordes/medtransport/internal/repo"
)

// ExportService assembles the flat trip manifest.
type ExportService struct {
	trips repo.TripRepo
}

// NewExportService constructs an ExportService backed by the provided TripRepo.
func NewExportService(trips repo.TripRepo) *ExportService {
	return &ExportService{trips: trips}
}

// Manifest returns one row per trip matching f, ordered by trip id.
// The result is never nil.
func (s *ExportService) Manifest(ctx context.Context, f domain.TripFilter) ([]domain.ManifestRow, error) {
	trips, err := s.trips.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Manifest: %w", err)
	}
	rows := make([]domain.ManifestRow, 0, len(trips))
	for _, t := range trips {
		rows = append(rows, domain.ManifestRow{
			TripID:            t.ID,
			PatientID:         t.PatientID,
			DriverID:          t.DriverID,
			Status:            t.Status,
			PickupLocation:    t.PickupLocation,
			Destination:       t.Destination,
			ScheduledTime:     t.ScheduledTime,
			ActualPickupTime:  t.ActualPickupTime,
			ActualDropoffTime: t.ActualDropoffTime,
			RequiredEquipment: t.RequiredEquipment,
			Notes:             t.Notes,
		})
	}
	return rows, nil
}
