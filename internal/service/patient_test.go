package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/medtransport/internal/domain"
	"github.com/pkordes/medtransport/internal/repo"
	"github.com/pkordes/medtransport/internal/service"
)

func validPatient() domain.PatientProfile {
	return domain.PatientProfile{
		Name:                 "John Doe",
		Address:              "123 Main St",
		Contact:              "555-123-4567",
		MedicalCondition:     "Diabetes",
		MobilityRequirements: "Wheelchair",
		SpecialNeeds:         "None",
		EmergencyContact:     "Jane Doe",
	}
}

func TestPatientService_Register_SequentialIDs(t *testing.T) {
	svc := service.NewPatientService(repo.NewMemPatientRepo())
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		p, err := svc.Register(ctx, validPatient())
		require.NoError(t, err)
		assert.Equal(t, want, p.ID)
	}
}

func TestPatientService_Register_MissingName(t *testing.T) {
	svc := service.NewPatientService(repo.NewMemPatientRepo())

	pr := validPatient()
	pr.Name = "   "
	_, err := svc.Register(context.Background(), pr)

	assert.ErrorIs(t, err, domain.ErrInvalid)
}

func TestPatientService_Update_RoundTrip(t *testing.T) {
	svc := service.NewPatientService(repo.NewMemPatientRepo())
	ctx := context.Background()

	created, err := svc.Register(ctx, validPatient())
	require.NoError(t, err)
	_, err = svc.Deactivate(ctx, created.ID)
	require.NoError(t, err)

	next := domain.PatientProfile{
		Name:                 "John Doe",
		Address:              "456 Oak Ave",
		Contact:              "555-000-1111",
		MedicalCondition:     "Diabetes, Hypertension",
		MobilityRequirements: "Stretcher",
		SpecialNeeds:         "Oxygen",
		EmergencyContact:     "Jim Doe",
	}
	_, err = svc.Update(ctx, created.ID, next)
	require.NoError(t, err)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, next, got.PatientProfile, "editable fields take the new values")
	assert.False(t, got.Active, "active is preserved across updates")
}

func TestPatientService_Update_NotFound(t *testing.T) {
	svc := service.NewPatientService(repo.NewMemPatientRepo())

	_, err := svc.Update(context.Background(), 7, validPatient())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPatientService_DeactivateReactivate_Idempotent(t *testing.T) {
	svc := service.NewPatientService(repo.NewMemPatientRepo())
	ctx := context.Background()

	created, err := svc.Register(ctx, validPatient())
	require.NoError(t, err)

	for range 2 {
		p, err := svc.Deactivate(ctx, created.ID)
		require.NoError(t, err)
		assert.False(t, p.Active)
	}
	for range 2 {
		p, err := svc.Reactivate(ctx, created.ID)
		require.NoError(t, err)
		assert.True(t, p.Active)
	}

	_, err = svc.Deactivate(ctx, 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPatientService_List_Empty(t *testing.T) {
	svc := service.NewPatientService(repo.NewMemPatientRepo())

	page, err := svc.List(context.Background(), domain.NewPaginationParams(nil, nil))

	require.NoError(t, err)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
	assert.Zero(t, page.Total)
}
