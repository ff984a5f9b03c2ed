package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/medtransport/internal/domain"
	"github.com/pkordes/medtransport/internal/ledger"
	"github.com/pkordes/medtransport/internal/repo"
	"github.com/pkordes/medtransport/internal/service"
)

// recordingPublisher captures every event and optionally fails.
type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.TripEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev domain.TripEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

// mockTripRepo is a hand-written mock; set only the functions a test needs.
type mockTripRepo struct {
	createFn     func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	getByIDFn    func(ctx context.Context, id int64) (domain.Trip, error)
	listFn       func(ctx context.Context, f domain.TripFilter) ([]domain.Trip, error)
	listPagedFn  func(ctx context.Context, f domain.TripFilter, p domain.PaginationParams) ([]domain.Trip, int64, error)
	updatePlanFn func(ctx context.Context, id int64, plan domain.TripPlan) (domain.Trip, error)
	transitionFn func(ctx context.Context, id int64, action domain.TripAction, height uint64) (domain.Trip, error)
}

var _ repo.TripRepo = (*mockTripRepo)(nil)

func (m *mockTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.createFn(ctx, trip)
}

func (m *mockTripRepo) GetByID(ctx context.Context, id int64) (domain.Trip, error) {
	return m.getByIDFn(ctx, id)
}

func (m *mockTripRepo) List(ctx context.Context, f domain.TripFilter) ([]domain.Trip, error) {
	return m.listFn(ctx, f)
}

func (m *mockTripRepo) ListPaged(ctx context.Context, f domain.TripFilter, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	return m.listPagedFn(ctx, f, p)
}

func (m *mockTripRepo) UpdatePlan(ctx context.Context, id int64, plan domain.TripPlan) (domain.Trip, error) {
	return m.updatePlanFn(ctx, id, plan)
}

func (m *mockTripRepo) Transition(ctx context.Context, id int64, action domain.TripAction, height uint64) (domain.Trip, error) {
	return m.transitionFn(ctx, id, action, height)
}

func validTrip() domain.Trip {
	return domain.Trip{
		PatientID: 1,
		DriverID:  1,
		TripPlan: domain.TripPlan{
			PickupLocation:    "123 Main St",
			Destination:       "City Hospital",
			ScheduledTime:     1200,
			RequiredEquipment: []int64{1, 2},
			Notes:             "Patient requires assistance",
		},
	}
}

func newTripService(opts ...service.TripOption) (*service.TripService, *ledger.ManualClock) {
	clock := ledger.NewManualClock(1000)
	return service.NewTripService(repo.NewMemTripRepo(), clock, opts...), clock
}

func TestTripService_Schedule(t *testing.T) {
	svc, _ := newTripService()

	trip, err := svc.Schedule(context.Background(), validTrip())

	require.NoError(t, err)
	assert.Equal(t, int64(1), trip.ID)
	assert.Equal(t, domain.TripScheduled, trip.Status)
	assert.Nil(t, trip.ActualPickupTime)
	assert.Nil(t, trip.ActualDropoffTime)
	assert.Equal(t, []int64{1, 2}, trip.RequiredEquipment)
}

func TestTripService_Schedule_MissingDestination(t *testing.T) {
	svc, _ := newTripService()

	in := validTrip()
	in.Destination = " "
	_, err := svc.Schedule(context.Background(), in)

	assert.ErrorIs(t, err, domain.ErrInvalid)
}

func TestTripService_ScheduledTimeBeyondStorableHeight(t *testing.T) {
	svc, _ := newTripService()
	ctx := context.Background()

	in := validTrip()
	in.ScheduledTime = domain.MaxBlockHeight + 1
	_, err := svc.Schedule(ctx, in)
	require.ErrorIs(t, err, domain.ErrInvalid)
	assert.ErrorContains(t, err, "scheduledTime")

	created, err := svc.Schedule(ctx, validTrip())
	require.NoError(t, err)
	_, err = svc.Update(ctx, created.ID, in.TripPlan)
	assert.ErrorIs(t, err, domain.ErrInvalid)
	assert.NotErrorIs(t, err, domain.ErrTransition)
}

func TestTripService_Lifecycle(t *testing.T) {
	pub := &recordingPublisher{}
	svc, clock := newTripService(service.WithPublisher(pub))
	ctx := context.Background()

	trip, err := svc.Schedule(ctx, validTrip())
	require.NoError(t, err)

	clock.SetBlockHeight(1250)
	started, err := svc.Start(ctx, trip.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TripInProgress, started.Status)
	require.NotNil(t, started.ActualPickupTime)
	assert.Equal(t, uint64(1250), *started.ActualPickupTime)

	clock.SetBlockHeight(1300)
	completed, err := svc.Complete(ctx, trip.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TripCompleted, completed.Status)
	require.NotNil(t, completed.ActualDropoffTime)
	assert.Equal(t, uint64(1300), *completed.ActualDropoffTime)
	assert.Equal(t, uint64(1250), *completed.ActualPickupTime, "pickup is set only once")

	require.Len(t, pub.events, 2)
	assert.Equal(t, domain.TripStart, pub.events[0].Action)
	assert.Equal(t, domain.TripScheduled, pub.events[0].From)
	assert.Equal(t, domain.TripInProgress, pub.events[0].To)
	assert.Equal(t, uint64(1250), pub.events[0].BlockHeight)
	assert.Equal(t, domain.TripComplete, pub.events[1].Action)
	assert.Equal(t, trip.ID, pub.events[1].TripID)
	assert.NotEqual(t, pub.events[0].ID, pub.events[1].ID)
}

func TestTripService_Start_Twice(t *testing.T) {
	svc, _ := newTripService()
	ctx := context.Background()

	trip, err := svc.Schedule(ctx, validTrip())
	require.NoError(t, err)
	_, err = svc.Start(ctx, trip.ID)
	require.NoError(t, err)

	_, err = svc.Start(ctx, trip.ID)
	assert.ErrorIs(t, err, domain.ErrInvalid)
}

func TestTripService_Complete_FromScheduled(t *testing.T) {
	svc, _ := newTripService()
	ctx := context.Background()

	trip, err := svc.Schedule(ctx, validTrip())
	require.NoError(t, err)

	_, err = svc.Complete(ctx, trip.ID)
	assert.ErrorIs(t, err, domain.ErrInvalid)

	got, err := svc.Get(ctx, trip.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TripScheduled, got.Status, "failed transition leaves the trip untouched")
	assert.Nil(t, got.ActualDropoffTime)
}

func TestTripService_Cancel(t *testing.T) {
	svc, _ := newTripService()
	ctx := context.Background()

	trip, err := svc.Schedule(ctx, validTrip())
	require.NoError(t, err)

	cancelled, err := svc.Cancel(ctx, trip.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TripCancelled, cancelled.Status)

	_, err = svc.Start(ctx, trip.ID)
	assert.ErrorIs(t, err, domain.ErrInvalid)
	_, err = svc.Cancel(ctx, trip.ID)
	assert.ErrorIs(t, err, domain.ErrInvalid)
}

func TestTripService_Cancel_InProgress(t *testing.T) {
	svc, _ := newTripService()
	ctx := context.Background()

	trip, err := svc.Schedule(ctx, validTrip())
	require.NoError(t, err)
	_, err = svc.Start(ctx, trip.ID)
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, trip.ID)
	assert.ErrorIs(t, err, domain.ErrInvalid)
}

func TestTripService_Transition_NotFound(t *testing.T) {
	svc, _ := newTripService()

	_, err := svc.Start(context.Background(), 9)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTripService_Update(t *testing.T) {
	svc, _ := newTripService()
	ctx := context.Background()

	trip, err := svc.Schedule(ctx, validTrip())
	require.NoError(t, err)

	plan := domain.TripPlan{
		PickupLocation:    "456 Oak Ave",
		Destination:       "County Clinic",
		ScheduledTime:     1400,
		RequiredEquipment: []int64{3},
		Notes:             "Second floor",
	}
	updated, err := svc.Update(ctx, trip.ID, plan)
	require.NoError(t, err)
	assert.Equal(t, plan, updated.TripPlan)
	assert.Equal(t, domain.TripScheduled, updated.Status)
	assert.Equal(t, trip.PatientID, updated.PatientID)
}

func TestTripService_Update_AfterStart(t *testing.T) {
	svc, _ := newTripService()
	ctx := context.Background()

	trip, err := svc.Schedule(ctx, validTrip())
	require.NoError(t, err)
	_, err = svc.Start(ctx, trip.ID)
	require.NoError(t, err)

	_, err = svc.Update(ctx, trip.ID, validTrip().TripPlan)
	assert.ErrorIs(t, err, domain.ErrInvalid)
}

func TestTripService_PublishFailureIsNotFatal(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc, _ := newTripService(service.WithPublisher(pub))
	ctx := context.Background()

	trip, err := svc.Schedule(ctx, validTrip())
	require.NoError(t, err)

	started, err := svc.Start(ctx, trip.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TripInProgress, started.Status)
	assert.Len(t, pub.events, 1)
}

func TestTripService_FailedTransitionPublishesNothing(t *testing.T) {
	pub := &recordingPublisher{}
	svc, _ := newTripService(service.WithPublisher(pub))
	ctx := context.Background()

	trip, err := svc.Schedule(ctx, validTrip())
	require.NoError(t, err)

	_, err = svc.Complete(ctx, trip.ID)
	require.Error(t, err)
	assert.Empty(t, pub.events)
}

func TestTripService_List_StatusFilter(t *testing.T) {
	svc, _ := newTripService()
	ctx := context.Background()

	for range 3 {
		_, err := svc.Schedule(ctx, validTrip())
		require.NoError(t, err)
	}
	_, err := svc.Start(ctx, 2)
	require.NoError(t, err)

	status := domain.TripInProgress
	page, err := svc.List(ctx, domain.TripFilter{Status: &status}, domain.NewPaginationParams(nil, nil))
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, int64(2), page.Items[0].ID)
	assert.Equal(t, int64(1), page.Total)
}

func TestTripService_RepoErrorIsWrapped(t *testing.T) {
	boom := errors.New("connection reset")
	m := &mockTripRepo{
		transitionFn: func(_ context.Context, _ int64, _ domain.TripAction, _ uint64) (domain.Trip, error) {
			return domain.Trip{}, boom
		},
		listPagedFn: func(_ context.Context, _ domain.TripFilter, _ domain.PaginationParams) ([]domain.Trip, int64, error) {
			return nil, 0, nil
		},
	}
	pub := &recordingPublisher{}
	svc := service.NewTripService(m, ledger.NewManualClock(0), service.WithPublisher(pub))
	ctx := context.Background()

	_, err := svc.Cancel(ctx, 1)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "service.TripService.cancel")
	assert.Empty(t, pub.events)

	page, err := svc.List(ctx, domain.TripFilter{}, domain.NewPaginationParams(nil, nil))
	require.NoError(t, err)
	assert.NotNil(t, page.Items, "nil repo slice is normalised")
}

func TestTripService_TransitionPassesClockHeight(t *testing.T) {
	var gotHeight uint64
	m := &mockTripRepo{
		transitionFn: func(_ context.Context, id int64, action domain.TripAction, height uint64) (domain.Trip, error) {
			gotHeight = height
			return domain.Trip{ID: id, Status: domain.TripInProgress}, nil
		},
	}
	svc := service.NewTripService(m, ledger.NewManualClock(4242))

	_, err := svc.Start(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, uint64(4242), gotHeight)
}
