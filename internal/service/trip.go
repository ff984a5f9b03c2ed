package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/medtransport/internal/domain"
	"github.com/pkordes/medtransport/internal/ledger"
	"github.com/pkordes/medtransport/internal/repo"
)

// EventPublisher receives every successful trip transition.
// Implementations live in internal/events.
type EventPublisher interface {
	Publish(ctx context.Context, ev domain.TripEvent) error
}

// TripService implements the trip coordinator: scheduling, plan updates while
// scheduled, and the start/complete/cancel state machine.
type TripService struct {
	repo      repo.TripRepo
	clock     ledger.Clock
	publisher EventPublisher
	log       *slog.Logger
	now       func() time.Time
}

// TripOption configures optional TripService collaborators.
type TripOption func(*TripService)

// WithPublisher sends trip events to p.
func WithPublisher(p EventPublisher) TripOption {
	return func(s *TripService) { s.publisher = p }
}

// WithLogger replaces slog.Default.
func WithLogger(l *slog.Logger) TripOption {
	return func(s *TripService) { s.log = l }
}

// NewTripService constructs a TripService. Without WithPublisher events are dropped.
func NewTripService(r repo.TripRepo, clock ledger.Clock, opts ...TripOption) *TripService {
	s := &TripService{repo: r, clock: clock, log: slog.Default(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Schedule validates and stores a new trip in the scheduled state.
func (s *TripService) Schedule(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	if err := validatePlan(trip.TripPlan); err != nil {
		return domain.Trip{}, err
	}
	created, err := s.repo.Create(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Schedule: %w", err)
	}
	return created, nil
}

func (s *TripService) Get(ctx context.Context, id int64) (domain.Trip, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Get: %w", err)
	}
	return t, nil
}

// List returns one page of trips matching f ordered by id.
func (s *TripService) List(ctx context.Context, f domain.TripFilter, p domain.PaginationParams) (domain.Page[domain.Trip], error) {
	items, total, err := s.repo.ListPaged(ctx, f, p)
	if err != nil {
		return domain.Page[domain.Trip]{}, fmt.Errorf("service.TripService.List: %w", err)
	}
	if items == nil {
		items = []domain.Trip{}
	}
	return domain.Page[domain.Trip]{Items: items, Total: total}, nil
}

// Update replaces the plan of a trip that is still scheduled. Once a trip has
// started, completed or been cancelled its logistics are immutable and
// domain.ErrInvalid is returned.
func (s *TripService) Update(ctx context.Context, id int64, plan domain.TripPlan) (domain.Trip, error) {
	if err := validatePlan(plan); err != nil {
		return domain.Trip{}, err
	}
	t, err := s.repo.UpdatePlan(ctx, id, plan)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	return t, nil
}

// Start moves a scheduled trip to in progress and stamps the pickup height.
func (s *TripService) Start(ctx context.Context, id int64) (domain.Trip, error) {
	return s.transition(ctx, id, domain.TripStart)
}

// Complete moves an in-progress trip to completed and stamps the dropoff height.
func (s *TripService) Complete(ctx context.Context, id int64) (domain.Trip, error) {
	return s.transition(ctx, id, domain.TripComplete)
}

// Cancel moves a scheduled trip to cancelled.
func (s *TripService) Cancel(ctx context.Context, id int64) (domain.Trip, error) {
	return s.transition(ctx, id, domain.TripCancel)
}

func (s *TripService) transition(ctx context.Context, id int64, action domain.TripAction) (domain.Trip, error) {
	from, _, _ := action.Transition()
	height := s.clock.BlockHeight()

	t, err := s.repo.Transition(ctx, id, action, height)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.%s: %w", action, err)
	}

	s.publish(ctx, domain.TripEvent{
		ID:          uuid.New(),
		TripID:      t.ID,
		Action:      action,
		From:        from,
		To:          t.Status,
		BlockHeight: height,
		OccurredAt:  s.now().UTC(),
	})
	return t, nil
}

// publish never fails the transition: the trip is already stored.
func (s *TripService) publish(ctx context.Context, ev domain.TripEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.log.WarnContext(ctx, "trip event not published",
			"trip_id", ev.TripID,
			"event_id", ev.ID.String(),
			"action", string(ev.Action),
			"error", err,
		)
	}
}

func validatePlan(plan domain.TripPlan) error {
	if err := requireFields("pickupLocation", plan.PickupLocation, "destination", plan.Destination); err != nil {
		return err
	}
	return requireHeights([]string{"scheduledTime"}, plan.ScheduledTime)
}
