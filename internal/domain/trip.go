package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TripStatus is the lifecycle state of a trip.
type TripStatus string

// Trip lifecycle states. Completed and Cancelled are terminal.
const (
	TripScheduled  TripStatus = "scheduled"
	TripInProgress TripStatus = "in_progress"
	TripCompleted  TripStatus = "completed"
	TripCancelled  TripStatus = "cancelled"
)

// ParseTripStatus converts s to a TripStatus, rejecting unknown values.
func ParseTripStatus(s string) (TripStatus, error) {
	switch st := TripStatus(s); st {
	case TripScheduled, TripInProgress, TripCompleted, TripCancelled:
		return st, nil
	}
	return "", fmt.Errorf("%w: unknown trip status %q", ErrInvalid, s)
}

// TripAction names a lifecycle transition.
type TripAction string

// Trip lifecycle actions.
const (
	TripStart    TripAction = "start"
	TripComplete TripAction = "complete"
	TripCancel   TripAction = "cancel"
)

type transition struct {
	from TripStatus
	to   TripStatus
}

// tripTransitions is the whole state machine. Anything not listed is rejected.
var tripTransitions = map[TripAction]transition{
	TripStart:    {from: TripScheduled, to: TripInProgress},
	TripComplete: {from: TripInProgress, to: TripCompleted},
	TripCancel:   {from: TripScheduled, to: TripCancelled},
}

// Transition returns the required source status and the resulting status for
// action. ok is false for an unknown action.
func (a TripAction) Transition() (from, to TripStatus, ok bool) {
	t, ok := tripTransitions[a]
	return t.from, t.to, ok
}

// Editable reports whether a trip in status s may still have its plan changed.
func (s TripStatus) Editable() bool {
	return s == TripScheduled
}

// Terminal reports whether no further transition is possible from s.
func (s TripStatus) Terminal() bool {
	return s == TripCompleted || s == TripCancelled
}

// TripPlan holds the logistics of a trip, editable only while scheduled.
type TripPlan struct {
	PickupLocation string `json:"pickupLocation"`
	Destination    string `json:"destination"`
	// ScheduledTime is a block height.
	ScheduledTime     uint64  `json:"scheduledTime"`
	RequiredEquipment []int64 `json:"requiredEquipment"`
	Notes             string  `json:"notes"`
}

// Trip is a single scheduled transport of a patient by a driver.
// PatientID and DriverID are not validated against the other registries.
type Trip struct {
	ID        int64 `json:"id"`
	PatientID int64 `json:"patientId"`
	DriverID  int64 `json:"driverId"`
	TripPlan
	Status TripStatus `json:"status"`
	// ActualPickupTime is set once, when the trip starts.
	ActualPickupTime *uint64 `json:"actualPickupTime"`
	// ActualDropoffTime is set once, when the trip completes.
	ActualDropoffTime *uint64 `json:"actualDropoffTime"`
}

// Apply returns a copy of t advanced by action at the given block height.
// It returns ErrTransition when the action is not allowed from t.Status, and t is
// left untouched in that case.
func (t Trip) Apply(action TripAction, height uint64) (Trip, error) {
	from, to, ok := action.Transition()
	if !ok {
		return t, fmt.Errorf("%w: unknown trip action %q", ErrInvalid, action)
	}
	if t.Status != from {
		return t, fmt.Errorf("%w: cannot %s a trip that is %s", ErrTransition, action, t.Status)
	}
	t.Status = to
	switch to {
	case TripInProgress:
		h := height
		t.ActualPickupTime = &h
	case TripCompleted:
		h := height
		t.ActualDropoffTime = &h
	}
	return t, nil
}

// TripFilter narrows a trip listing. A nil Status matches every trip.
type TripFilter struct {
	Status *TripStatus
}

// TripEvent records one successful trip transition.
type TripEvent struct {
	ID          uuid.UUID  `json:"id"`
	TripID      int64      `json:"tripId"`
	Action      TripAction `json:"action"`
	From        TripStatus `json:"from"`
	To          TripStatus `json:"to"`
	BlockHeight uint64     `json:"blockHeight"`
	OccurredAt  time.Time  `json:"occurredAt"`
}
