package handler

import (
	"context"
	"net/http"

	"github.com/pkordes/medtransport/internal/domain"
)

// ScheduleTripRequest is the body of POST /trips.
type ScheduleTripRequest struct {
	PatientID int64 `json:"patientId"`
	DriverID  int64 `json:"driverId"`
	domain.TripPlan
}

// ScheduleTrip handles POST /trips.
func (s *Server) ScheduleTrip(w http.ResponseWriter, r *http.Request) {
	var body ScheduleTripRequest
	if err := decodeJSON(r, &body); err != nil {
		writeRequestError(w, err.Error())
		return
	}
	created, err := s.trips.Schedule(r.Context(), domain.Trip{
		PatientID: body.PatientID,
		DriverID:  body.DriverID,
		TripPlan:  body.TripPlan,
	})
	if err != nil {
		s.writeServiceError(w, r, "trip", err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// ListTrips handles GET /trips.
// Supports ?status=, ?page= and ?limit=.
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	f, err := tripFilter(r)
	if err != nil {
		writeParamError(w, err)
		return
	}
	params, err := pagination(r)
	if err != nil {
		writeParamError(w, err)
		return
	}
	page, err := s.trips.List(r.Context(), f, params)
	if err != nil {
		s.writeServiceError(w, r, "trip", err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse(page, params))
}

// GetTrip handles GET /trips/{id}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	s.tripByID(w, r, s.trips.Get)
}

// UpdateTrip handles PUT /trips/{id}. Only scheduled trips can be updated.
func (s *Server) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeParamError(w, err)
		return
	}
	var body domain.TripPlan
	if err := decodeJSON(r, &body); err != nil {
		writeRequestError(w, err.Error())
		return
	}
	updated, err := s.trips.Update(r.Context(), id, body)
	if err != nil {
		s.writeServiceError(w, r, "trip", err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// StartTrip handles POST /trips/{id}/start.
func (s *Server) StartTrip(w http.ResponseWriter, r *http.Request) {
	s.tripByID(w, r, s.trips.Start)
}

// CompleteTrip handles POST /trips/{id}/complete.
func (s *Server) CompleteTrip(w http.ResponseWriter, r *http.Request) {
	s.tripByID(w, r, s.trips.Complete)
}

// CancelTrip handles POST /trips/{id}/cancel.
func (s *Server) CancelTrip(w http.ResponseWriter, r *http.Request) {
	s.tripByID(w, r, s.trips.Cancel)
}

func (s *Server) tripByID(w http.ResponseWriter, r *http.Request, fn func(context.Context, int64) (domain.Trip, error)) {
	id, err := pathID(r)
	if err != nil {
		writeParamError(w, err)
		return
	}
	t, err := fn(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, "trip", err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}
