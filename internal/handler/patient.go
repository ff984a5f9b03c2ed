package handler

import (
	"context"
	"net/http"

	"github.com/pkordes/medtransport/internal/domain"
)

// RegisterPatient handles POST /patients.
func (s *Server) RegisterPatient(w http.ResponseWriter, r *http.Request) {
	var body domain.PatientProfile
	if err := decodeJSON(r, &body); err != nil {
		writeRequestError(w, err.Error())
		return
	}
	created, err := s.patients.Register(r.Context(), body)
	if err != nil {
		s.writeServiceError(w, r, "patient", err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// ListPatients handles GET /patients.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) ListPatients(w http.ResponseWriter, r *http.Request) {
	params, err := pagination(r)
	if err != nil {
		writeParamError(w, err)
		return
	}
	page, err := s.patients.List(r.Context(), params)
	if err != nil {
		s.writeServiceError(w, r, "patient", err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse(page, params))
}

// GetPatient handles GET /patients/{id}.
func (s *Server) GetPatient(w http.ResponseWriter, r *http.Request) {
	s.patientByID(w, r, s.patients.Get)
}

// UpdatePatient handles PUT /patients/{id}. The body replaces the whole
// profile; the active flag is kept.
func (s *Server) UpdatePatient(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeParamError(w, err)
		return
	}
	var body domain.PatientProfile
	if err := decodeJSON(r, &body); err != nil {
		writeRequestError(w, err.Error())
		return
	}
	updated, err := s.patients.Update(r.Context(), id, body)
	if err != nil {
		s.writeServiceError(w, r, "patient", err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeactivatePatient handles POST /patients/{id}/deactivate.
func (s *Server) DeactivatePatient(w http.ResponseWriter, r *http.Request) {
	s.patientByID(w, r, s.patients.Deactivate)
}

// ReactivatePatient handles POST /patients/{id}/reactivate.
func (s *Server) ReactivatePatient(w http.ResponseWriter, r *http.Request) {
	s.patientByID(w, r, s.patients.Reactivate)
}

func (s *Server) patientByID(w http.ResponseWriter, r *http.Request, fn func(context.Context, int64) (domain.Patient, error)) {
	id, err := pathID(r)
	if err != nil {
		writeParamError(w, err)
		return
	}
	p, err := fn(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, "patient", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
