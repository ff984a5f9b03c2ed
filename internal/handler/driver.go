package handler

import (
	"net/http"

	"github.com/pkordes/medtransport/internal/domain"
)

// RatingRequest is the body of PUT /drivers/{id}/rating.
type RatingRequest struct {
	Rating *int `json:"rating"`
}

// CertificationResponse is the body of GET /drivers/{id}/certification.
type CertificationResponse struct {
	DriverID    int64  `json:"driverId"`
	Valid       bool   `json:"valid"`
	BlockHeight uint64 `json:"blockHeight"`
}

// RegisterDriver handles POST /drivers.
func (s *Server) RegisterDriver(w http.ResponseWriter, r *http.Request) {
	var body domain.DriverProfile
	if err := decodeJSON(r, &body); err != nil {
		writeRequestError(w, err.Error())
		return
	}
	created, err := s.drivers.Register(r.Context(), body)
	if err != nil {
		s.writeServiceError(w, r, "driver", err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// ListDrivers handles GET /drivers.
func (s *Server) ListDrivers(w http.ResponseWriter, r *http.Request) {
	params, err := pagination(r)
	if err != nil {
		writeParamError(w, err)
		return
	}
	page, err := s.drivers.List(r.Context(), params)
	if err != nil {
		s.writeServiceError(w, r, "driver", err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse(page, params))
}

// GetDriver handles GET /drivers/{id}.
func (s *Server) GetDriver(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeParamError(w, err)
		return
	}
	d, err := s.drivers.Get(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, "driver", err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// UpdateDriver handles PUT /drivers/{id}. Active and rating are kept.
func (s *Server) UpdateDriver(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeParamError(w, err)
		return
	}
	var body domain.DriverProfile
	if err := decodeJSON(r, &body); err != nil {
		writeRequestError(w, err.Error())
		return
	}
	updated, err := s.drivers.Update(r.Context(), id, body)
	if err != nil {
		s.writeServiceError(w, r, "driver", err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// RateDriver handles PUT /drivers/{id}/rating.
func (s *Server) RateDriver(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeParamError(w, err)
		return
	}
	var body RatingRequest
	if err := decodeJSON(r, &body); err != nil {
		writeRequestError(w, err.Error())
		return
	}
	if body.Rating == nil {
		writeRequestError(w, "rating is required")
		return
	}
	d, err := s.drivers.Rate(r.Context(), id, *body.Rating)
	if err != nil {
		s.writeServiceError(w, r, "driver", err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// GetCertification handles GET /drivers/{id}/certification.
func (s *Server) GetCertification(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeParamError(w, err)
		return
	}
	valid, err := s.drivers.IsCertificationValid(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, "driver", err)
		return
	}
	writeJSON(w, http.StatusOK, CertificationResponse{DriverID: id, Valid: valid, BlockHeight: s.height()})
}

// height is the block height reported alongside threshold checks. It is 0
// when no clock is wired.
func (s *Server) height() uint64 {
	if s.clock == nil {
		return 0
	}
	return s.clock.BlockHeight()
}
