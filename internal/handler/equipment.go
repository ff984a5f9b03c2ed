package handler

import (
	"context"
	"net/http"

	"github.com/pkordes/medtransport/internal/domain"
)

// MaintenanceResponse is the body of GET /equipment/{id}/maintenance.
type MaintenanceResponse struct {
	EquipmentID int64  `json:"equipmentId"`
	Due         bool   `json:"due"`
	BlockHeight uint64 `json:"blockHeight"`
}

// AssignEquipmentRequest is the body of PUT /vehicles/{vehicleId}/equipment.
type AssignEquipmentRequest struct {
	EquipmentList []int64 `json:"equipmentList"`
}

// RegisterEquipment handles POST /equipment.
func (s *Server) RegisterEquipment(w http.ResponseWriter, r *http.Request) {
	var body domain.EquipmentSpec
	if err := decodeJSON(r, &body); err != nil {
		writeRequestError(w, err.Error())
		return
	}
	created, err := s.equipment.Register(r.Context(), body)
	if err != nil {
		s.writeServiceError(w, r, "equipment", err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// ListEquipment handles GET /equipment.
func (s *Server) ListEquipment(w http.ResponseWriter, r *http.Request) {
	params, err := pagination(r)
	if err != nil {
		writeParamError(w, err)
		return
	}
	page, err := s.equipment.List(r.Context(), params)
	if err != nil {
		s.writeServiceError(w, r, "equipment", err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse(page, params))
}

// GetEquipment handles GET /equipment/{id}.
func (s *Server) GetEquipment(w http.ResponseWriter, r *http.Request) {
	s.equipmentByID(w, r, s.equipment.Get)
}

// UpdateEquipment handles PUT /equipment/{id}.
func (s *Server) UpdateEquipment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeParamError(w, err)
		return
	}
	var body domain.EquipmentSpec
	if err := decodeJSON(r, &body); err != nil {
		writeRequestError(w, err.Error())
		return
	}
	updated, err := s.equipment.Update(r.Context(), id, body)
	if err != nil {
		s.writeServiceError(w, r, "equipment", err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// RecordMaintenance handles POST /equipment/{id}/maintenance.
func (s *Server) RecordMaintenance(w http.ResponseWriter, r *http.Request) {
	s.equipmentByID(w, r, s.equipment.RecordMaintenance)
}

// GetMaintenanceDue handles GET /equipment/{id}/maintenance.
func (s *Server) GetMaintenanceDue(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeParamError(w, err)
		return
	}
	due, err := s.equipment.IsMaintenanceDue(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, "equipment", err)
		return
	}
	writeJSON(w, http.StatusOK, MaintenanceResponse{EquipmentID: id, Due: due, BlockHeight: s.height()})
}

// DeactivateEquipment handles POST /equipment/{id}/deactivate.
func (s *Server) DeactivateEquipment(w http.ResponseWriter, r *http.Request) {
	s.equipmentByID(w, r, s.equipment.Deactivate)
}

// ReactivateEquipment handles POST /equipment/{id}/reactivate.
func (s *Server) ReactivateEquipment(w http.ResponseWriter, r *http.Request) {
	s.equipmentByID(w, r, s.equipment.Reactivate)
}

// AssignVehicleEquipment handles PUT /vehicles/{vehicleId}/equipment.
// The list replaces whatever the vehicle had before.
func (s *Server) AssignVehicleEquipment(w http.ResponseWriter, r *http.Request) {
	vehicleID, err := pathString(r, "vehicleId")
	if err != nil {
		writeParamError(w, err)
		return
	}
	var body AssignEquipmentRequest
	if err := decodeJSON(r, &body); err != nil {
		writeRequestError(w, err.Error())
		return
	}
	ve, err := s.equipment.AssignToVehicle(r.Context(), vehicleID, body.EquipmentList)
	if err != nil {
		s.writeServiceError(w, r, "vehicle", err)
		return
	}
	writeJSON(w, http.StatusOK, ve)
}

// GetVehicleEquipment handles GET /vehicles/{vehicleId}/equipment.
func (s *Server) GetVehicleEquipment(w http.ResponseWriter, r *http.Request) {
	vehicleID, err := pathString(r, "vehicleId")
	if err != nil {
		writeParamError(w, err)
		return
	}
	ve, err := s.equipment.VehicleEquipment(r.Context(), vehicleID)
	if err != nil {
		s.writeServiceError(w, r, "vehicle", err)
		return
	}
	writeJSON(w, http.StatusOK, ve)
}

func (s *Server) equipmentByID(w http.ResponseWriter, r *http.Request, fn func(context.Context, int64) (domain.Equipment, error)) {
	id, err := pathID(r)
	if err != nil {
		writeParamError(w, err)
		return
	}
	e, err := fn(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, "equipment", err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}
