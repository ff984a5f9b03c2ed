package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/medtransport/internal/domain"
	"github.com/pkordes/medtransport/internal/handler"
	"github.com/pkordes/medtransport/internal/ledger"
)

func equipmentFixture() domain.Equipment {
	return domain.Equipment{
		ID: 1,
		EquipmentSpec: domain.EquipmentSpec{
			Name:                  "Wheelchair Lift",
			Description:           "Hydraulic lift for wheelchairs",
			CertificationRequired: true,
			MaintenanceInterval:   10000,
		},
		LastMaintenance: 0,
		Active:          true,
	}
}

func equipmentHandler(svc handler.EquipmentServicer) http.Handler {
	return newHTTPHandler(handler.Deps{Equipment: svc, Clock: ledger.NewManualClock(5000)})
}

func TestRegisterEquipment_201(t *testing.T) {
	fixture := equipmentFixture()
	svc := &mockEquipmentServicer{
		register: func(_ context.Context, spec domain.EquipmentSpec) (domain.Equipment, error) {
			return domain.Equipment{ID: 1, EquipmentSpec: spec, Active: true}, nil
		},
	}

	rec := do(equipmentHandler(svc), http.MethodPost, "/equipment", jsonBody(t, fixture.EquipmentSpec))

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp domain.Equipment
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, fixture, resp)
}

func TestUpdateEquipment_404(t *testing.T) {
	svc := &mockEquipmentServicer{
		update: func(_ context.Context, _ int64, _ domain.EquipmentSpec) (domain.Equipment, error) {
			return domain.Equipment{}, domain.ErrNotFound
		},
	}

	rec := do(equipmentHandler(svc), http.MethodPut, "/equipment/8", jsonBody(t, equipmentFixture().EquipmentSpec))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "equipment not found", decodeError(t, rec).Message)
}

func TestRecordMaintenance_200(t *testing.T) {
	svc := &mockEquipmentServicer{
		maintain: func(_ context.Context, id int64) (domain.Equipment, error) {
			e := equipmentFixture()
			e.LastMaintenance = 5000
			return e, nil
		},
	}

	rec := do(equipmentHandler(svc), http.MethodPost, "/equipment/1/maintenance", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp domain.Equipment
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, uint64(5000), resp.LastMaintenance)
}

func TestGetMaintenanceDue_200(t *testing.T) {
	svc := &mockEquipmentServicer{
		due: func(_ context.Context, _ int64) (bool, error) { return false, nil },
	}

	rec := do(equipmentHandler(svc), http.MethodGet, "/equipment/1/maintenance", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp handler.MaintenanceResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, handler.MaintenanceResponse{EquipmentID: 1, Due: false, BlockHeight: 5000}, resp)
}

func TestDeactivateEquipment_200(t *testing.T) {
	svc := &mockEquipmentServicer{
		deactivate: func(_ context.Context, id int64) (domain.Equipment, error) {
			return domain.Equipment{ID: id, Active: false}, nil
		},
	}

	rec := do(equipmentHandler(svc), http.MethodPost, "/equipment/1/deactivate", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"active":false`)
}

func TestAssignVehicleEquipment_200(t *testing.T) {
	var gotVehicle string
	var gotList []int64
	svc := &mockEquipmentServicer{
		assign: func(_ context.Context, vehicleID string, equipment []int64) (domain.VehicleEquipment, error) {
			gotVehicle, gotList = vehicleID, equipment
			return domain.VehicleEquipment{VehicleID: vehicleID, EquipmentList: equipment}, nil
		},
	}

	rec := do(equipmentHandler(svc), http.MethodPut, "/vehicles/VEH-001/equipment", jsonBody(t, map[string]any{"equipmentList": []int{1, 2}}))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "VEH-001", gotVehicle)
	assert.Equal(t, []int64{1, 2}, gotList)
}

func TestGetVehicleEquipment_404(t *testing.T) {
	svc := &mockEquipmentServicer{
		vehicleList: func(_ context.Context, _ string) (domain.VehicleEquipment, error) {
			return domain.VehicleEquipment{}, domain.ErrNotFound
		},
	}

	rec := do(equipmentHandler(svc), http.MethodGet, "/vehicles/VEH-404/equipment", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "vehicle not found", decodeError(t, rec).Message)
}
