package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pkordes/medtransport/internal/contract"
	"github.com/pkordes/medtransport/internal/domain"
	"github.com/pkordes/medtransport/internal/handler"
)

// Hand-written mocks: set only the function fields a test needs.

type mockPatientServicer struct {
	register   func(ctx context.Context, pr domain.PatientProfile) (domain.Patient, error)
	get        func(ctx context.Context, id int64) (domain.Patient, error)
	list       func(ctx context.Context, p domain.PaginationParams) (domain.Page[domain.Patient], error)
	update     func(ctx context.Context, id int64, pr domain.PatientProfile) (domain.Patient, error)
	deactivate func(ctx context.Context, id int64) (domain.Patient, error)
	reactivate func(ctx context.Context, id int64) (domain.Patient, error)
}

func (m *mockPatientServicer) Register(ctx context.Context, pr domain.PatientProfile) (domain.Patient, error) {
	return m.register(ctx, pr)
}
func (m *mockPatientServicer) Get(ctx context.Context, id int64) (domain.Patient, error) {
	return m.get(ctx, id)
}
func (m *mockPatientServicer) List(ctx context.Context, p domain.PaginationParams) (domain.Page[domain.Patient], error) {
	return m.list(ctx, p)
}
func (m *mockPatientServicer) Update(ctx context.Context, id int64, pr domain.PatientProfile) (domain.Patient, error) {
	return m.update(ctx, id, pr)
}
func (m *mockPatientServicer) Deactivate(ctx context.Context, id int64) (domain.Patient, error) {
	return m.deactivate(ctx, id)
}
func (m *mockPatientServicer) Reactivate(ctx context.Context, id int64) (domain.Patient, error) {
	return m.reactivate(ctx, id)
}

var _ handler.PatientServicer = (*mockPatientServicer)(nil)

type mockDriverServicer struct {
	register      func(ctx context.Context, pr domain.DriverProfile) (domain.Driver, error)
	get           func(ctx context.Context, id int64) (domain.Driver, error)
	list          func(ctx context.Context, p domain.PaginationParams) (domain.Page[domain.Driver], error)
	update        func(ctx context.Context, id int64, pr domain.DriverProfile) (domain.Driver, error)
	rate          func(ctx context.Context, id int64, rating int) (domain.Driver, error)
	certification func(ctx context.Context, id int64) (bool, error)
}

func (m *mockDriverServicer) Register(ctx context.Context, pr domain.DriverProfile) (domain.Driver, error) {
	return m.register(ctx, pr)
}
func (m *mockDriverServicer) Get(ctx context.Context, id int64) (domain.Driver, error) {
	return m.get(ctx, id)
}
func (m *mockDriverServicer) List(ctx context.Context, p domain.PaginationParams) (domain.Page[domain.Driver], error) {
	return m.list(ctx, p)
}
func (m *mockDriverServicer) Update(ctx context.Context, id int64, pr domain.DriverProfile) (domain.Driver, error) {
	return m.update(ctx, id, pr)
}
func (m *mockDriverServicer) Rate(ctx context.Context, id int64, rating int) (domain.Driver, error) {
	return m.rate(ctx, id, rating)
}
func (m *mockDriverServicer) IsCertificationValid(ctx context.Context, id int64) (bool, error) {
	return m.certification(ctx, id)
}

var _ handler.DriverServicer = (*mockDriverServicer)(nil)

type mockTripServicer struct {
	schedule func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	get      func(ctx context.Context, id int64) (domain.Trip, error)
	list     func(ctx context.Context, f domain.TripFilter, p domain.PaginationParams) (domain.Page[domain.Trip], error)
	update   func(ctx context.Context, id int64, plan domain.TripPlan) (domain.Trip, error)
	start    func(ctx context.Context, id int64) (domain.Trip, error)
	complete func(ctx context.Context, id int64) (domain.Trip, error)
	cancel   func(ctx context.Context, id int64) (domain.Trip, error)
}

func (m *mockTripServicer) Schedule(ctx context.Context, t domain.Trip) (domain.Trip, error) {
	return m.schedule(ctx, t)
}
func (m *mockTripServicer) Get(ctx context.Context, id int64) (domain.Trip, error) {
	return m.get(ctx, id)
}
func (m *mockTripServicer) List(ctx context.Context, f domain.TripFilter, p domain.PaginationParams) (domain.Page[domain.Trip], error) {
	return m.list(ctx, f, p)
}
func (m *mockTripServicer) Update(ctx context.Context, id int64, plan domain.TripPlan) (domain.Trip, error) {
	return m.update(ctx, id, plan)
}
func (m *mockTripServicer) Start(ctx context.Context, id int64) (domain.Trip, error) {
	return m.start(ctx, id)
}
func (m *mockTripServicer) Complete(ctx context.Context, id int64) (domain.Trip, error) {
	return m.complete(ctx, id)
}
func (m *mockTripServicer) Cancel(ctx context.Context, id int64) (domain.Trip, error) {
	return m.cancel(ctx, id)
}

var _ handler.TripServicer = (*mockTripServicer)(nil)

type mockEquipmentServicer struct {
	register    func(ctx context.Context, spec domain.EquipmentSpec) (domain.Equipment, error)
	get         func(ctx context.Context, id int64) (domain.Equipment, error)
	list        func(ctx context.Context, p domain.PaginationParams) (domain.Page[domain.Equipment], error)
	update      func(ctx context.Context, id int64, spec domain.EquipmentSpec) (domain.Equipment, error)
	maintain    func(ctx context.Context, id int64) (domain.Equipment, error)
	due         func(ctx context.Context, id int64) (bool, error)
	deactivate  func(ctx context.Context, id int64) (domain.Equipment, error)
	reactivate  func(ctx context.Context, id int64) (domain.Equipment, error)
	assign      func(ctx context.Context, vehicleID string, equipment []int64) (domain.VehicleEquipment, error)
	vehicleList func(ctx context.Context, vehicleID string) (domain.VehicleEquipment, error)
}

func (m *mockEquipmentServicer) Register(ctx context.Context, spec domain.EquipmentSpec) (domain.Equipment, error) {
	return m.register(ctx, spec)
}
func (m *mockEquipmentServicer) Get(ctx context.Context, id int64) (domain.Equipment, error) {
	return m.get(ctx, id)
}
func (m *mockEquipmentServicer) List(ctx context.Context, p domain.PaginationParams) (domain.Page[domain.Equipment], error) {
	return m.list(ctx, p)
}
func (m *mockEquipmentServicer) Update(ctx context.Context, id int64, spec domain.EquipmentSpec) (domain.Equipment, error) {
	return m.update(ctx, id, spec)
}
func (m *mockEquipmentServicer) RecordMaintenance(ctx context.Context, id int64) (domain.Equipment, error) {
	return m.maintain(ctx, id)
}
func (m *mockEquipmentServicer) IsMaintenanceDue(ctx context.Context, id int64) (bool, error) {
	return m.due(ctx, id)
}
func (m *mockEquipmentServicer) Deactivate(ctx context.Context, id int64) (domain.Equipment, error) {
	return m.deactivate(ctx, id)
}
func (m *mockEquipmentServicer) Reactivate(ctx context.Context, id int64) (domain.Equipment, error) {
	return m.reactivate(ctx, id)
}
func (m *mockEquipmentServicer) AssignToVehicle(ctx context.Context, vehicleID string, equipment []int64) (domain.VehicleEquipment, error) {
	return m.assign(ctx, vehicleID, equipment)
}
func (m *mockEquipmentServicer) VehicleEquipment(ctx context.Context, vehicleID string) (domain.VehicleEquipment, error) {
	return m.vehicleList(ctx, vehicleID)
}

var _ handler.EquipmentServicer = (*mockEquipmentServicer)(nil)

type mockExportServicer struct {
	manifest func(ctx context.Context, f domain.TripFilter) ([]domain.ManifestRow, error)
}

func (m *mockExportServicer) Manifest(ctx context.Context, f domain.TripFilter) ([]domain.ManifestRow, error) {
	return m.manifest(ctx, f)
}

var _ handler.ExportServicer = (*mockExportServicer)(nil)

type mockContractCaller struct {
	call func(ctx context.Context, contract, method string, args ...any) contract.Result
}

func (m *mockContractCaller) Call(ctx context.Context, c, method string, args ...any) contract.Result {
	return m.call(ctx, c, method, args...)
}

var _ handler.ContractCaller = (*mockContractCaller)(nil)

// ---- helpers ---------------------------------------------------------------

// newHTTPHandler wires a Server with the given deps into a chi router,
// the same way main.go does minus the middleware.
func newHTTPHandler(d handler.Deps) http.Handler {
	return handler.Handler(handler.NewServer(d))
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(h http.Handler, method, target string, body *bytes.Buffer) *httptest.ResponseRecorder {
	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, body)
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) handler.ErrorDetail {
	t.Helper()
	var resp handler.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp.Error
}
