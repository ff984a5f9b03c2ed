package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/medtransport/internal/config"
	"github.com/pkordes/medtransport/internal/contract"
	"github.com/pkordes/medtransport/internal/ledger"
)

func memoryConfig() config.Config {
	return config.Config{
		Store:        config.StoreMemory,
		ClockMode:    config.ClockManual,
		CORSOrigins:  []string{"http://localhost:5173"},
		MaxBodyBytes: 1 << 20,
	}
}

func newTestApp(t *testing.T, cfg config.Config) (*app, http.Handler) {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	a, err := newApp(context.Background(), cfg, logger)
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a, newRouter(cfg, logger, a)
}

func send(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestServe_RESTAndContractsShareTheStore(t *testing.T) {
	_, h := newTestApp(t, memoryConfig())

	rec := send(t, h, http.MethodPost, "/drivers", map[string]any{
		"name": "Jane Smith", "license": "DL123456", "medicalTraining": "EMT-Basic",
		"vehicleId": "VEH-001", "contact": "555-0200",
		"certificationExpiry": 1000000, "backgroundCheck": true,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = send(t, h, http.MethodPost, "/contracts/driver-verification/rate-driver", map[string]any{"args": []any{1, 5}})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = send(t, h, http.MethodGet, "/drivers/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var driver struct {
		Rating int `json:"rating"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&driver))
	assert.Equal(t, 5, driver.Rating)
}

func TestServe_ChainHeightDrivesCertification(t *testing.T) {
	_, h := newTestApp(t, memoryConfig())

	require.Equal(t, http.StatusCreated, send(t, h, http.MethodPost, "/drivers", map[string]any{
		"name": "Jane Smith", "license": "DL123456", "certificationExpiry": 1000000,
	}).Code)

	require.Equal(t, http.StatusOK, send(t, h, http.MethodPut, "/chain/height", map[string]any{"blockHeight": 1500000}).Code)

	rec := send(t, h, http.MethodGet, "/drivers/1/certification", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"valid":false`)
}

func TestServe_AuthEnabled(t *testing.T) {
	cfg := memoryConfig()
	cfg.JWTSecret = "s3cret"
	_, h := newTestApp(t, cfg)

	assert.Equal(t, http.StatusOK, send(t, h, http.MethodGet, "/healthz", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, send(t, h, http.MethodGet, "/patients", nil).Code)
}

func TestServe_BodyLimit(t *testing.T) {
	cfg := memoryConfig()
	cfg.MaxBodyBytes = 16
	_, h := newTestApp(t, cfg)

	rec := send(t, h, http.MethodPost, "/patients", map[string]any{"name": "a patient with a long name"})

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestCall_Ledger(t *testing.T) {
	a, _ := newTestApp(t, memoryConfig())
	ctx := context.Background()

	res := a.ledger.Call(ctx, contract.PatientRegistration, "register-patient",
		parseCallArgs([]string{"Alice", "1 Elm St", "555-0100", "none", "wheelchair", "", "Bob"})...)
	require.True(t, res.Success, res.Error)

	res = a.ledger.CallReadOnly(ctx, contract.PatientRegistration, "get-patient", parseCallArgs([]string{"1"})...)
	require.True(t, res.Success, res.Error)

	var buf bytes.Buffer
	require.NoError(t, printResult(&buf, res))
	assert.Contains(t, buf.String(), `"success": true`)
	assert.Contains(t, buf.String(), `"Alice"`)
}

func TestParseCallArgs(t *testing.T) {
	got := parseCallArgs([]string{"1", "true", "[1,2]", "VEH-001", `"quoted"`, "12abc", ""})

	assert.Equal(t, []any{
		json.Number("1"),
		true,
		[]any{json.Number("1"), json.Number("2")},
		"VEH-001",
		"quoted",
		"12abc",
		"",
	}, got)
}

func TestNewClock(t *testing.T) {
	manual := newClock(config.Config{ClockMode: config.ClockManual})
	_, ok := manual.(*ledger.ManualClock)
	assert.True(t, ok)

	genesis := time.Now().Add(-time.Minute)
	wall := newClock(config.Config{ClockMode: config.ClockWall, BlockInterval: 10 * time.Second, LedgerGenesis: genesis})
	assert.Equal(t, uint64(6), wall.BlockHeight())
}
