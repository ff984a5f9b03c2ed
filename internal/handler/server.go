// Package handler implements the HTTP API for the medical transport registries.
// All handlers are methods on Server. Routes are registered on a chi router by
// Mount; each domain has its own file (patient.go, trip.go, etc.).
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/medtransport/internal/contract"
	"github.com/pkordes/medtransport/internal/domain"
)

// PatientServicer defines the patient operations the handlers depend on.
// Interfaces live here, in the consumer package, so tests can inject mocks.
type PatientServicer interface {
	Register(ctx context.Context, pr domain.PatientProfile) (domain.Patient, error)
	Get(ctx context.Context, id int64) (domain.Patient, error)
	List(ctx context.Context, p domain.PaginationParams) (domain.Page[domain.Patient], error)
	Update(ctx context.Context, id int64, pr domain.PatientProfile) (domain.Patient, error)
	Deactivate(ctx context.Context, id int64) (domain.Patient, error)
	Reactivate(ctx context.Context, id int64) (domain.Patient, error)
}

// DriverServicer defines the driver operations the handlers depend on.
type DriverServicer interface {
	Register(ctx context.Context, pr domain.DriverProfile) (domain.Driver, error)
	Get(ctx context.Context, id int64) (domain.Driver, error)
	List(ctx context.Context, p domain.PaginationParams) (domain.Page[domain.Driver], error)
	Update(ctx context.Context, id int64, pr domain.DriverProfile) (domain.Driver, error)
	Rate(ctx context.Context, id int64, rating int) (domain.Driver, error)
	IsCertificationValid(ctx context.Context, id int64) (bool, error)
}

// TripServicer defines the trip operations the handlers depend on.
type TripServicer interface {
	Schedule(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	Get(ctx context.Context, id int64) (domain.Trip, error)
	List(ctx context.Context, f domain.TripFilter, p domain.PaginationParams) (domain.Page[domain.Trip], error)
	Update(ctx context.Context, id int64, plan domain.TripPlan) (domain.Trip, error)
	Start(ctx context.Context, id int64) (domain.Trip, error)
	Complete(ctx context.Context, id int64) (domain.Trip, error)
	Cancel(ctx context.Context, id int64) (domain.Trip, error)
}

// EquipmentServicer defines the equipment operations the handlers depend on.
type EquipmentServicer interface {
	Register(ctx context.Context, spec domain.EquipmentSpec) (domain.Equipment, error)
	Get(ctx context.Context, id int64) (domain.Equipment, error)
	List(ctx context.Context, p domain.PaginationParams) (domain.Page[domain.Equipment], error)
	Update(ctx context.Context, id int64, spec domain.EquipmentSpec) (domain.Equipment, error)
	RecordMaintenance(ctx context.Context, id int64) (domain.Equipment, error)
	IsMaintenanceDue(ctx context.Context, id int64) (bool, error)
	Deactivate(ctx context.Context, id int64) (domain.Equipment, error)
	Reactivate(ctx context.Context, id int64) (domain.Equipment, error)
	AssignToVehicle(ctx context.Context, vehicleID string, equipment []int64) (domain.VehicleEquipment, error)
	VehicleEquipment(ctx context.Context, vehicleID string) (domain.VehicleEquipment, error)
}

// ExportServicer defines the manifest export the handlers depend on.
type ExportServicer interface {
	Manifest(ctx context.Context, f domain.TripFilter) ([]domain.ManifestRow, error)
}

// ContractCaller is the method-name call surface.
type ContractCaller interface {
	Call(ctx context.Context, contract, method string, args ...any) contract.Result
}

// Clock reports the current block height.
type Clock interface {
	BlockHeight() uint64
}

// Deps holds everything the Server needs. A nil field disables the routes
// that depend on it.
type Deps struct {
	Patients  PatientServicer
	Drivers   DriverServicer
	Trips     TripServicer
	Equipment EquipmentServicer
	Export    ExportServicer
	Contracts ContractCaller
	Clock     Clock

	// Events serves GET /trips/events, normally an *events.Hub.
	Events http.Handler

	Logger *slog.Logger
}

// Server holds the dependencies of every handler.
type Server struct {
	patients  PatientServicer
	drivers   DriverServicer
	trips     TripServicer
	equipment EquipmentServicer
	export    ExportServicer
	contracts ContractCaller
	clock     Clock
	events    http.Handler
	log       *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
func NewServer(d Deps) *Server {
	log := d.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		patients:  d.Patients,
		drivers:   d.Drivers,
		trips:     d.Trips,
		equipment: d.Equipment,
		export:    d.Export,
		contracts: d.Contracts,
		clock:     d.Clock,
		events:    d.Events,
		log:       log,
	}
}

// Mount registers every route on r. main.go applies middleware to r first.
func (s *Server) Mount(r chi.Router) {
	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	if s.clock != nil {
		r.Get("/chain/height", s.GetBlockHeight)
		r.Put("/chain/height", s.SetBlockHeight)
	}
	if s.contracts != nil {
		r.Post("/contracts/{contract}/{method}", s.CallContract)
	}
	if s.patients != nil {
		r.Route("/patients", func(r chi.Router) {
			r.Get("/", s.ListPatients)
			r.Post("/", s.RegisterPatient)
			r.Get("/{id}", s.GetPatient)
			r.Put("/{id}", s.UpdatePatient)
			r.Post("/{id}/deactivate", s.DeactivatePatient)
			r.Post("/{id}/reactivate", s.ReactivatePatient)
		})
	}
	if s.drivers != nil {
		r.Route("/drivers", func(r chi.Router) {
			r.Get("/", s.ListDrivers)
			r.Post("/", s.RegisterDriver)
			r.Get("/{id}", s.GetDriver)
			r.Put("/{id}", s.UpdateDriver)
			r.Put("/{id}/rating", s.RateDriver)
			r.Get("/{id}/certification", s.GetCertification)
		})
	}
	r.Route("/trips", func(r chi.Router) {
		if s.export != nil {
			r.Get("/export", s.ExportTrips)
		}
		if s.events != nil {
			r.Get("/events", s.events.ServeHTTP)
		}
		if s.trips == nil {
			return
		}
		r.Get("/", s.ListTrips)
		r.Post("/", s.ScheduleTrip)
		r.Get("/{id}", s.GetTrip)
		r.Put("/{id}", s.UpdateTrip)
		r.Post("/{id}/start", s.StartTrip)
		r.Post("/{id}/complete", s.CompleteTrip)
		r.Post("/{id}/cancel", s.CancelTrip)
	})
	if s.equipment != nil {
		r.Route("/equipment", func(r chi.Router) {
			r.Get("/", s.ListEquipment)
			r.Post("/", s.RegisterEquipment)
			r.Get("/{id}", s.GetEquipment)
			r.Put("/{id}", s.UpdateEquipment)
			r.Post("/{id}/maintenance", s.RecordMaintenance)
			r.Get("/{id}/maintenance", s.GetMaintenanceDue)
			r.Post("/{id}/deactivate", s.DeactivateEquipment)
			r.Post("/{id}/reactivate", s.ReactivateEquipment)
		})
		r.Get("/vehicles/{vehicleId}/equipment", s.GetVehicleEquipment)
		r.Put("/vehicles/{vehicleId}/equipment", s.AssignVehicleEquipment)
	}
}

// Handler returns a chi router with every route of s mounted and no middleware.
func Handler(s *Server) http.Handler {
	r := chi.NewRouter()
	s.Mount(r)
	return r
}
