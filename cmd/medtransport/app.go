package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pkordes/medtransport/internal/config"
	"github.com/pkordes/medtransport/internal/contract"
	"github.com/pkordes/medtransport/internal/events"
	"github.com/pkordes/medtransport/internal/ledger"
	"github.com/pkordes/medtransport/internal/repo"
	"github.com/pkordes/medtransport/internal/service"
)

// app is every long-lived dependency shared by serve and call.
type app struct {
	clock     ledger.Clock
	hub       *events.Hub
	patients  *service.PatientService
	drivers   *service.DriverService
	trips     *service.TripService
	equipment *service.EquipmentService
	export    *service.ExportService
	ledger    *contract.Ledger

	closers []func()
}

type repos struct {
	patients  repo.PatientRepo
	drivers   repo.DriverRepo
	trips     repo.TripRepo
	equipment repo.EquipmentRepo
}

// newApp wires storage, the clock, event publishers and the services.
// Callers must Close the returned app.
func newApp(ctx context.Context, cfg config.Config, log *slog.Logger) (*app, error) {
	a := &app{clock: newClock(cfg), hub: events.NewHub(log)}

	r, err := a.openRepos(ctx, cfg, log)
	if err != nil {
		a.Close()
		return nil, err
	}

	publishers := events.Multi{a.hub}
	if cfg.AMQPURL != "" {
		pub, err := events.DialAMQP(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("connect to rabbitmq: %w", err)
		}
		a.closers = append(a.closers, func() { _ = pub.Close() })
		publishers = append(publishers, pub)
		log.Info("publishing trip events to rabbitmq", "exchange", cfg.AMQPExchange)
	}

	a.patients = service.NewPatientService(r.patients)
	a.drivers = service.NewDriverService(r.drivers, a.clock)
	a.trips = service.NewTripService(r.trips, a.clock,
		service.WithPublisher(publishers),
		service.WithLogger(log),
	)
	a.equipment = service.NewEquipmentService(r.equipment, a.clock)
	a.export = service.NewExportService(r.trips)
	a.ledger = contract.NewLedger(a.patients, a.drivers, a.trips, a.equipment, log)
	return a, nil
}

func (a *app) openRepos(ctx context.Context, cfg config.Config, log *slog.Logger) (repos, error) {
	if cfg.Store == config.StoreMemory {
		log.Info("using in-memory store; records are lost on exit")
		return repos{
			patients:  repo.NewMemPatientRepo(),
			drivers:   repo.NewMemDriverRepo(),
			trips:     repo.NewMemTripRepo(),
			equipment: repo.NewMemEquipmentRepo(),
		}, nil
	}

	// New() does not open connections immediately; the ping does.
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return repos{}, fmt.Errorf("create database pool: %w", err)
	}
	a.closers = append(a.closers, pool.Close)
	if err := pool.Ping(ctx); err != nil {
		return repos{}, fmt.Errorf("connect to database: %w", err)
	}
	log.Info("database connection established")

	return repos{
		patients:  repo.NewPatientRepo(pool),
		drivers:   repo.NewDriverRepo(pool),
		trips:     repo.NewTripRepo(pool),
		equipment: repo.NewEquipmentRepo(pool),
	}, nil
}

// Close releases connections in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func newClock(cfg config.Config) ledger.Clock {
	if cfg.ClockMode == config.ClockWall {
		genesis := cfg.LedgerGenesis
		if genesis.IsZero() {
			genesis = time.Now()
		}
		return ledger.WallClock{Genesis: genesis, Interval: cfg.BlockInterval}
	}
	return ledger.NewManualClock(0)
}
