// Package testutil provides the Postgres harness for the registry integration
// tests: connections to TEST_DATABASE_URL, the goose migrations over
// migrations.FS, and per-test transactions that roll back every registry
// write (including the id counters) when the test ends.
//
// Helpers that take a *testing.T skip the test when TEST_DATABASE_URL is not
// set, so `go test ./...` runs without a database.
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql
	"github.com/pressly/goose/v3"

	"github.com/pkordes/medtransport/migrations"
)

// EnvDatabaseURL names the variable holding the integration database DSN.
const EnvDatabaseURL = "TEST_DATABASE_URL"

// RegistryTables lists every table created by the migrations, in creation order.
var RegistryTables = []string{
	"registry_counters", "patients", "drivers", "trips", "equipment", "vehicle_equipment",
}

// NewPool opens a pool on the integration database and closes it when the
// test finishes. The repo package wraps it in NewRegistryTx.
func NewPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	pool, err := pgxpool.New(context.Background(), requireDSN(t))
	if err != nil {
		t.Fatalf("testutil.NewPool: open pool: %v", err)
	}
	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		t.Fatalf("testutil.NewPool: ping: %v", err)
	}

	t.Cleanup(pool.Close)
	return pool
}

// NewRegistryTx begins a transaction for one test and rolls it back on
// cleanup. registry_counters is updated inside the same transaction, so ids
// restart where they were and tests never see each other's patients,
// drivers, trips or equipment.
func NewRegistryTx(t *testing.T) pgx.Tx {
	t.Helper()

	tx, err := NewPool(t).Begin(context.Background())
	if err != nil {
		t.Fatalf("testutil.NewRegistryTx: begin: %v", err)
	}
	t.Cleanup(func() { _ = tx.Rollback(context.Background()) })
	return tx
}

// NewSQLDB opens a *sql.DB through the pgx database/sql driver, which is
// what goose needs. It is closed when the test finishes.
func NewSQLDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := openSQLDB(requireDSN(t))
	if err != nil {
		t.Fatalf("testutil.NewSQLDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// NewMigrator returns a goose provider over the embedded registry migrations.
func NewMigrator(db *sql.DB) (*goose.Provider, error) {
	p, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return nil, fmt.Errorf("testutil.NewMigrator: %w", err)
	}
	return p, nil
}

// MigrateUp applies every pending registry migration to dsn. It is meant for
// TestMain, where no *testing.T is available.
func MigrateUp(ctx context.Context, dsn string) error {
	db, err := openSQLDB(dsn)
	if err != nil {
		return fmt.Errorf("testutil.MigrateUp: %w", err)
	}
	defer db.Close()

	p, err := NewMigrator(db)
	if err != nil {
		return err
	}
	if _, err := p.Up(ctx); err != nil {
		return fmt.Errorf("testutil.MigrateUp: %w", err)
	}
	return nil
}

func openSQLDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return db, nil
}

func requireDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv(EnvDatabaseURL)
	if dsn == "" {
		t.Skip(EnvDatabaseURL + " not set; skipping integration test")
	}
	return dsn
}
