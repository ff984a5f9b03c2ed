// Package config loads and validates application configuration from
// environment variables and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Store backends.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Clock modes.
const (
	ClockManual = "manual"
	ClockWall   = "wall"
)

// Config holds all configuration values for the server and the CLI.
// Values are populated by Load.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// Store selects the registry backend: memory (default) or postgres.
	Store string

	// DatabaseURL is the Postgres connection string. Required when Store is postgres.
	DatabaseURL string

	// ClockMode selects the block-height source: manual (default) or wall.
	ClockMode string

	// BlockInterval is the wall time per block in wall mode.
	BlockInterval time.Duration

	// LedgerGenesis is the time of block 0 in wall mode. Zero means process start.
	LedgerGenesis time.Time

	// JWTSecret is the HS256 key for bearer tokens. Empty disables auth.
	JWTSecret string

	// JWTIssuer, when set, must match each token's iss claim.
	JWTIssuer string

	// AMQPURL enables publishing trip events to RabbitMQ when set.
	AMQPURL string

	// AMQPExchange is the topic exchange trip events are published to.
	AMQPExchange string

	// MaxBodyBytes caps request bodies. Zero or less disables the limit.
	MaxBodyBytes int64
}

var keys = []string{
	"PORT", "LOG_LEVEL", "CORS_ORIGINS", "STORE", "DATABASE_URL",
	"CLOCK_MODE", "BLOCK_INTERVAL", "LEDGER_GENESIS",
	"JWT_SECRET", "JWT_ISSUER", "AMQP_URL", "AMQP_EXCHANGE", "MAX_BODY_BYTES",
}

// Load reads configuration from the environment (and ./.env if present) and
// returns a validated Config.
func Load() (Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ORIGINS", "http://localhost:5173")
	v.SetDefault("STORE", StoreMemory)
	v.SetDefault("CLOCK_MODE", ClockManual)
	v.SetDefault("BLOCK_INTERVAL", "10s")
	v.SetDefault("AMQP_EXCHANGE", "medtransport.trips")
	v.SetDefault("MAX_BODY_BYTES", 1<<20)

	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	// A missing .env is normal outside local development.
	_ = v.ReadInConfig()

	cfg := Config{
		Port:         v.GetString("PORT"),
		LogLevel:     strings.ToLower(v.GetString("LOG_LEVEL")),
		CORSOrigins:  splitCSV(v.GetString("CORS_ORIGINS")),
		Store:        strings.ToLower(v.GetString("STORE")),
		DatabaseURL:  v.GetString("DATABASE_URL"),
		ClockMode:    strings.ToLower(v.GetString("CLOCK_MODE")),
		JWTSecret:    v.GetString("JWT_SECRET"),
		JWTIssuer:    v.GetString("JWT_ISSUER"),
		AMQPURL:      v.GetString("AMQP_URL"),
		AMQPExchange: v.GetString("AMQP_EXCHANGE"),
		MaxBodyBytes: v.GetInt64("MAX_BODY_BYTES"),
	}

	var errs []error

	interval, err := time.ParseDuration(v.GetString("BLOCK_INTERVAL"))
	if err != nil {
		errs = append(errs, fmt.Errorf("BLOCK_INTERVAL: %w", err))
	}
	cfg.BlockInterval = interval

	if g := v.GetString("LEDGER_GENESIS"); g != "" {
		t, err := time.Parse(time.RFC3339, g)
		if err != nil {
			errs = append(errs, fmt.Errorf("LEDGER_GENESIS: %w", err))
		}
		cfg.LedgerGenesis = t
	}

	if err := cfg.validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return Config{}, errors.Join(errs...)
	}
	return cfg, nil
}

// RequireDatabase reports an error unless a database URL is configured.
// Commands that always need Postgres (migrate) call it regardless of Store.
func (c Config) RequireDatabase() error {
	if c.DatabaseURL == "" {
		return errors.New("required environment variables not set: DATABASE_URL")
	}
	return nil
}

func (c Config) validate() error {
	var errs []error
	switch c.Store {
	case StoreMemory:
	case StorePostgres:
		if err := c.RequireDatabase(); err != nil {
			errs = append(errs, err)
		}
	default:
		errs = append(errs, fmt.Errorf("STORE must be %q or %q, got %q", StoreMemory, StorePostgres, c.Store))
	}
	switch c.ClockMode {
	case ClockManual:
	case ClockWall:
		if c.BlockInterval <= 0 {
			errs = append(errs, fmt.Errorf("BLOCK_INTERVAL must be positive in wall mode, got %s", c.BlockInterval))
		}
	default:
		errs = append(errs, fmt.Errorf("CLOCK_MODE must be %q or %q, got %q", ClockManual, ClockWall, c.ClockMode))
	}
	return errors.Join(errs...)
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
