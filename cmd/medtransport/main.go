// Command medtransport runs the medical transport registries: the HTTP API
// (serve), schema migrations (migrate) and one-off contract calls (call).
// Its sole responsibility is wiring dependencies together. No business logic
// belongs here.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/pkordes/medtransport/internal/config"
)

func main() {
	root := &cobra.Command{
		Use:           "medtransport",
		Short:         "Medical transport registries: patients, drivers, trips and equipment",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(serveCmd())
	root.AddCommand(migrateCmd())
	root.AddCommand(callCmd())

	if err := root.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

// loadConfig loads the configuration and installs the JSON logger as the
// slog default.
func loadConfig() (config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, err
	}
	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

// newLogger writes JSON lines to stdout. Unknown levels fall back to info.
func newLogger(level string) *slog.Logger {
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(level)); err != nil {
		logLevel = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
}
