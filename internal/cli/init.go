// Package cli provides common CLI initialization utilities shared by the
// splitbill subcommands.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"splitbill/internal/config"
	"splitbill/internal/log"
)

// SetupLogger initializes structured logging at the given level on w.
// Returns the configured logger and sets it as the default logger.
func SetupLogger(w io.Writer, level slog.Level) *log.Logger {
	logger := log.New(log.Config{
		Level:     level,
		Component: log.ComponentCLI,
		Output:    w,
	})
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// A missing file is not an error.
func LoadEnvFile(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load env file %s: %w", p, err)
		}
	}
	return nil
}

// LoadAndValidateConfig loads configuration and validates it. Failures are
// logged on logger under the config component and returned.
func LoadAndValidateConfig(logger *log.Logger) (*config.Config, error) {
	logger = logger.WithComponent(log.ComponentConfig)
	cfg, err := config.Load()
	if err != nil {
		logger.Error("configuration could not be parsed",
			log.NewFields().
				WithOperation(log.OpParse).
				WithErrorType(log.ErrorTypeConfiguration).
				WithError(err).
				ToSlice()...)
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("configuration validation failed",
			log.NewFields().
				WithOperation(log.OpValidate).
				WithErrorType(log.ErrorTypeConfiguration).
				WithError(err).
				ToSlice()...)
		return nil, err
	}
	return cfg, nil
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM, so an
// interactive prompt can stop without killing the process mid-write.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}
