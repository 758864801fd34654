// Package cli holds the start-up steps shared by the earnings binaries.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"earnings/internal/backend"
	"earnings/internal/config"
	"earnings/internal/entities"
	"earnings/internal/log"
)

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// NewLogger builds the text logger at cfg's level and makes it the default.
func NewLogger(cfg *config.Config, out io.Writer) *log.Logger {
	logger := log.New(log.Config{
		Level:     log.ParseLevel(cfg.LogLevel),
		Component: log.ComponentApp,
		Output:    out,
	})
	log.SetDefault(logger)
	return logger
}

// Bootstrap loads .env and the configuration, sets up logging to logOut and
// exits the process when the configuration is invalid.
func Bootstrap(binary string, logOut io.Writer) (*config.Config, *log.Logger) {
	LoadEnvFile()
	cfg := config.Load()
	logger := NewLogger(cfg, logOut)

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err, "binary", binary)
		os.Exit(1)
	}
	logger.Info("Starting "+binary, log.FieldOperation, log.OpStartup, "backend", cfg.DataBackend)
	return cfg, logger
}

// OpenStore creates the configured backend and an initialized entity store
// on top of it. The caller owns the returned backend's Cleanup.
func OpenStore(ctx context.Context, cfg *config.Config, logger *log.Logger) (*entities.Store, *backend.BackendResult, error) {
	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("backend config: %w", err)
	}
	be, err := backend.NewFactory(logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("create backend: %w", err)
	}

	store := entities.New(be.Store, entities.WithLogger(logger))
	if err := store.Init(ctx); err != nil {
		Close(logger, be)
		return nil, nil, fmt.Errorf("init entity store: %w", err)
	}
	return store, be, nil
}

// Close runs the backend cleanup, logging any failure.
func Close(logger *log.Logger, be *backend.BackendResult) {
	if be == nil || be.Cleanup == nil {
		return
	}
	if err := be.Cleanup(); err != nil {
		logger.Error("Backend cleanup failed", log.FieldError, err)
	}
}

// GracefulShutdown sets up signal handling for graceful shutdown.
// Returns a context that will be cancelled on shutdown signals,
// and a channel that is closed once cleanup has returned.
func GracefulShutdown(logger *log.Logger, timeout time.Duration, cleanup func(context.Context)) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		defer close(done)
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String(), log.FieldOperation, log.OpShutdown)
		case <-ctx.Done():
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()

		if cleanup != nil {
			cleanup(shutdownCtx)
		}
		cancel()

		if shutdownCtx.Err() != nil {
			logger.Warn("Shutdown timeout reached")
		}
	}()

	return ctx, done
}
