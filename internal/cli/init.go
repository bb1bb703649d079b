// Package cli provides common initialization utilities shared by
// cmd/budget, cmd/budget-worker and cmd/budgetctl.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"budgettracker/internal/backend"
	"budgettracker/internal/config"
	"budgettracker/internal/log"
	"budgettracker/internal/services"
	"budgettracker/internal/store"
)

// SetupLogger installs a text logger at the given LOG_LEVEL as the process
// default and returns it.
func SetupLogger(level string) *log.Logger {
	return SetupLoggerTo(os.Stdout, level)
}

// SetupLoggerTo is SetupLogger writing to w. budgetctl logs to stderr so
// command output stays clean.
func SetupLoggerTo(w io.Writer, level string) *log.Logger {
	logger := log.New(log.Config{
		Level:     log.ParseLevel(level),
		Component: log.ComponentApp,
		Handler: slog.NewTextHandler(w, &slog.HandlerOptions{
			Level: log.ParseLevel(level),
		}),
	})
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads a .env file for local development. With no paths the
// default ./.env is tried. A missing file is not an error.
func LoadEnvFile(paths ...string) {
	_ = godotenv.Load(paths...)
}

// LoadAndValidateConfig loads configuration and validates it.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Runtime bundles the objects every binary needs around one store.
type Runtime struct {
	Config    *config.Config
	Logger    *log.Logger
	Backend   *backend.BackendResult
	Store     *store.Store
	Processor *services.RecurringProcessor
}

// Close releases the backend.
func (r *Runtime) Close() error {
	if r.Backend != nil && r.Backend.Cleanup != nil {
		return r.Backend.Cleanup()
	}
	return nil
}

// OpenRuntime opens the configured backend and loads the store from it.
func OpenRuntime(ctx context.Context, cfg *config.Config, logger *log.Logger) (*Runtime, error) {
	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	result, err := backend.NewFactory(logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		return nil, fmt.Errorf("create backend: %w", err)
	}

	checker, err := services.GetDuenessChecker(cfg.RecurrencePolicy)
	if err != nil {
		result.Cleanup()
		return nil, err
	}

	st := store.New(result.Repository, store.WithLogger(logger))
	st.Load(ctx)

	return &Runtime{
		Config:    cfg,
		Logger:    logger,
		Backend:   result,
		Store:     st,
		Processor: services.NewRecurringProcessor(st, checker, logger),
	}, nil
}

// GracefulShutdown sets up signal handling for graceful shutdown.
// Returns a context that will be cancelled on shutdown signals,
// and a channel that signals when shutdown is complete.
func GracefulShutdown(logger *log.Logger, timeout time.Duration, cleanup func()) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		cancel()

		finished := make(chan struct{})
		go func() {
			if cleanup != nil {
				cleanup()
			}
			close(finished)
		}()

		select {
		case <-finished:
			logger.Info("Shutdown complete")
		case <-time.After(timeout):
			logger.Warn("Shutdown timeout reached")
		}
		close(done)
	}()

	return ctx, done
}
