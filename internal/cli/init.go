// Package cli holds the bootstrap steps shared by cmd/katha and
// cmd/katha-worker.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"katha/internal/backend"
	"katha/internal/config"
	"katha/internal/log"
)

// SetupLogger builds the process logger at the LOG_LEVEL found in the
// environment and installs it as the slog default.
func SetupLogger(component string) *log.Logger {
	level, err := config.ParseLevel(os.Getenv("LOG_LEVEL"))
	logger := log.New(log.Config{Level: level, Component: component})
	if err != nil {
		logger.Warn("Ignoring LOG_LEVEL", "error", err)
	}
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads .env files for local development. Missing files are
// ignored and existing environment variables win.
func LoadEnvFile(paths ...string) {
	_ = godotenv.Load(paths...)
}

// LoadAndValidateConfig loads configuration and exits the process when it
// is invalid. validate defaults to Config.Validate.
func LoadAndValidateConfig(logger *log.Logger, validate func(*config.Config) error) *config.Config {
	cfg := config.Load()
	if validate == nil {
		validate = (*config.Config).Validate
	}
	if err := validate(cfg); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// InitBackend opens the configured snapshot store or exits the process.
func InitBackend(ctx context.Context, logger *log.Logger, cfg *config.Config) *backend.BackendResult {
	bc, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}
	res, err := backend.NewFactory(logger.WithComponent(log.ComponentBackend)).CreateBackend(ctx, bc)
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err, "backend", bc.Type)
		os.Exit(1)
	}
	return res
}

// GracefulShutdown cancels the returned context on SIGINT or SIGTERM, then
// runs cleanup with a context bounded by timeout. done is closed once
// cleanup has returned.
func GracefulShutdown(logger *log.Logger, timeout time.Duration, cleanup func(ctx context.Context)) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		defer close(done)

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)

		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()

		finished := make(chan struct{})
		go func() {
			if cleanup != nil {
				cleanup(shutdownCtx)
			}
			close(finished)
		}()

		select {
		case <-finished:
			logger.Info("Shutdown complete")
		case <-shutdownCtx.Done():
			logger.Warn("Shutdown timeout reached")
		}
	}()

	return ctx, done
}

// WaitForShutdown blocks until the context is cancelled and cleanup is done.
func WaitForShutdown(ctx context.Context, done <-chan struct{}) {
	<-ctx.Done()
	<-done
}
