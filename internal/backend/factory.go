package backend

import (
	"context"
	"fmt"

	"katha/internal/log"
	"katha/internal/snapshot/file"
	"katha/internal/snapshot/memory"
	"katha/internal/storage"
	"katha/internal/worker"
)

// DefaultFactory implements the Factory interface.
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory.
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.New(log.Config{Component: log.ComponentBackend})
	}
	return &DefaultFactory{logger: logger}
}

// CreateBackend implements Factory.CreateBackend.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case FileBackend:
		return f.createFileBackend(config)
	case SQLiteBackend:
		return f.createSQLiteBackend(config)
	case MemoryBackend:
		return f.createMemoryBackend()
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

// createFileBackend keeps export bookkeeping in memory; a restarted worker
// re-exports once, which is harmless since exports are full rewrites.
func (f *DefaultFactory) createFileBackend(config Config) (*BackendResult, error) {
	store, err := file.New(config.DataDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize file store: %w", err)
	}

	f.logger.Info("Initialized file backend", "data_directory", config.DataDirectory)

	return &BackendResult{
		Store:   store,
		Tracker: worker.NewMemoryTracker(),
		Ping:    store.Ping,
		Cleanup: noCleanup,
	}, nil
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*BackendResult, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)

	return &BackendResult{
		Store:   repo,
		Tracker: repo,
		Ping:    repo.Ping,
		Cleanup: repo.Close,
	}, nil
}

func (f *DefaultFactory) createMemoryBackend() (*BackendResult, error) {
	f.logger.Warn("Initialized memory backend; data is lost on restart")

	return &BackendResult{
		Store:   memory.New(),
		Tracker: worker.NewMemoryTracker(),
		Ping:    func(ctx context.Context) error { return ctx.Err() },
		Cleanup: noCleanup,
	}, nil
}

func noCleanup() error { return nil }
