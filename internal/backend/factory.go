package backend

import (
	"context"
	"fmt"

	"budgettracker/internal/log"
	"budgettracker/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.Discard()
	}
	return &DefaultFactory{
		logger: logger.WithComponent(log.ComponentBackend),
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case SQLiteBackend:
		return f.createSQLiteBackend(ctx, config)
	case FileBackend:
		return f.createFileBackend(ctx, config)
	case MemoryBackend:
		return f.createMemoryBackend(ctx)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createSQLiteBackend(ctx context.Context, config Config) (*BackendResult, error) {
	kv, err := storage.NewSQLiteKV(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite storage: %w", err)
	}

	f.logger.InfoContext(ctx, "Initialized SQLite backend", "db_path", config.SQLiteDBPath)

	return &BackendResult{
		Repository: storage.NewRepository(kv, f.logger),
		Ping:       kv.Ping,
		Cleanup:    kv.Close,
	}, nil
}

func (f *DefaultFactory) createFileBackend(ctx context.Context, config Config) (*BackendResult, error) {
	kv, err := storage.NewFileKV(config.DataDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	f.logger.InfoContext(ctx, "Initialized file backend", "data_directory", config.DataDirectory)

	return &BackendResult{
		Repository: storage.NewRepository(kv, f.logger),
		Cleanup:    kv.Close,
	}, nil
}

func (f *DefaultFactory) createMemoryBackend(ctx context.Context) (*BackendResult, error) {
	kv := storage.NewMemoryKV()

	f.logger.InfoContext(ctx, "Initialized memory backend; data is lost on exit")

	return &BackendResult{
		Repository: storage.NewRepository(kv, f.logger),
		Cleanup:    kv.Close,
	}, nil
}
