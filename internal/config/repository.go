package config

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/afero"

	"task-tracker/internal/repository"
	"task-tracker/internal/repository/jsonfile"
	"task-tracker/internal/repository/sqlite"
)

// CreateRepository creates the task repository selected by the storage backend
func CreateRepository(ctx context.Context, config *Config) (repository.TaskRepository, error) {
	return createRepository(ctx, config, afero.NewOsFs())
}

// CreateTestRepository creates a repository that never touches the disk
func CreateTestRepository(ctx context.Context, backend string) (repository.TaskRepository, error) {
	config := NewConfig()
	config.Storage.Backend = backend
	if backend == BackendSQLite {
		return sqlite.New(ctx, sqlite.MemoryPath)
	}
	return createRepository(ctx, config, afero.NewMemMapFs())
}

func createRepository(ctx context.Context, config *Config, fs afero.Fs) (repository.TaskRepository, error) {
	path := config.StoragePath()

	switch config.Storage.Backend {
	case BackendJSON, "":
		store := jsonfile.NewFileStore(fs, path).
			WithDirPermissions(os.FileMode(config.Storage.DirPermissions))
		return jsonfile.NewRepository(store), nil
	case BackendSQLite:
		if err := fs.MkdirAll(config.Storage.Dir, os.FileMode(config.Storage.DirPermissions)); err != nil {
			return nil, fmt.Errorf("failed to create storage directory: %w", err)
		}
		repo, err := sqlite.New(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		return repo, nil
	default:
		return nil, &ConfigError{Field: "storage.backend", Message: fmt.Sprintf("unknown backend %q", config.Storage.Backend)}
	}
}
