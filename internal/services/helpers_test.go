package services

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"task-tracker/internal/domain"
	"task-tracker/internal/repository"
	"task-tracker/internal/repository/jsonfile"
)

const testStorePath = "/tasks/tasks.json"

var referenceTime = time.Date(2024, 6, 12, 15, 0, 0, 0, time.UTC) // a Wednesday

// setupRepository returns an empty repository on an in-memory filesystem
func setupRepository(t *testing.T) repository.TaskRepository {
	t.Helper()
	return jsonfile.NewRepository(jsonfile.NewFileStore(afero.NewMemMapFs(), testStorePath))
}

// setupRepositoryWithTasks seeds the store with tasks exactly as given
func setupRepositoryWithTasks(t *testing.T, tasks []domain.Task) repository.TaskRepository {
	t.Helper()
	store := jsonfile.NewFileStore(afero.NewMemMapFs(), testStorePath)
	require.NoError(t, store.Write(context.Background(), jsonfile.NewRecordSlice(tasks)))
	return jsonfile.NewRepository(store)
}

// pinTime fixes the service clock for the duration of the test
func pinTime(t *testing.T, now time.Time) {
	t.Helper()
	previous := timeNow
	timeNow = func() time.Time { return now }
	t.Cleanup(func() { timeNow = previous })
}

func makeTask(id int64, description string, status domain.Status, created, updated time.Time) domain.Task {
	return domain.Task{
		ID:          id,
		Description: description,
		Status:      status,
		Priority:    domain.PriorityMedium,
		Tags:        []string{},
		CreatedAt:   created,
		UpdatedAt:   updated,
	}
}

func ptr[T any](v T) *T {
	return &v
}
