// Package repository defines the storage boundary for tasks and the
// in-memory query helpers shared by every backend.
package repository

import (
	"context"

	"task-tracker/internal/domain"
)

// TaskRepository owns the task collection. Every call reloads the
// collection from its backing store; nothing is cached between calls.
type TaskRepository interface {
	// Read operations
	FindAll(ctx context.Context) ([]domain.Task, error)
	FindByID(ctx context.Context, id int64) (*domain.Task, error)
	FindByStatus(ctx context.Context, status domain.Status) ([]domain.Task, error)
	FindByPriority(ctx context.Context, priority domain.Priority) ([]domain.Task, error)
	FindByTag(ctx context.Context, tag string) ([]domain.Task, error)
	FindOverdue(ctx context.Context) ([]domain.Task, error)
	FindDueToday(ctx context.Context) ([]domain.Task, error)
	FindByFilters(ctx context.Context, filters domain.TaskFilters) ([]domain.Task, error)

	// Write operations
	Create(ctx context.Context, input domain.NewTask) (*domain.Task, error)
	Update(ctx context.Context, id int64, patch domain.TaskPatch) (*domain.Task, error)
	Delete(ctx context.Context, id int64) (bool, error)

	// Utility
	NextID(ctx context.Context) (int64, error)
	Close() error
}
