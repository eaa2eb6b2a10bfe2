package jsonfile

import (
	"context"
	"strconv"
	"time"

	"task-tracker/internal/domain"
	"task-tracker/internal/errors"
	"task-tracker/internal/repository"
)

// timeNow allows tests to pin the clock.
var timeNow = time.Now

// Repository implements repository.TaskRepository over a FileStore.
type Repository struct {
	store *FileStore
}

var _ repository.TaskRepository = (*Repository)(nil)

// NewRepository creates a repository backed by store.
func NewRepository(store *FileStore) *Repository {
	return &Repository{store: store}
}

// Close releases nothing; the store holds no open handles between calls.
func (r *Repository) Close() error {
	return nil
}

func (r *Repository) load(ctx context.Context) ([]domain.Task, error) {
	records, err := r.store.Read(ctx)
	if err != nil {
		return nil, err
	}
	tasks, err := ToDomainSlice(records)
	if err != nil {
		return nil, errors.NewStorageError("decode tasks", err)
	}
	return tasks, nil
}

func (r *Repository) save(ctx context.Context, tasks []domain.Task) error {
	return r.store.Write(ctx, NewRecordSlice(tasks))
}

// FindAll returns every task in stored order.
func (r *Repository) FindAll(ctx context.Context) ([]domain.Task, error) {
	return r.load(ctx)
}

// FindByID returns the task with id, or nil when there is none.
func (r *Repository) FindByID(ctx context.Context, id int64) (*domain.Task, error) {
	tasks, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	if i := repository.FindIndex(tasks, id); i >= 0 {
		return &tasks[i], nil
	}
	return nil, nil
}

// FindByStatus returns the tasks in status.
func (r *Repository) FindByStatus(ctx context.Context, status domain.Status) ([]domain.Task, error) {
	return r.FindByFilters(ctx, domain.TaskFilters{Status: &status})
}

// FindByPriority returns the tasks with priority.
func (r *Repository) FindByPriority(ctx context.Context, priority domain.Priority) ([]domain.Task, error) {
	return r.FindByFilters(ctx, domain.TaskFilters{Priority: &priority})
}

// FindByTag returns the tasks carrying tag.
func (r *Repository) FindByTag(ctx context.Context, tag string) ([]domain.Task, error) {
	return r.FindByFilters(ctx, domain.TaskFilters{Tag: tag})
}

// FindOverdue returns unfinished tasks whose deadline has passed.
func (r *Repository) FindOverdue(ctx context.Context) ([]domain.Task, error) {
	return r.FindByFilters(ctx, domain.TaskFilters{Overdue: true})
}

// FindDueToday returns tasks whose deadline falls on the current local date.
func (r *Repository) FindDueToday(ctx context.Context) ([]domain.Task, error) {
	return r.FindByFilters(ctx, domain.TaskFilters{DueToday: true})
}

// FindByFilters returns the tasks matching every set filter.
func (r *Repository) FindByFilters(ctx context.Context, filters domain.TaskFilters) ([]domain.Task, error) {
	tasks, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	return repository.Filter(tasks, filters, timeNow()), nil
}

// NextID returns the id the next Create would assign.
func (r *Repository) NextID(ctx context.Context) (int64, error) {
	tasks, err := r.load(ctx)
	if err != nil {
		return 0, err
	}
	return r.nextID(ctx, tasks)
}

func (r *Repository) nextID(ctx context.Context, tasks []domain.Task) (int64, error) {
	highWater, err := r.store.ReadSequence(ctx)
	if err != nil {
		return 0, err
	}
	return max(repository.MaxID(tasks), highWater) + 1, nil
}

// Create appends a new task built from input and persists the collection.
func (r *Repository) Create(ctx context.Context, input domain.NewTask) (*domain.Task, error) {
	input, err := repository.PrepareNewTask(input)
	if err != nil {
		return nil, err
	}

	tasks, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	id, err := r.nextID(ctx, tasks)
	if err != nil {
		return nil, err
	}

	// The id is reserved before the task is stored: a failed save burns it,
	// but a stored task never outruns the sequence.
	if err := r.store.WriteSequence(ctx, id); err != nil {
		return nil, err
	}
	task := input.Build(id, timeNow())
	tasks = append(tasks, task)
	if err := r.save(ctx, tasks); err != nil {
		return nil, err
	}
	return &task, nil
}

// Update applies patch to the task with id. The collection is only rewritten
// when a field value actually changed.
func (r *Repository) Update(ctx context.Context, id int64, patch domain.TaskPatch) (*domain.Task, error) {
	if err := repository.CheckPatch(patch); err != nil {
		return nil, err
	}

	tasks, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	i := repository.FindIndex(tasks, id)
	if i < 0 {
		return nil, errors.NewNotFoundError("task", strconv.FormatInt(id, 10))
	}

	updated, changed := patch.ApplyTo(tasks[i], timeNow())
	if !changed {
		return &updated, nil
	}

	tasks[i] = updated
	if err := r.save(ctx, tasks); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes the task with id and reports whether it existed.
func (r *Repository) Delete(ctx context.Context, id int64) (bool, error) {
	tasks, err := r.load(ctx)
	if err != nil {
		return false, err
	}
	i := repository.FindIndex(tasks, id)
	if i < 0 {
		return false, nil
	}

	// Record the current maximum first so that removing it cannot free the id.
	highWater, err := r.store.ReadSequence(ctx)
	if err != nil {
		return false, err
	}
	if maxID := repository.MaxID(tasks); maxID > highWater {
		if err := r.store.WriteSequence(ctx, maxID); err != nil {
			return false, err
		}
	}

	remaining := append(tasks[:i:i], tasks[i+1:]...)
	if err := r.save(ctx, remaining); err != nil {
		return false, err
	}
	return true, nil
}
