// Package sqlite is an embedded-database backend for the task repository.
package sqlite

import (
	"context"
	"database/sql"
	stderrors "errors"
	"strconv"
	"time"

	"task-tracker/internal/domain"
	"task-tracker/internal/errors"
	"task-tracker/internal/repository"
	"task-tracker/internal/repository/sqlite/migrations"

	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// timeNow allows tests to pin the clock.
var timeNow = time.Now

// SQLiteRepository implements repository.TaskRepository on SQLite
type SQLiteRepository struct {
	db *sql.DB
}

var _ repository.TaskRepository = (*SQLiteRepository)(nil)

// New opens (creating if needed) the database at dbPath and applies migrations
func New(ctx context.Context, dbPath string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.NewStorageError("open database", err)
	}
	if dbPath == MemoryPath {
		// every pooled connection would otherwise see its own empty database
		db.SetMaxOpenConns(1)
	}

	if err := migrations.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, errors.NewStorageError("run migrations", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) listWhere(ctx context.Context, where string, args ...interface{}) ([]domain.Task, error) {
	if err := errors.CheckContext(ctx, "list tasks"); err != nil {
		return nil, err
	}
	query := `SELECT ` + taskColumns + ` FROM tasks ` + where + ` ORDER BY id ASC`
	return QueryMultiple(ctx, r.db, query, ScanTasks, "tasks", args...)
}

// FindAll returns every task in insertion order
func (r *SQLiteRepository) FindAll(ctx context.Context) ([]domain.Task, error) {
	return r.listWhere(ctx, "")
}

// FindByID returns the task with id, or nil when there is none
func (r *SQLiteRepository) FindByID(ctx context.Context, id int64) (*domain.Task, error) {
	if err := errors.CheckContext(ctx, "get task"); err != nil {
		return nil, err
	}
	return r.findByID(ctx, r.db, id)
}

func (r *SQLiteRepository) findByID(ctx context.Context, q queryer, id int64) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`
	return QuerySingle(ctx, q, query, ScanTask, "task", id)
}

// FindByStatus returns the tasks in status
func (r *SQLiteRepository) FindByStatus(ctx context.Context, status domain.Status) ([]domain.Task, error) {
	return r.listWhere(ctx, "WHERE status = ?", status.String())
}

// FindByPriority returns the tasks with priority
func (r *SQLiteRepository) FindByPriority(ctx context.Context, priority domain.Priority) ([]domain.Task, error) {
	return r.listWhere(ctx, "WHERE priority = ?", priority.String())
}

// FindByTag returns the tasks carrying tag
func (r *SQLiteRepository) FindByTag(ctx context.Context, tag string) ([]domain.Task, error) {
	return r.FindByFilters(ctx, domain.TaskFilters{Tag: tag})
}

// FindOverdue returns unfinished tasks whose deadline has passed
func (r *SQLiteRepository) FindOverdue(ctx context.Context) ([]domain.Task, error) {
	return r.FindByFilters(ctx, domain.TaskFilters{Overdue: true})
}

// FindDueToday returns tasks whose deadline falls on the current local date
func (r *SQLiteRepository) FindDueToday(ctx context.Context) ([]domain.Task, error) {
	return r.FindByFilters(ctx, domain.TaskFilters{DueToday: true})
}

// FindByFilters returns the tasks matching every set filter
func (r *SQLiteRepository) FindByFilters(ctx context.Context, filters domain.TaskFilters) ([]domain.Task, error) {
	tasks, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return repository.Filter(tasks, filters, timeNow()), nil
}

// NextID returns the id the next Create would assign. AUTOINCREMENT keeps
// the high-water mark in sqlite_sequence, so deleted ids are not reused.
func (r *SQLiteRepository) NextID(ctx context.Context) (int64, error) {
	if err := errors.CheckContext(ctx, "next id"); err != nil {
		return 0, err
	}

	var seq int64
	err := r.db.QueryRowContext(ctx, `SELECT seq FROM sqlite_sequence WHERE name = 'tasks'`).Scan(&seq)
	if err != nil && !stderrors.Is(err, sql.ErrNoRows) {
		return 0, HandleDatabaseError("read sequence", err)
	}
	return seq + 1, nil
}

// Create inserts a new task built from input
func (r *SQLiteRepository) Create(ctx context.Context, input domain.NewTask) (*domain.Task, error) {
	input, err := repository.PrepareNewTask(input)
	if err != nil {
		return nil, err
	}
	if err := errors.CheckContext(ctx, "create task"); err != nil {
		return nil, err
	}

	task := input.Build(0, timeNow())
	row, err := newTaskRow(task)
	if err != nil {
		return nil, errors.NewStorageError("encode task", err)
	}

	query := `
	INSERT INTO tasks (description, status, priority, deadline, tags, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)`

	id, err := ExecuteWithLastInsertID(ctx, r.db, query,
		row.Description, row.Status, row.Priority, row.Deadline, row.Tags, row.CreatedAt, row.UpdatedAt)
	if err != nil {
		return nil, err
	}

	task.ID = id
	return &task, nil
}

// Update applies patch to the task with id inside a transaction
func (r *SQLiteRepository) Update(ctx context.Context, id int64, patch domain.TaskPatch) (*domain.Task, error) {
	if err := repository.CheckPatch(patch); err != nil {
		return nil, err
	}
	if err := errors.CheckContext(ctx, "update task"); err != nil {
		return nil, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, HandleDatabaseError("begin transaction", err)
	}
	defer tx.Rollback()

	current, err := r.findByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, errors.NewNotFoundError("task", strconv.FormatInt(id, 10))
	}

	updated, changed := patch.ApplyTo(*current, timeNow())
	if !changed {
		return &updated, nil
	}

	row, err := newTaskRow(updated)
	if err != nil {
		return nil, errors.NewStorageError("encode task", err)
	}

	query := `
	UPDATE tasks
	SET description = ?, status = ?, priority = ?, deadline = ?, tags = ?, updated_at = ?
	WHERE id = ?`

	if _, err := tx.ExecContext(ctx, query,
		row.Description, row.Status, row.Priority, row.Deadline, row.Tags, row.UpdatedAt, id); err != nil {
		return nil, HandleDatabaseError("update task", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, HandleDatabaseError("commit update", err)
	}

	return &updated, nil
}

// Delete removes the task with id and reports whether it existed
func (r *SQLiteRepository) Delete(ctx context.Context, id int64) (bool, error) {
	if err := errors.CheckContext(ctx, "delete task"); err != nil {
		return false, err
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return false, HandleDatabaseError("delete task", err)
	}
	rows, err := RowsAffected(result)
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}
