package sqlite

import (
	"database/sql"
	"fmt"

	"task-tracker/internal/domain"
)

// taskRow mirrors one row of the tasks table.
type taskRow struct {
	ID          int64
	Description string
	Status      string
	Priority    string
	Deadline    sql.NullString
	Tags        string
	CreatedAt   string
	UpdatedAt   string
}

const taskColumns = `id, description, status, priority, deadline, tags, created_at, updated_at`

func newTaskRow(t domain.Task) (taskRow, error) {
	tags, err := EncodeTags(t.Tags)
	if err != nil {
		return taskRow{}, err
	}
	row := taskRow{
		ID:          t.ID,
		Description: t.Description,
		Status:      t.Status.String(),
		Priority:    t.Priority.String(),
		Tags:        tags,
		CreatedAt:   FormatTimeForDB(t.CreatedAt),
		UpdatedAt:   FormatTimeForDB(t.UpdatedAt),
	}
	if t.Deadline != nil {
		row.Deadline = sql.NullString{String: FormatTimeForDB(*t.Deadline), Valid: true}
	}
	return row, nil
}

func (r taskRow) toDomain() (domain.Task, error) {
	status, ok := domain.ParseStatus(r.Status)
	if !ok {
		return domain.Task{}, fmt.Errorf("task %d: invalid status %q", r.ID, r.Status)
	}
	priority, ok := domain.ParsePriority(r.Priority)
	if !ok {
		return domain.Task{}, fmt.Errorf("task %d: invalid priority %q", r.ID, r.Priority)
	}
	createdAt, err := ParseTimeFromDB(r.CreatedAt)
	if err != nil {
		return domain.Task{}, fmt.Errorf("task %d: created_at: %w", r.ID, err)
	}
	updatedAt, err := ParseTimeFromDB(r.UpdatedAt)
	if err != nil {
		return domain.Task{}, fmt.Errorf("task %d: updated_at: %w", r.ID, err)
	}
	deadline, err := ParseTimePtrFromDB(r.Deadline)
	if err != nil {
		return domain.Task{}, fmt.Errorf("task %d: deadline: %w", r.ID, err)
	}
	tags, err := DecodeTags(r.Tags)
	if err != nil {
		return domain.Task{}, fmt.Errorf("task %d: tags: %w", r.ID, err)
	}

	return domain.Task{
		ID:          r.ID,
		Description: r.Description,
		Status:      status,
		Priority:    priority,
		Deadline:    deadline,
		Tags:        tags,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, nil
}
