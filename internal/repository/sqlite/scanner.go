package sqlite

import (
	"task-tracker/internal/domain"
)

// Scanner interface defines the common scanning behavior for both sql.Row and sql.Rows
type Scanner interface {
	Scan(dest ...interface{}) error
}

// Rows interface defines the common behavior for sql.Rows
type Rows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

// ScanTask scans a single task selected with taskColumns
func ScanTask(scanner Scanner) (*domain.Task, error) {
	var row taskRow
	err := scanner.Scan(
		&row.ID,
		&row.Description,
		&row.Status,
		&row.Priority,
		&row.Deadline,
		&row.Tags,
		&row.CreatedAt,
		&row.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	task, err := row.toDomain()
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// ScanTasks scans every remaining row. The result is never nil.
func ScanTasks(rows Rows) ([]domain.Task, error) {
	tasks := make([]domain.Task, 0)
	for rows.Next() {
		task, err := ScanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tasks, nil
}
