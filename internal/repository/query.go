package repository

import (
	"strings"
	"time"

	"task-tracker/internal/domain"
	"task-tracker/internal/errors"
)

// Select returns the tasks matching keep, preserving order. The result is
// never nil.
func Select(tasks []domain.Task, keep func(domain.Task) bool) []domain.Task {
	result := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if keep(t) {
			result = append(result, t)
		}
	}
	return result
}

// Filter applies a conjunctive filter set evaluated at now.
func Filter(tasks []domain.Task, filters domain.TaskFilters, now time.Time) []domain.Task {
	return Select(tasks, func(t domain.Task) bool {
		return filters.Matches(t, now)
	})
}

// FindIndex returns the position of the task with id, or -1.
func FindIndex(tasks []domain.Task, id int64) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// MaxID returns the largest id in tasks, or 0 when empty.
func MaxID(tasks []domain.Task) int64 {
	var max int64
	for _, t := range tasks {
		if t.ID > max {
			max = t.ID
		}
	}
	return max
}

// PrepareNewTask trims and checks the description of input before any id is
// assigned, so rejected input never consumes an id.
func PrepareNewTask(input domain.NewTask) (domain.NewTask, error) {
	input.Description = strings.TrimSpace(input.Description)
	if input.Description == "" {
		return input, errors.NewValidationError("task description cannot be empty", nil).
			WithField("field", "description")
	}
	if input.Priority != "" && !input.Priority.IsValid() {
		return input, errors.NewValidationError("invalid priority: "+input.Priority.String(), nil).
			WithField("field", "priority")
	}
	return input, nil
}

// CheckPatch rejects patches carrying values outside the enumerations or an
// empty description.
func CheckPatch(patch domain.TaskPatch) error {
	if patch.Description != nil && strings.TrimSpace(*patch.Description) == "" {
		return errors.NewValidationError("task description cannot be empty", nil).
			WithField("field", "description")
	}
	if patch.Status != nil && !patch.Status.IsValid() {
		return errors.NewValidationError("invalid status: "+patch.Status.String(), nil).
			WithField("field", "status")
	}
	if patch.Priority != nil && !patch.Priority.IsValid() {
		return errors.NewValidationError("invalid priority: "+patch.Priority.String(), nil).
			WithField("field", "priority")
	}
	return nil
}
