package services

import (
	"context"
	"strconv"

	"task-tracker/internal/config"
	"task-tracker/internal/domain"
	"task-tracker/internal/errors"
	"task-tracker/internal/logging"
	"task-tracker/internal/repository"
	"task-tracker/internal/validation"
)

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	repo          repository.TaskRepository
	taskValidator *validation.TaskValidator
}

// NewTaskService creates a new TaskService instance
func NewTaskService(repo repository.TaskRepository) TaskService {
	return &taskServiceImpl{
		repo:          repo,
		taskValidator: validation.NewTaskValidator(),
	}
}

// NewTaskServiceWithConfig creates a TaskService whose input limits come from cfg
func NewTaskServiceWithConfig(repo repository.TaskRepository, cfg *config.Config) TaskService {
	return &taskServiceImpl{
		repo:          repo,
		taskValidator: validation.NewTaskValidatorWithConfig(cfg),
	}
}

func (t *taskServiceImpl) validateID(id int64) error {
	if err := t.taskValidator.ValidateTaskID(id); err != nil {
		return errors.NewValidationError("invalid task ID", err)
	}
	return nil
}

// buildNewTask validates raw create input and converts it to a domain.NewTask
func (t *taskServiceImpl) buildNewTask(req CreateTaskRequest) (domain.NewTask, error) {
	ve := validation.NewValidationError()
	input := domain.NewTask{}

	description, err := t.taskValidator.ValidateDescription(req.Description)
	ve.Merge("description", err)
	input.Description = description

	if req.Priority != "" {
		priority, err := t.taskValidator.ParsePriority(req.Priority)
		ve.Merge("priority", err)
		input.Priority = priority
	}

	if req.Deadline != "" {
		deadline, err := t.taskValidator.ParseDeadline(req.Deadline)
		ve.Merge("deadline", err)
		if err == nil {
			input.Deadline = &deadline
		}
	}

	tags, err := t.taskValidator.NormalizeTags(req.Tags)
	ve.Merge("tags", err)
	input.Tags = tags

	if err := ve.ErrorOrNil(); err != nil {
		return domain.NewTask{}, errors.NewValidationError("invalid task", err)
	}
	return input, nil
}

// buildPatch validates raw update input and converts it to a domain.TaskPatch
func (t *taskServiceImpl) buildPatch(req UpdateTaskRequest) (domain.TaskPatch, error) {
	ve := validation.NewValidationError()
	patch := domain.TaskPatch{}

	if req.Description != nil {
		description, err := t.taskValidator.ValidateDescription(*req.Description)
		ve.Merge("description", err)
		patch.Description = &description
	}
	if req.Status != nil {
		status, err := t.taskValidator.ParseStatus(*req.Status)
		ve.Merge("status", err)
		patch.Status = &status
	}
	if req.Priority != nil {
		priority, err := t.taskValidator.ParsePriority(*req.Priority)
		ve.Merge("priority", err)
		patch.Priority = &priority
	}
	if req.Deadline != nil {
		change, err := t.taskValidator.ParseDeadlineChange(*req.Deadline)
		ve.Merge("deadline", err)
		patch.Deadline = change
	}
	if req.Tags != nil {
		tags, err := t.taskValidator.NormalizeTags(*req.Tags)
		ve.Merge("tags", err)
		patch.Tags = &tags
	}

	if err := ve.ErrorOrNil(); err != nil {
		return domain.TaskPatch{}, errors.NewValidationError("invalid task update", err)
	}
	return patch, nil
}

// CreateTask validates input and creates a new task
func (t *taskServiceImpl) CreateTask(ctx context.Context, req CreateTaskRequest) (*domain.Task, error) {
	input, err := t.buildNewTask(req)
	if err != nil {
		return nil, err
	}

	task, err := t.repo.Create(ctx, input)
	if err != nil {
		return nil, err
	}
	logging.WithOperation("create task").WithField("id", task.ID).Debug("task created")
	return task, nil
}

// GetTask retrieves a task by its ID
func (t *taskServiceImpl) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	if err := t.validateID(id); err != nil {
		return nil, err
	}

	task, err := t.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, errors.NewNotFoundError("task", strconv.FormatInt(id, 10))
	}
	return task, nil
}

// UpdateTask applies a partial update
func (t *taskServiceImpl) UpdateTask(ctx context.Context, id int64, req UpdateTaskRequest) (*domain.Task, error) {
	if err := t.validateID(id); err != nil {
		return nil, err
	}
	patch, err := t.buildPatch(req)
	if err != nil {
		return nil, err
	}
	return t.update(ctx, id, patch)
}

func (t *taskServiceImpl) update(ctx context.Context, id int64, patch domain.TaskPatch) (*domain.Task, error) {
	task, err := t.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	logging.WithOperation("update task").WithField("id", id).Debug("task updated")
	return task, nil
}

// DeleteTask removes a task, failing with NotFound when it does not exist
func (t *taskServiceImpl) DeleteTask(ctx context.Context, id int64) error {
	if err := t.validateID(id); err != nil {
		return err
	}

	deleted, err := t.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return errors.NewNotFoundError("task", strconv.FormatInt(id, 10))
	}
	logging.WithOperation("delete task").WithField("id", id).Debug("task deleted")
	return nil
}

// ListTasks returns every task, or only those in status when it is non-empty
func (t *taskServiceImpl) ListTasks(ctx context.Context, status string) ([]domain.Task, error) {
	if status == "" {
		return t.repo.FindAll(ctx)
	}

	parsed, err := t.taskValidator.ParseStatus(status)
	if err != nil {
		return nil, errors.NewValidationError("invalid status", err)
	}
	return t.repo.FindByStatus(ctx, parsed)
}

// FilterTasks returns the tasks matching every supplied filter
func (t *taskServiceImpl) FilterTasks(ctx context.Context, req FilterRequest) ([]domain.Task, error) {
	ve := validation.NewValidationError()
	filters := domain.TaskFilters{
		Overdue:  req.Overdue,
		DueToday: req.DueToday,
	}

	if req.Status != "" {
		status, err := t.taskValidator.ParseStatus(req.Status)
		ve.Merge("status", err)
		filters.Status = &status
	}
	if req.Priority != "" {
		priority, err := t.taskValidator.ParsePriority(req.Priority)
		ve.Merge("priority", err)
		filters.Priority = &priority
	}
	if req.Tag != "" {
		tag, err := t.taskValidator.ValidateTag(req.Tag)
		ve.Merge("tag", err)
		filters.Tag = tag
	}

	if err := ve.ErrorOrNil(); err != nil {
		return nil, errors.NewValidationError("invalid filter", err)
	}
	return t.repo.FindByFilters(ctx, filters)
}

// MarkTask moves a task to status
func (t *taskServiceImpl) MarkTask(ctx context.Context, id int64, status domain.Status) (*domain.Task, error) {
	if err := t.validateID(id); err != nil {
		return nil, err
	}
	if !status.IsValid() {
		_, err := t.taskValidator.ParseStatus(status.String())
		return nil, errors.NewValidationError("invalid status", err)
	}
	return t.update(ctx, id, domain.TaskPatch{Status: &status})
}

// SetPriority changes the priority of a task
func (t *taskServiceImpl) SetPriority(ctx context.Context, id int64, priority string) (*domain.Task, error) {
	if err := t.validateID(id); err != nil {
		return nil, err
	}
	parsed, err := t.taskValidator.ParsePriority(priority)
	if err != nil {
		return nil, errors.NewValidationError("invalid priority", err)
	}
	return t.update(ctx, id, domain.TaskPatch{Priority: &parsed})
}

// AddTag adds tag to a task. Adding a tag that is already present changes nothing.
func (t *taskServiceImpl) AddTag(ctx context.Context, id int64, tag string) (*domain.Task, error) {
	return t.editTags(ctx, id, tag, func(task domain.Task, tag string) []string {
		return append(append([]string{}, task.Tags...), tag)
	})
}

// RemoveTag removes tag from a task
func (t *taskServiceImpl) RemoveTag(ctx context.Context, id int64, tag string) (*domain.Task, error) {
	return t.editTags(ctx, id, tag, func(task domain.Task, tag string) []string {
		kept := make([]string, 0, len(task.Tags))
		for _, existing := range task.Tags {
			if existing != tag {
				kept = append(kept, existing)
			}
		}
		return kept
	})
}

func (t *taskServiceImpl) editTags(ctx context.Context, id int64, tag string, edit func(domain.Task, string) []string) (*domain.Task, error) {
	if err := t.validateID(id); err != nil {
		return nil, err
	}
	trimmed, err := t.taskValidator.ValidateTag(tag)
	if err != nil {
		return nil, errors.NewValidationError("invalid tag", err)
	}

	task, err := t.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	tags := edit(*task, trimmed)
	return t.update(ctx, id, domain.TaskPatch{Tags: &tags})
}

// SetDeadline parses deadline and sets it on a task. Clear literals remove it.
func (t *taskServiceImpl) SetDeadline(ctx context.Context, id int64, deadline string) (*domain.Task, error) {
	if err := t.validateID(id); err != nil {
		return nil, err
	}
	change, err := t.taskValidator.ParseDeadlineChange(deadline)
	if err != nil {
		return nil, errors.NewValidationError("invalid deadline", err)
	}
	return t.update(ctx, id, domain.TaskPatch{Deadline: change})
}

// ClearDeadline removes the deadline of a task
func (t *taskServiceImpl) ClearDeadline(ctx context.Context, id int64) (*domain.Task, error) {
	if err := t.validateID(id); err != nil {
		return nil, err
	}
	return t.update(ctx, id, domain.TaskPatch{Deadline: domain.ClearDeadline()})
}

// ImportTasks creates each item in order. Invalid items are recorded and
// skipped; storage and timeout failures abort the import.
func (t *taskServiceImpl) ImportTasks(ctx context.Context, items []CreateTaskRequest) (*ImportResult, error) {
	result := &ImportResult{
		Imported: make([]domain.Task, 0, len(items)),
		Failed:   make([]ImportFailure, 0),
	}

	for i, item := range items {
		task, err := t.CreateTask(ctx, item)
		if err != nil {
			if errors.IsErrorType(err, errors.ErrorTypeValidation) {
				result.Failed = append(result.Failed, ImportFailure{Index: i, Description: item.Description, Err: err})
				continue
			}
			return result, err
		}
		result.Imported = append(result.Imported, *task)
	}

	logging.WithOperation("import tasks").
		WithField("imported", len(result.Imported)).
		WithField("failed", len(result.Failed)).
		Debug("import finished")
	return result, nil
}
