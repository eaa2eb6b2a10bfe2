package validation

import (
	"strings"
	"time"

	"task-tracker/internal/config"
	"task-tracker/internal/domain"
)

// TaskValidator turns raw task input into domain values, reporting every
// problem as a ValidationError.
type TaskValidator struct {
	validator *Validator
}

// NewTaskValidator creates a new task validator
func NewTaskValidator() *TaskValidator {
	return &TaskValidator{validator: NewValidator()}
}

// NewTaskValidatorWithConfig creates a task validator bound to configured limits
func NewTaskValidatorWithConfig(cfg *config.Config) *TaskValidator {
	return &TaskValidator{validator: NewValidatorWithConfig(cfg)}
}

// ValidateTaskID validates a task ID
func (tv *TaskValidator) ValidateTaskID(id int64) error {
	if !tv.validator.IsValidTaskID(id) {
		ve := NewValidationError()
		ve.AddInvalidValueError("id", id, "must be a positive integer")
		return ve
	}
	return nil
}

// ValidateDescription returns the trimmed description if it is acceptable.
func (tv *TaskValidator) ValidateDescription(description string) (string, error) {
	ve := NewValidationError()
	trimmed := strings.TrimSpace(description)

	if !tv.validator.IsNonEmptyString(trimmed) {
		ve.AddRequiredError("description")
		return "", ve
	}
	if max := tv.validator.descriptionMaxLength(); !tv.validator.IsWithinLength(trimmed, max) {
		ve.AddInvalidLengthError("description", trimmed, max)
		return "", ve
	}
	return trimmed, nil
}

// ParseStatus validates a status name.
func (tv *TaskValidator) ParseStatus(value string) (domain.Status, error) {
	status, ok := domain.ParseStatus(value)
	if !ok {
		ve := NewValidationError()
		ve.AddInvalidChoiceError("status", value, statusNames())
		return "", ve
	}
	return status, nil
}

// ParsePriority validates a priority name.
func (tv *TaskValidator) ParsePriority(value string) (domain.Priority, error) {
	priority, ok := domain.ParsePriority(value)
	if !ok {
		ve := NewValidationError()
		ve.AddInvalidChoiceError("priority", value, priorityNames())
		return "", ve
	}
	return priority, nil
}

// ParseDeadline validates a deadline that must be set.
func (tv *TaskValidator) ParseDeadline(value string) (time.Time, error) {
	deadline, ok := tv.validator.ParseDeadline(value)
	if !ok {
		ve := NewValidationError()
		ve.AddInvalidFormatError("deadline", value, "YYYY-MM-DD or RFC 3339 timestamp")
		return time.Time{}, ve
	}
	return deadline, nil
}

// ParseDeadlineChange accepts either a deadline or one of the clear literals.
func (tv *TaskValidator) ParseDeadlineChange(value string) (*domain.DeadlineChange, error) {
	if tv.validator.IsClearLiteral(value) {
		return domain.ClearDeadline(), nil
	}
	deadline, err := tv.ParseDeadline(value)
	if err != nil {
		return nil, err
	}
	return domain.SetDeadline(deadline), nil
}

// ValidateTag returns the trimmed tag if it is acceptable.
func (tv *TaskValidator) ValidateTag(tag string) (string, error) {
	ve := NewValidationError()
	trimmed := strings.TrimSpace(tag)

	if trimmed == "" {
		ve.AddRequiredError("tag")
		return "", ve
	}
	if max := tv.validator.tagMaxLength(); !tv.validator.IsWithinLength(trimmed, max) {
		ve.AddInvalidLengthError("tag", trimmed, max)
		return "", ve
	}
	return trimmed, nil
}

// NormalizeTags trims, drops empties and de-duplicates tags, rejecting any
// that exceed the configured length.
func (tv *TaskValidator) NormalizeTags(tags []string) ([]string, error) {
	normalized := domain.NormalizeTags(tags)
	max := tv.validator.tagMaxLength()

	ve := NewValidationError()
	for _, tag := range normalized {
		if !tv.validator.IsWithinLength(tag, max) {
			ve.AddInvalidLengthError("tags", tag, max)
		}
	}
	if err := ve.ErrorOrNil(); err != nil {
		return nil, err
	}
	return normalized, nil
}

func statusNames() []string {
	names := make([]string, len(domain.Statuses))
	for i, s := range domain.Statuses {
		names[i] = s.String()
	}
	return names
}

func priorityNames() []string {
	names := make([]string, len(domain.Priorities))
	for i, p := range domain.Priorities {
		names[i] = p.String()
	}
	return names
}
