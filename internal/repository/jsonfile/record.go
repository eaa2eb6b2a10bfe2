package jsonfile

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"task-tracker/internal/domain"
)

// Record is the on-disk shape of one task.
type Record struct {
	ID          int64    `json:"id" yaml:"id" validate:"gt=0"`
	Description string   `json:"description" yaml:"description" validate:"required"`
	Status      string   `json:"status" yaml:"status" validate:"oneof=todo in-progress done"`
	CreatedAt   string   `json:"createdAt" yaml:"createdAt" validate:"required"`
	UpdatedAt   string   `json:"updatedAt" yaml:"updatedAt" validate:"required"`
	Deadline    *string  `json:"deadline" yaml:"deadline"`
	Priority    string   `json:"priority,omitempty" yaml:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
	Tags        []string `json:"tags" yaml:"tags"`
}

var validate = validator.New()

// FormatTime renders a timestamp the way the store writes it.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// ParseTime reads a stored timestamp.
func ParseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// NewRecord converts a domain task into its stored form.
func NewRecord(t domain.Task) Record {
	var deadline *string
	if t.Deadline != nil {
		d := FormatTime(*t.Deadline)
		deadline = &d
	}
	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}
	return Record{
		ID:          t.ID,
		Description: t.Description,
		Status:      t.Status.String(),
		CreatedAt:   FormatTime(t.CreatedAt),
		UpdatedAt:   FormatTime(t.UpdatedAt),
		Deadline:    deadline,
		Priority:    t.Priority.String(),
		Tags:        tags,
	}
}

// ToDomain validates the record and converts it to a domain task. A missing
// priority becomes medium, missing tags become empty and a null or empty
// deadline means no deadline.
func (r Record) ToDomain() (domain.Task, error) {
	if err := validate.Struct(r); err != nil {
		return domain.Task{}, fmt.Errorf("record %d: %w", r.ID, err)
	}
	description := strings.TrimSpace(r.Description)
	if description == "" {
		return domain.Task{}, fmt.Errorf("record %d: description is blank", r.ID)
	}

	createdAt, err := ParseTime(r.CreatedAt)
	if err != nil {
		return domain.Task{}, fmt.Errorf("record %d: createdAt: %w", r.ID, err)
	}
	updatedAt, err := ParseTime(r.UpdatedAt)
	if err != nil {
		return domain.Task{}, fmt.Errorf("record %d: updatedAt: %w", r.ID, err)
	}
	if updatedAt.Before(createdAt) {
		updatedAt = createdAt
	}

	var deadline *time.Time
	if r.Deadline != nil && strings.TrimSpace(*r.Deadline) != "" {
		d, err := ParseTime(*r.Deadline)
		if err != nil {
			return domain.Task{}, fmt.Errorf("record %d: deadline: %w", r.ID, err)
		}
		deadline = &d
	}

	priority := domain.Priority(r.Priority)
	if priority == "" {
		priority = domain.PriorityMedium
	}

	return domain.Task{
		ID:          r.ID,
		Description: description,
		Status:      domain.Status(r.Status),
		Priority:    priority,
		Deadline:    deadline,
		Tags:        domain.NormalizeTags(r.Tags),
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, nil
}

// ToDomainSlice converts stored records, failing on the first invalid one.
func ToDomainSlice(records []Record) ([]domain.Task, error) {
	tasks := make([]domain.Task, 0, len(records))
	seen := make(map[int64]bool, len(records))
	for _, r := range records {
		t, err := r.ToDomain()
		if err != nil {
			return nil, err
		}
		if seen[t.ID] {
			return nil, fmt.Errorf("duplicate task id %d", t.ID)
		}
		seen[t.ID] = true
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// NewRecordSlice converts domain tasks to stored records.
func NewRecordSlice(tasks []domain.Task) []Record {
	records := make([]Record, len(tasks))
	for i, t := range tasks {
		records[i] = NewRecord(t)
	}
	return records
}
