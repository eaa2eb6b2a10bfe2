package domain

import (
	"slices"
	"strings"
	"time"
)

// Status is the lifecycle state of a task.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusDone       Status = "done"
)

// Statuses lists every valid status in display order.
var Statuses = []Status{StatusTodo, StatusInProgress, StatusDone}

// IsValid reports whether s is one of the enumerated statuses.
func (s Status) IsValid() bool {
	return slices.Contains(Statuses, s)
}

func (s Status) String() string {
	return string(s)
}

// ParseStatus converts user input to a Status, ignoring case and surrounding space.
func ParseStatus(value string) (Status, bool) {
	s := Status(strings.ToLower(strings.TrimSpace(value)))
	return s, s.IsValid()
}

// Priority is the importance of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists every valid priority from lowest to highest.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// IsValid reports whether p is one of the enumerated priorities.
func (p Priority) IsValid() bool {
	return slices.Contains(Priorities, p)
}

func (p Priority) String() string {
	return string(p)
}

// ParsePriority converts user input to a Priority, ignoring case and surrounding space.
func ParsePriority(value string) (Priority, bool) {
	p := Priority(strings.ToLower(strings.TrimSpace(value)))
	return p, p.IsValid()
}

// Task represents a task in the domain model.
// This is a pure domain model without storage-specific concerns.
// Transition methods take the task by value and return the updated copy.
type Task struct {
	ID          int64
	Description string
	Status      Status
	Priority    Priority
	Deadline    *time.Time
	Tags        []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// MarkInProgress moves the task to in-progress.
func (t Task) MarkInProgress(now time.Time) Task {
	return t.WithStatus(StatusInProgress, now)
}

// MarkDone moves the task to done.
func (t Task) MarkDone(now time.Time) Task {
	return t.WithStatus(StatusDone, now)
}

// WithStatus sets the status, stamping UpdatedAt when it changes.
func (t Task) WithStatus(status Status, now time.Time) Task {
	if t.Status == status {
		return t
	}
	t.Status = status
	return t.touch(now)
}

// WithDescription sets the trimmed description, stamping UpdatedAt when it changes.
func (t Task) WithDescription(description string, now time.Time) Task {
	description = strings.TrimSpace(description)
	if t.Description == description {
		return t
	}
	t.Description = description
	return t.touch(now)
}

// WithPriority sets the priority, stamping UpdatedAt when it changes.
func (t Task) WithPriority(priority Priority, now time.Time) Task {
	if t.Priority == priority {
		return t
	}
	t.Priority = priority
	return t.touch(now)
}

// WithDeadline sets the deadline, stamping UpdatedAt when it changes.
func (t Task) WithDeadline(deadline time.Time, now time.Time) Task {
	deadline = deadline.UTC()
	if t.Deadline != nil && t.Deadline.Equal(deadline) {
		return t
	}
	t.Deadline = &deadline
	return t.touch(now)
}

// WithoutDeadline removes the deadline.
func (t Task) WithoutDeadline(now time.Time) Task {
	if t.Deadline == nil {
		return t
	}
	t.Deadline = nil
	return t.touch(now)
}

// AddTag appends tag unless it is empty or already present.
func (t Task) AddTag(tag string, now time.Time) Task {
	tag = strings.TrimSpace(tag)
	if tag == "" || t.HasTag(tag) {
		return t
	}
	t.Tags = append(slices.Clone(t.Tags), tag)
	return t.touch(now)
}

// RemoveTag drops tag if present.
func (t Task) RemoveTag(tag string, now time.Time) Task {
	tag = strings.TrimSpace(tag)
	if !t.HasTag(tag) {
		return t
	}
	t.Tags = slices.DeleteFunc(slices.Clone(t.Tags), func(existing string) bool {
		return existing == tag
	})
	return t.touch(now)
}

// WithTags replaces the tag list with its normalized form.
func (t Task) WithTags(tags []string, now time.Time) Task {
	tags = NormalizeTags(tags)
	if slices.Equal(t.Tags, tags) {
		return t
	}
	t.Tags = tags
	return t.touch(now)
}

// HasTag reports whether tag is attached to the task.
func (t Task) HasTag(tag string) bool {
	return slices.Contains(t.Tags, tag)
}

// IsOverdue reports whether the deadline lies strictly before now and the task is not done.
func (t Task) IsOverdue(now time.Time) bool {
	if t.Deadline == nil || t.Status == StatusDone {
		return false
	}
	return now.After(*t.Deadline)
}

// IsDueToday reports whether the deadline falls on the calendar day of now,
// evaluated in now's location.
func (t Task) IsDueToday(now time.Time) bool {
	if t.Deadline == nil {
		return false
	}
	dy, dm, dd := t.Deadline.In(now.Location()).Date()
	ny, nm, nd := now.Date()
	return dy == ny && dm == nm && dd == nd
}

// String returns the task description for display purposes.
func (t Task) String() string {
	return t.Description
}

// touch advances UpdatedAt to now, never letting it fall behind CreatedAt.
func (t Task) touch(now time.Time) Task {
	now = now.UTC()
	if now.Before(t.CreatedAt) {
		now = t.CreatedAt
	}
	t.UpdatedAt = now
	return t
}

// NormalizeTags trims every tag, drops empties and suppresses duplicates
// while keeping first-seen order. The result is never nil.
func NormalizeTags(tags []string) []string {
	result := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || slices.Contains(result, tag) {
			continue
		}
		result = append(result, tag)
	}
	return result
}
