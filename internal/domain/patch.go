package domain

import "time"

// NewTask carries the caller-supplied fields for a task about to be created.
// Zero values select the defaults: priority medium, no deadline, no tags.
type NewTask struct {
	Description string
	Priority    Priority
	Deadline    *time.Time
	Tags        []string
}

// Build returns the task the input describes, with id and timestamps assigned.
func (n NewTask) Build(id int64, now time.Time) Task {
	now = now.UTC()
	priority := n.Priority
	if priority == "" {
		priority = PriorityMedium
	}
	var deadline *time.Time
	if n.Deadline != nil {
		d := n.Deadline.UTC()
		deadline = &d
	}
	return Task{
		ID:          id,
		Description: n.Description,
		Status:      StatusTodo,
		Priority:    priority,
		Deadline:    deadline,
		Tags:        NormalizeTags(n.Tags),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// DeadlineChange is the deadline part of a patch: either a new instant or a clear.
type DeadlineChange struct {
	Clear bool
	At    time.Time
}

// SetDeadline returns a change that sets the deadline to at.
func SetDeadline(at time.Time) *DeadlineChange {
	return &DeadlineChange{At: at}
}

// ClearDeadline returns a change that removes the deadline.
func ClearDeadline() *DeadlineChange {
	return &DeadlineChange{Clear: true}
}

// TaskPatch is a partial update. Nil fields are left untouched; Tags replaces
// the whole list.
type TaskPatch struct {
	Description *string
	Status      *Status
	Priority    *Priority
	Deadline    *DeadlineChange
	Tags        *[]string
}

// IsEmpty reports whether the patch names no field at all.
func (p TaskPatch) IsEmpty() bool {
	return p.Description == nil && p.Status == nil && p.Priority == nil &&
		p.Deadline == nil && p.Tags == nil
}

// ApplyTo applies the patch to t. UpdatedAt is stamped with now only if at
// least one field value actually changed; the second return value reports that.
func (p TaskPatch) ApplyTo(t Task, now time.Time) (Task, bool) {
	updated := t
	if p.Description != nil {
		updated = updated.WithDescription(*p.Description, now)
	}
	if p.Status != nil {
		updated = updated.WithStatus(*p.Status, now)
	}
	if p.Priority != nil {
		updated = updated.WithPriority(*p.Priority, now)
	}
	if p.Deadline != nil {
		if p.Deadline.Clear {
			updated = updated.WithoutDeadline(now)
		} else {
			updated = updated.WithDeadline(p.Deadline.At.UTC(), now)
		}
	}
	if p.Tags != nil {
		updated = updated.WithTags(*p.Tags, now)
	}
	return updated, changed(t, updated)
}

func changed(before, after Task) bool {
	if before.Description != after.Description || before.Status != after.Status ||
		before.Priority != after.Priority || len(before.Tags) != len(after.Tags) {
		return true
	}
	if (before.Deadline == nil) != (after.Deadline == nil) {
		return true
	}
	if before.Deadline != nil && !before.Deadline.Equal(*after.Deadline) {
		return true
	}
	for i := range before.Tags {
		if before.Tags[i] != after.Tags[i] {
			return true
		}
	}
	return false
}
