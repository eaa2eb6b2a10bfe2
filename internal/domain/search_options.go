package domain

import "time"

// TaskFilters is a conjunctive set of constraints. Zero-valued fields impose
// no constraint.
type TaskFilters struct {
	Status   *Status
	Priority *Priority
	Tag      string
	Overdue  bool
	DueToday bool
}

// Matches reports whether t satisfies every constraint set on f.
func (f TaskFilters) Matches(t Task, now time.Time) bool {
	if f.Status != nil && t.Status != *f.Status {
		return false
	}
	if f.Priority != nil && t.Priority != *f.Priority {
		return false
	}
	if f.Tag != "" && !t.HasTag(f.Tag) {
		return false
	}
	if f.Overdue && !t.IsOverdue(now) {
		return false
	}
	if f.DueToday && !t.IsDueToday(now) {
		return false
	}
	return true
}

// SearchCriteria drives keyword search. An empty Keyword matches every task;
// Limit <= 0 means unlimited.
type SearchCriteria struct {
	Keyword string
	Status  *Status
	Limit   int
}

// Stats summarizes the collection at a fixed instant.
type Stats struct {
	Total          int
	Todo           int
	InProgress     int
	Done           int
	CompletionRate int
	RecentTasks    int
	OldTasks       int
}
