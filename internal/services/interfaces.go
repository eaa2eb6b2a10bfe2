package services

import (
	"context"
	"time"

	"task-tracker/internal/config"
	"task-tracker/internal/domain"
	"task-tracker/internal/repository"
)

// CreateTaskRequest carries raw user input for a new task
type CreateTaskRequest struct {
	Description string   `json:"description"`
	Priority    string   `json:"priority,omitempty"`
	Deadline    string   `json:"deadline,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// UpdateTaskRequest carries raw user input for a partial update.
// Nil fields are left untouched.
type UpdateTaskRequest struct {
	Description *string   `json:"description,omitempty"`
	Status      *string   `json:"status,omitempty"`
	Priority    *string   `json:"priority,omitempty"`
	Deadline    *string   `json:"deadline,omitempty"` // "clear", "null" or "none" removes it
	Tags        *[]string `json:"tags,omitempty"`
}

// FilterRequest carries raw filter flags. Empty strings impose no constraint.
type FilterRequest struct {
	Status   string `json:"status,omitempty"`
	Priority string `json:"priority,omitempty"`
	Tag      string `json:"tag,omitempty"`
	Overdue  bool   `json:"overdue,omitempty"`
	DueToday bool   `json:"due_today,omitempty"`
}

// SearchRequest carries raw search input. Limit <= 0 means unlimited.
type SearchRequest struct {
	Keyword string `json:"keyword,omitempty"`
	Status  string `json:"status,omitempty"`
	Limit   int    `json:"limit,omitempty"`
}

// ImportFailure records one rejected item of a bulk import
type ImportFailure struct {
	Index       int    `json:"index"`
	Description string `json:"description"`
	Err         error  `json:"-"`
}

// ImportResult tallies a bulk import
type ImportResult struct {
	Imported []domain.Task    `json:"imported"`
	Failed   []ImportFailure `json:"failed"`
}

// PriorityCount is one row of a priority breakdown
type PriorityCount struct {
	Priority domain.Priority `json:"priority"`
	Count    int             `json:"count"`
	Percent  int             `json:"percent"`
}

// OverdueTask is an overdue task together with how late it is
type OverdueTask struct {
	Task        domain.Task `json:"task"`
	DaysOverdue int         `json:"days_overdue"`
}

// WeeklyReport summarizes the last seven days
type WeeklyReport struct {
	PeriodStart       time.Time       `json:"period_start"`
	PeriodEnd         time.Time       `json:"period_end"`
	Total             int             `json:"total"`
	NewThisWeek       int             `json:"new_this_week"`
	CompletedThisWeek int             `json:"completed_this_week"`
	InProgress        int             `json:"in_progress"`
	CompletionRate    int             `json:"completion_rate"`
	ByPriority        []PriorityCount `json:"by_priority"`
	Overdue           []OverdueTask   `json:"overdue"`
	TopPriorities     []domain.Task   `json:"top_priorities"`
}

// ProductivityReport summarizes completion behaviour over the whole collection
type ProductivityReport struct {
	GeneratedAt           time.Time       `json:"generated_at"`
	Total                 int             `json:"total"`
	Completed             int             `json:"completed"`
	CompletionRate        int             `json:"completion_rate"`
	AverageCompletionDays float64         `json:"average_completion_days"`
	BusiestWeekday        *time.Weekday   `json:"busiest_weekday,omitempty"`
	BusiestWeekdayCount   int             `json:"busiest_weekday_count"`
	AveragePerDay         float64         `json:"average_per_day"`
	ByPriority            []PriorityCount `json:"by_priority"`
}

// WeekProgress counts the tasks created in one week of a burn-down report
type WeekProgress struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Created   int       `json:"created"`
	Completed int       `json:"completed"`
	Progress  int       `json:"progress"`
}

// BurnDownReport shows overall progress plus the last BurnDownWeeks weeks
type BurnDownReport struct {
	GeneratedAt time.Time      `json:"generated_at"`
	Total       int            `json:"total"`
	Completed   int            `json:"completed"`
	Remaining   int            `json:"remaining"`
	Progress    int            `json:"progress"`
	Weeks       []WeekProgress `json:"weeks"`
}

// TaskService handles task lifecycle operations
type TaskService interface {
	// Task CRUD operations
	CreateTask(ctx context.Context, req CreateTaskRequest) (*domain.Task, error)
	GetTask(ctx context.Context, id int64) (*domain.Task, error)
	UpdateTask(ctx context.Context, id int64, req UpdateTaskRequest) (*domain.Task, error)
	DeleteTask(ctx context.Context, id int64) error

	// Queries
	ListTasks(ctx context.Context, status string) ([]domain.Task, error)
	FilterTasks(ctx context.Context, req FilterRequest) ([]domain.Task, error)

	// Single-field mutations
	MarkTask(ctx context.Context, id int64, status domain.Status) (*domain.Task, error)
	SetPriority(ctx context.Context, id int64, priority string) (*domain.Task, error)
	AddTag(ctx context.Context, id int64, tag string) (*domain.Task, error)
	RemoveTag(ctx context.Context, id int64, tag string) (*domain.Task, error)
	SetDeadline(ctx context.Context, id int64, deadline string) (*domain.Task, error)
	ClearDeadline(ctx context.Context, id int64) (*domain.Task, error)

	// Bulk import; the only operation that tolerates per-item failures
	ImportTasks(ctx context.Context, items []CreateTaskRequest) (*ImportResult, error)
}

// SearchService handles keyword search
type SearchService interface {
	Search(ctx context.Context, req SearchRequest) ([]domain.Task, error)
	SearchTasks(tasks []domain.Task, criteria domain.SearchCriteria) []domain.Task
}

// ReportingService handles statistics and reports
type ReportingService interface {
	GetStats(ctx context.Context) (*domain.Stats, error)
	CalculateStats(tasks []domain.Task, now time.Time) domain.Stats
	WeeklyReport(ctx context.Context) (*WeeklyReport, error)
	ProductivityReport(ctx context.Context) (*ProductivityReport, error)
	BurnDown(ctx context.Context) (*BurnDownReport, error)
}

// ServiceContainer manages all services and their dependencies
type ServiceContainer struct {
	TaskService      TaskService
	SearchService    SearchService
	ReportingService ReportingService
}

// NewServiceContainer wires every service to repo. cfg may be nil, in which
// case default input limits apply.
func NewServiceContainer(repo repository.TaskRepository, cfg *config.Config) *ServiceContainer {
	taskService := NewTaskService(repo)
	if cfg != nil {
		taskService = NewTaskServiceWithConfig(repo, cfg)
	}
	return &ServiceContainer{
		TaskService:      taskService,
		SearchService:    NewSearchService(repo),
		ReportingService: NewReportingService(repo),
	}
}
