package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"

	"task-tracker/internal/api"
	"task-tracker/internal/config"
	"task-tracker/internal/domain"
	"task-tracker/internal/errors"
	"task-tracker/internal/services"
	"task-tracker/internal/transfer"
	"task-tracker/internal/validation"
)

var testNow = time.Date(2024, 6, 12, 15, 0, 0, 0, time.UTC)

// mockAPI implements the API interface in memory for testing
type mockAPI struct {
	tasks  []domain.Task
	nextID int64

	// err, when set, is returned by every call
	err    error
	closed bool

	lastFilter   services.FilterRequest
	lastSearch   services.SearchRequest
	lastUpdate   services.UpdateTaskRequest
	exportedTo   string
	importedFrom string
	importFormat transfer.Format

	stats        *domain.Stats
	weekly       *services.WeeklyReport
	productivity *services.ProductivityReport
	burnDown     *services.BurnDownReport
	importResult *services.ImportResult
}

var _ api.API = (*mockAPI)(nil)

func newMockAPI() *mockAPI {
	return &mockAPI{nextID: 1}
}

// seed adds tasks directly, assigning ids
func (m *mockAPI) seed(tasks ...domain.Task) {
	for _, task := range tasks {
		task.ID = m.nextID
		m.nextID++
		if task.Status == "" {
			task.Status = domain.StatusTodo
		}
		if task.Priority == "" {
			task.Priority = domain.PriorityMedium
		}
		if task.CreatedAt.IsZero() {
			task.CreatedAt = testNow.Add(-time.Hour)
			task.UpdatedAt = task.CreatedAt
		}
		m.tasks = append(m.tasks, task)
	}
}

func (m *mockAPI) find(id int64) (int, error) {
	for i, task := range m.tasks {
		if task.ID == id {
			return i, nil
		}
	}
	return -1, errors.NewNotFoundError("task", strconv.FormatInt(id, 10))
}

func invalid(field, message string) error {
	ve := validation.NewValidationError()
	ve.AddError(field, validation.ErrorTypeInvalidValue, message, nil)
	return errors.NewValidationError("invalid task", ve)
}

func mockDeadline(value string) (*time.Time, error) {
	d, err := time.ParseInLocation("2006-01-02", value, time.UTC)
	if err != nil {
		return nil, invalid("deadline", "deadline must be a date in YYYY-MM-DD format or an RFC 3339 timestamp")
	}
	return &d, nil
}

func (m *mockAPI) CreateTask(ctx context.Context, req services.CreateTaskRequest) (*domain.Task, error) {
	if m.err != nil {
		return nil, m.err
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, invalid("description", "description is required")
	}
	task := domain.Task{
		Description: strings.TrimSpace(req.Description),
		Priority:    domain.Priority(req.Priority),
		Tags:        domain.NormalizeTags(req.Tags),
		CreatedAt:   testNow,
		UpdatedAt:   testNow,
	}
	if req.Deadline != "" {
		d, err := mockDeadline(req.Deadline)
		if err != nil {
			return nil, err
		}
		task.Deadline = d
	}
	m.seed(task)
	created := m.tasks[len(m.tasks)-1]
	return &created, nil
}

func (m *mockAPI) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	if m.err != nil {
		return nil, m.err
	}
	i, err := m.find(id)
	if err != nil {
		return nil, err
	}
	task := m.tasks[i]
	return &task, nil
}

func (m *mockAPI) UpdateTask(ctx context.Context, id int64, req services.UpdateTaskRequest) (*domain.Task, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.lastUpdate = req
	i, err := m.find(id)
	if err != nil {
		return nil, err
	}
	if req.Description != nil {
		m.tasks[i] = m.tasks[i].WithDescription(*req.Description, testNow)
	}
	if req.Priority != nil {
		m.tasks[i] = m.tasks[i].WithPriority(domain.Priority(*req.Priority), testNow)
	}
	task := m.tasks[i]
	return &task, nil
}

func (m *mockAPI) DeleteTask(ctx context.Context, id int64) error {
	if m.err != nil {
		return m.err
	}
	i, err := m.find(id)
	if err != nil {
		return err
	}
	m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
	return nil
}

func (m *mockAPI) MarkTask(ctx context.Context, id int64, status domain.Status) (*domain.Task, error) {
	if m.err != nil {
		return nil, m.err
	}
	i, err := m.find(id)
	if err != nil {
		return nil, err
	}
	m.tasks[i] = m.tasks[i].WithStatus(status, testNow)
	task := m.tasks[i]
	return &task, nil
}

func (m *mockAPI) SetPriority(ctx context.Context, id int64, priority string) (*domain.Task, error) {
	if m.err != nil {
		return nil, m.err
	}
	p, ok := domain.ParsePriority(priority)
	if !ok {
		return nil, invalid("priority", "priority must be one of: low, medium, high")
	}
	i, err := m.find(id)
	if err != nil {
		return nil, err
	}
	m.tasks[i] = m.tasks[i].WithPriority(p, testNow)
	task := m.tasks[i]
	return &task, nil
}

func (m *mockAPI) AddTag(ctx context.Context, id int64, tag string) (*domain.Task, error) {
	if m.err != nil {
		return nil, m.err
	}
	i, err := m.find(id)
	if err != nil {
		return nil, err
	}
	m.tasks[i] = m.tasks[i].AddTag(tag, testNow)
	task := m.tasks[i]
	return &task, nil
}

func (m *mockAPI) RemoveTag(ctx context.Context, id int64, tag string) (*domain.Task, error) {
	if m.err != nil {
		return nil, m.err
	}
	i, err := m.find(id)
	if err != nil {
		return nil, err
	}
	m.tasks[i] = m.tasks[i].RemoveTag(tag, testNow)
	task := m.tasks[i]
	return &task, nil
}

func (m *mockAPI) SetDeadline(ctx context.Context, id int64, deadline string) (*domain.Task, error) {
	if m.err != nil {
		return nil, m.err
	}
	if validation.NewValidator().IsClearLiteral(deadline) {
		return m.ClearDeadline(ctx, id)
	}
	d, err := mockDeadline(deadline)
	if err != nil {
		return nil, err
	}
	i, err := m.find(id)
	if err != nil {
		return nil, err
	}
	m.tasks[i] = m.tasks[i].WithDeadline(*d, testNow)
	task := m.tasks[i]
	return &task, nil
}

func (m *mockAPI) ClearDeadline(ctx context.Context, id int64) (*domain.Task, error) {
	if m.err != nil {
		return nil, m.err
	}
	i, err := m.find(id)
	if err != nil {
		return nil, err
	}
	m.tasks[i] = m.tasks[i].WithoutDeadline(testNow)
	task := m.tasks[i]
	return &task, nil
}

func (m *mockAPI) ListTasks(ctx context.Context, status string) ([]domain.Task, error) {
	if m.err != nil {
		return nil, m.err
	}
	if status == "" {
		return append([]domain.Task(nil), m.tasks...), nil
	}
	s, ok := domain.ParseStatus(status)
	if !ok {
		return nil, invalid("status", "status must be one of: todo, in-progress, done")
	}
	var out []domain.Task
	for _, task := range m.tasks {
		if task.Status == s {
			out = append(out, task)
		}
	}
	return out, nil
}

func (m *mockAPI) FilterTasks(ctx context.Context, req services.FilterRequest) ([]domain.Task, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.lastFilter = req
	var out []domain.Task
	for _, task := range m.tasks {
		if req.Priority != "" && task.Priority.String() != req.Priority {
			continue
		}
		if req.Tag != "" && !task.HasTag(req.Tag) {
			continue
		}
		out = append(out, task)
	}
	return out, nil
}

func (m *mockAPI) Search(ctx context.Context, req services.SearchRequest) ([]domain.Task, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.lastSearch = req
	var out []domain.Task
	for _, task := range m.tasks {
		if strings.Contains(strings.ToLower(task.Description), strings.ToLower(req.Keyword)) {
			out = append(out, task)
		}
	}
	return out, nil
}

func (m *mockAPI) GetStats(ctx context.Context) (*domain.Stats, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.stats != nil {
		return m.stats, nil
	}
	return &domain.Stats{}, nil
}

func (m *mockAPI) WeeklyReport(ctx context.Context) (*services.WeeklyReport, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.weekly, nil
}

func (m *mockAPI) ProductivityReport(ctx context.Context) (*services.ProductivityReport, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.productivity, nil
}

func (m *mockAPI) BurnDown(ctx context.Context) (*services.BurnDownReport, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.burnDown != nil {
		return m.burnDown, nil
	}
	return &services.BurnDownReport{GeneratedAt: testNow}, nil
}

func (m *mockAPI) Export(ctx context.Context, w io.Writer, format transfer.Format) error {
	if m.err != nil {
		return m.err
	}
	_, err := fmt.Fprintf(w, "exported %d tasks as %s\n", len(m.tasks), format)
	return err
}

func (m *mockAPI) ExportToFile(ctx context.Context, path string, format transfer.Format) error {
	if m.err != nil {
		return m.err
	}
	m.exportedTo = path + ":" + string(format)
	return nil
}

func (m *mockAPI) ImportFile(ctx context.Context, path string, format transfer.Format) (*services.ImportResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.importedFrom = path
	m.importFormat = format
	if m.importResult != nil {
		return m.importResult, nil
	}
	return &services.ImportResult{}, nil
}

func (m *mockAPI) Close() error {
	m.closed = true
	return nil
}

// pinTime fixes the clock used for relative dates and deadline hints
func pinTime(t *testing.T, now time.Time) {
	t.Helper()
	previous := timeNow
	timeNow = func() time.Time { return now }
	t.Cleanup(func() { timeNow = previous })
}

// setupTestAppWithMockAPI returns an App over a fresh mock, an in-memory
// filesystem and captured output streams
func setupTestAppWithMockAPI(t *testing.T) (*App, *mockAPI, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	pinTime(t, testNow)

	cfg := config.NewConfig()
	cfg.Display.DateTimeFormat = "2006-01-02 15:04"

	mock := newMockAPI()
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	app := NewAppWithConfig(mock, cfg, afero.NewMemMapFs(), out, errOut)
	return app, mock, out, errOut
}
