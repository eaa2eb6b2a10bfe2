// Package api is the single entry point the command layer uses for every
// task operation.
package api

import (
	"context"
	"io"

	"github.com/spf13/afero"

	"task-tracker/internal/config"
	"task-tracker/internal/domain"
	"task-tracker/internal/repository"
	"task-tracker/internal/services"
	"task-tracker/internal/transfer"
)

// API defines the interface for all task operations.
type API interface {
	// Task operations
	CreateTask(ctx context.Context, req services.CreateTaskRequest) (*domain.Task, error)
	GetTask(ctx context.Context, id int64) (*domain.Task, error)
	UpdateTask(ctx context.Context, id int64, req services.UpdateTaskRequest) (*domain.Task, error)
	DeleteTask(ctx context.Context, id int64) error
	MarkTask(ctx context.Context, id int64, status domain.Status) (*domain.Task, error)
	SetPriority(ctx context.Context, id int64, priority string) (*domain.Task, error)
	AddTag(ctx context.Context, id int64, tag string) (*domain.Task, error)
	RemoveTag(ctx context.Context, id int64, tag string) (*domain.Task, error)
	SetDeadline(ctx context.Context, id int64, deadline string) (*domain.Task, error)
	ClearDeadline(ctx context.Context, id int64) (*domain.Task, error)

	// Queries
	ListTasks(ctx context.Context, status string) ([]domain.Task, error)
	FilterTasks(ctx context.Context, req services.FilterRequest) ([]domain.Task, error)
	Search(ctx context.Context, req services.SearchRequest) ([]domain.Task, error)

	// Statistics and reports
	GetStats(ctx context.Context) (*domain.Stats, error)
	WeeklyReport(ctx context.Context) (*services.WeeklyReport, error)
	ProductivityReport(ctx context.Context) (*services.ProductivityReport, error)
	BurnDown(ctx context.Context) (*services.BurnDownReport, error)

	// Import and export
	Export(ctx context.Context, w io.Writer, format transfer.Format) error
	ExportToFile(ctx context.Context, path string, format transfer.Format) error
	ImportFile(ctx context.Context, path string, format transfer.Format) (*services.ImportResult, error)

	Close() error
}

type apiImpl struct {
	repo      repository.TaskRepository
	tasks     services.TaskService
	search    services.SearchService
	reporting services.ReportingService
	exporter  *transfer.Exporter
	importer  *transfer.Importer
}

// New creates a new API instance over repo. Import and export files are
// accessed through fs; cfg may be nil.
func New(repo repository.TaskRepository, cfg *config.Config, fs afero.Fs) API {
	container := services.NewServiceContainer(repo, cfg)
	exporter := transfer.NewExporter(fs)
	if cfg != nil {
		exporter = exporter.WithDateFormat(cfg.Display.DateFormat)
	}
	return &apiImpl{
		repo:      repo,
		tasks:     container.TaskService,
		search:    container.SearchService,
		reporting: container.ReportingService,
		exporter:  exporter,
		importer:  transfer.NewImporter(fs),
	}
}

func (a *apiImpl) CreateTask(ctx context.Context, req services.CreateTaskRequest) (*domain.Task, error) {
	return a.tasks.CreateTask(ctx, req)
}

func (a *apiImpl) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	return a.tasks.GetTask(ctx, id)
}

func (a *apiImpl) UpdateTask(ctx context.Context, id int64, req services.UpdateTaskRequest) (*domain.Task, error) {
	return a.tasks.UpdateTask(ctx, id, req)
}

func (a *apiImpl) DeleteTask(ctx context.Context, id int64) error {
	return a.tasks.DeleteTask(ctx, id)
}

func (a *apiImpl) MarkTask(ctx context.Context, id int64, status domain.Status) (*domain.Task, error) {
	return a.tasks.MarkTask(ctx, id, status)
}

func (a *apiImpl) SetPriority(ctx context.Context, id int64, priority string) (*domain.Task, error) {
	return a.tasks.SetPriority(ctx, id, priority)
}

func (a *apiImpl) AddTag(ctx context.Context, id int64, tag string) (*domain.Task, error) {
	return a.tasks.AddTag(ctx, id, tag)
}

func (a *apiImpl) RemoveTag(ctx context.Context, id int64, tag string) (*domain.Task, error) {
	return a.tasks.RemoveTag(ctx, id, tag)
}

func (a *apiImpl) SetDeadline(ctx context.Context, id int64, deadline string) (*domain.Task, error) {
	return a.tasks.SetDeadline(ctx, id, deadline)
}

func (a *apiImpl) ClearDeadline(ctx context.Context, id int64) (*domain.Task, error) {
	return a.tasks.ClearDeadline(ctx, id)
}

func (a *apiImpl) ListTasks(ctx context.Context, status string) ([]domain.Task, error) {
	return a.tasks.ListTasks(ctx, status)
}

func (a *apiImpl) FilterTasks(ctx context.Context, req services.FilterRequest) ([]domain.Task, error) {
	return a.tasks.FilterTasks(ctx, req)
}

func (a *apiImpl) Search(ctx context.Context, req services.SearchRequest) ([]domain.Task, error) {
	return a.search.Search(ctx, req)
}

func (a *apiImpl) GetStats(ctx context.Context) (*domain.Stats, error) {
	return a.reporting.GetStats(ctx)
}

func (a *apiImpl) WeeklyReport(ctx context.Context) (*services.WeeklyReport, error) {
	return a.reporting.WeeklyReport(ctx)
}

func (a *apiImpl) ProductivityReport(ctx context.Context) (*services.ProductivityReport, error) {
	return a.reporting.ProductivityReport(ctx)
}

func (a *apiImpl) BurnDown(ctx context.Context) (*services.BurnDownReport, error) {
	return a.reporting.BurnDown(ctx)
}

// Export writes the whole collection to w
func (a *apiImpl) Export(ctx context.Context, w io.Writer, format transfer.Format) error {
	tasks, err := a.tasks.ListTasks(ctx, "")
	if err != nil {
		return err
	}
	return a.exporter.Export(w, tasks, format)
}

// ExportToFile writes the whole collection to path
func (a *apiImpl) ExportToFile(ctx context.Context, path string, format transfer.Format) error {
	tasks, err := a.tasks.ListTasks(ctx, "")
	if err != nil {
		return err
	}
	return a.exporter.ExportToFile(path, tasks, format)
}

// ImportFile reads path and creates a task for every valid item in it
func (a *apiImpl) ImportFile(ctx context.Context, path string, format transfer.Format) (*services.ImportResult, error) {
	items, err := a.importer.ImportFile(path, format)
	if err != nil {
		return nil, err
	}
	return a.tasks.ImportTasks(ctx, items)
}

func (a *apiImpl) Close() error {
	return a.repo.Close()
}
