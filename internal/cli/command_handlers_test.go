package cli

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-tracker/internal/domain"
	"task-tracker/internal/errors"
	"task-tracker/internal/services"
	"task-tracker/internal/transfer"
)

func noon(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
	return &t
}

func TestAddCommand_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("joins arguments into the description", func(t *testing.T) {
		app, mock, out, _ := setupTestAppWithMockAPI(t)
		cmd := NewAddCommand(app)
		cmd.priority = "high"
		cmd.tags = []string{"work", "work", " home "}

		require.NoError(t, cmd.Execute(ctx, []string{"Write", "the", "report"}))

		require.Len(t, mock.tasks, 1)
		assert.Equal(t, "Write the report", mock.tasks[0].Description)
		assert.Equal(t, domain.PriorityHigh, mock.tasks[0].Priority)
		assert.Equal(t, []string{"work", "home"}, mock.tasks[0].Tags)
		assert.Contains(t, out.String(), "Task added successfully (ID: 1)")
	})

	t.Run("requires a description", func(t *testing.T) {
		app, _, _, _ := setupTestAppWithMockAPI(t)
		err := NewAddCommand(app).Execute(ctx, nil)
		assert.True(t, errors.IsErrorType(err, errors.ErrorTypeInvalidInput))
	})

	t.Run("passes validation errors through", func(t *testing.T) {
		app, mock, out, _ := setupTestAppWithMockAPI(t)
		cmd := NewAddCommand(app)
		cmd.deadline = "tomorrow"

		err := cmd.Execute(ctx, []string{"Task"})
		assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
		assert.Empty(t, mock.tasks)
		assert.Empty(t, out.String())
	})
}

func TestListCommand_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("empty collection", func(t *testing.T) {
		app, _, out, _ := setupTestAppWithMockAPI(t)
		require.NoError(t, NewListCommand(app).Execute(ctx, nil))
		assert.Contains(t, out.String(), "No tasks found")
	})

	t.Run("empty status", func(t *testing.T) {
		app, mock, out, _ := setupTestAppWithMockAPI(t)
		mock.seed(domain.Task{Description: "A"})
		require.NoError(t, NewListCommand(app).Execute(ctx, []string{"done"}))
		assert.Contains(t, out.String(), "No done tasks found")
	})

	t.Run("prints a block per task", func(t *testing.T) {
		app, mock, out, _ := setupTestAppWithMockAPI(t)
		mock.seed(
			domain.Task{Description: "Buy milk", Tags: []string{"home"}},
			domain.Task{Description: "Ship release", Status: domain.StatusInProgress, Priority: domain.PriorityHigh},
		)

		require.NoError(t, NewListCommand(app).Execute(ctx, nil))
		output := out.String()
		assert.Contains(t, output, "ID: 1")
		assert.Contains(t, output, "Description: Buy milk")
		assert.Contains(t, output, "Tags: home")
		assert.Contains(t, output, "Status: in-progress")
		assert.Contains(t, output, "Priority: high")
		assert.Contains(t, output, "Total tasks: 2")
	})

	t.Run("rejects an unknown status", func(t *testing.T) {
		app, _, _, _ := setupTestAppWithMockAPI(t)
		err := NewListCommand(app).Execute(ctx, []string{"archived"})
		assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
	})
}

func TestPrintCommand_Execute(t *testing.T) {
	app, mock, out, _ := setupTestAppWithMockAPI(t)
	mock.seed(
		domain.Task{Description: "Short", Deadline: noon(2024, 6, 20)},
		domain.Task{Description: "A description that is certainly longer than forty characters in total", Status: domain.StatusDone},
	)

	require.NoError(t, NewPrintCommand(app).Execute(context.Background(), nil))
	output := out.String()
	assert.Contains(t, output, "Task List")
	assert.Contains(t, output, "Description")
	assert.Contains(t, output, "TODO")
	assert.Contains(t, output, "DONE")
	assert.Contains(t, output, "…")
	assert.Contains(t, output, "Total: 2 tasks")
}

func TestShowCommand_Execute(t *testing.T) {
	ctx := context.Background()
	app, mock, out, _ := setupTestAppWithMockAPI(t)
	mock.seed(domain.Task{Description: "Overdue thing", Deadline: noon(2024, 6, 9)})

	require.NoError(t, NewShowCommand(app).Execute(ctx, []string{"1"}))
	assert.Contains(t, out.String(), "Overdue thing")
	assert.Contains(t, out.String(), "overdue by 3 days")

	err := NewShowCommand(app).Execute(ctx, []string{"2"})
	assert.True(t, errors.IsNotFound(err))

	err = NewShowCommand(app).Execute(ctx, []string{"abc"})
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeInvalidInput))
}

func TestUpdateCommand_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("description from arguments", func(t *testing.T) {
		app, mock, out, _ := setupTestAppWithMockAPI(t)
		mock.seed(domain.Task{Description: "Old"})

		require.NoError(t, NewUpdateCommand(app).Execute(ctx, []string{"1", "New", "text"}))
		assert.Equal(t, "New text", mock.tasks[0].Description)
		assert.Nil(t, mock.lastUpdate.Priority)
		assert.Contains(t, out.String(), "Task updated successfully (ID: 1)")
	})

	t.Run("flags only", func(t *testing.T) {
		app, mock, _, _ := setupTestAppWithMockAPI(t)
		mock.seed(domain.Task{Description: "Old"})
		cmd := NewUpdateCommand(app)
		high := "high"
		cmd.priority = &high

		require.NoError(t, cmd.Execute(ctx, []string{"1"}))
		assert.Nil(t, mock.lastUpdate.Description)
		assert.Equal(t, domain.PriorityHigh, mock.tasks[0].Priority)
	})

	t.Run("nothing to update", func(t *testing.T) {
		app, mock, _, _ := setupTestAppWithMockAPI(t)
		mock.seed(domain.Task{Description: "Old"})

		err := NewUpdateCommand(app).Execute(ctx, []string{"1"})
		assert.True(t, errors.IsErrorType(err, errors.ErrorTypeInvalidInput))
	})

	t.Run("missing task", func(t *testing.T) {
		app, _, _, _ := setupTestAppWithMockAPI(t)
		err := NewUpdateCommand(app).Execute(ctx, []string{"9", "x"})
		assert.True(t, errors.IsNotFound(err))
	})
}

func TestDeleteCommand_Execute(t *testing.T) {
	ctx := context.Background()
	app, mock, out, _ := setupTestAppWithMockAPI(t)
	mock.seed(domain.Task{Description: "A"}, domain.Task{Description: "B"})

	require.NoError(t, NewDeleteCommand(app).Execute(ctx, []string{"2"}))
	assert.Len(t, mock.tasks, 1)
	assert.Contains(t, out.String(), "Task deleted successfully (ID: 2)")

	err := NewDeleteCommand(app).Execute(ctx, []string{"2"})
	assert.True(t, errors.IsNotFound(err))

	err = NewDeleteCommand(app).Execute(ctx, []string{"0"})
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeInvalidInput))
}

func TestMarkCommand_Execute(t *testing.T) {
	ctx := context.Background()
	app, mock, out, _ := setupTestAppWithMockAPI(t)
	mock.seed(domain.Task{Description: "A"})

	require.NoError(t, NewMarkCommand(app, domain.StatusInProgress).Execute(ctx, []string{"1"}))
	assert.Equal(t, domain.StatusInProgress, mock.tasks[0].Status)
	assert.Contains(t, out.String(), "Task marked as in-progress (ID: 1)")

	require.NoError(t, NewMarkCommand(app, domain.StatusDone).Execute(ctx, []string{"1"}))
	assert.Equal(t, domain.StatusDone, mock.tasks[0].Status)
}

func TestPriorityCommand_Execute(t *testing.T) {
	ctx := context.Background()
	app, mock, out, _ := setupTestAppWithMockAPI(t)
	mock.seed(domain.Task{Description: "A"})

	require.NoError(t, NewPriorityCommand(app).Execute(ctx, []string{"1", "HIGH"}))
	assert.Equal(t, domain.PriorityHigh, mock.tasks[0].Priority)
	assert.Contains(t, out.String(), "Task priority set to high (ID: 1)")

	err := NewPriorityCommand(app).Execute(ctx, []string{"1", "urgent"})
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))

	err = NewPriorityCommand(app).Execute(ctx, []string{"1"})
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeInvalidInput))
}

func TestTagCommand_Execute(t *testing.T) {
	ctx := context.Background()
	app, mock, out, _ := setupTestAppWithMockAPI(t)
	mock.seed(domain.Task{Description: "A", Tags: []string{"home"}})

	require.NoError(t, NewTagCommand(app, false).Execute(ctx, []string{"1", "work"}))
	assert.Equal(t, []string{"home", "work"}, mock.tasks[0].Tags)
	assert.Contains(t, out.String(), `Tag "work" added to task (ID: 1)`)
	assert.Contains(t, out.String(), "Current tags: home, work")

	out.Reset()
	require.NoError(t, NewTagCommand(app, true).Execute(ctx, []string{"1", "home"}))
	require.NoError(t, NewTagCommand(app, true).Execute(ctx, []string{"1", "work"}))
	assert.Empty(t, mock.tasks[0].Tags)
	assert.Contains(t, out.String(), "Current tags: none")

	err := NewTagCommand(app, false).Execute(ctx, []string{"1"})
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeInvalidInput))
}

func TestDeadlineCommand_Execute(t *testing.T) {
	ctx := context.Background()
	app, mock, out, _ := setupTestAppWithMockAPI(t)
	mock.seed(domain.Task{Description: "A"})

	require.NoError(t, NewDeadlineCommand(app).Execute(ctx, []string{"1", "2024-12-31"}))
	require.NotNil(t, mock.tasks[0].Deadline)
	assert.Contains(t, out.String(), "Deadline set for task (ID: 1)")

	out.Reset()
	require.NoError(t, NewDeadlineCommand(app).Execute(ctx, []string{"1", "clear"}))
	assert.Nil(t, mock.tasks[0].Deadline)
	assert.Contains(t, out.String(), "Deadline cleared for task (ID: 1)")

	err := NewDeadlineCommand(app).Execute(ctx, []string{"1", "someday"})
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
}

func TestFilterCommand_Execute(t *testing.T) {
	ctx := context.Background()
	app, mock, out, _ := setupTestAppWithMockAPI(t)
	mock.seed(
		domain.Task{Description: "Work item", Priority: domain.PriorityHigh, Tags: []string{"work"}},
		domain.Task{Description: "Chore", Priority: domain.PriorityLow},
	)

	cmd := NewFilterCommand(app)
	cmd.req = services.FilterRequest{Priority: "high", Tag: "work", Overdue: true}
	require.NoError(t, cmd.Execute(ctx, nil))

	assert.Equal(t, cmd.req, mock.lastFilter)
	output := out.String()
	assert.Contains(t, output, "Filters: Priority: high | Tag: work | Overdue: true")
	assert.Contains(t, output, "Found 1 task:")
	assert.Contains(t, output, "Work item")
	assert.NotContains(t, output, "Chore")

	out.Reset()
	cmd.req = services.FilterRequest{Tag: "missing"}
	require.NoError(t, cmd.Execute(ctx, nil))
	assert.Contains(t, out.String(), "No tasks found matching your filters")
}

func TestSearchCommand_Execute(t *testing.T) {
	ctx := context.Background()
	app, mock, out, _ := setupTestAppWithMockAPI(t)
	mock.seed(domain.Task{Description: "Quarterly report"}, domain.Task{Description: "Groceries"})

	cmd := NewSearchCommand(app)
	cmd.limit = 5
	cmd.status = "todo"
	require.NoError(t, cmd.Execute(ctx, []string{"REPORT"}))

	assert.Equal(t, services.SearchRequest{Keyword: "REPORT", Status: "todo", Limit: 5}, mock.lastSearch)
	assert.Contains(t, out.String(), `Keyword: "REPORT" | Status: todo`)
	assert.Contains(t, out.String(), "Quarterly report")
	assert.NotContains(t, out.String(), "Groceries")

	out.Reset()
	require.NoError(t, NewSearchCommand(app).Execute(ctx, []string{"nothing"}))
	assert.Contains(t, out.String(), "No tasks found matching your criteria")
}

func TestStatsCommand_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("empty", func(t *testing.T) {
		app, _, out, _ := setupTestAppWithMockAPI(t)
		require.NoError(t, NewStatsCommand(app).Execute(ctx, nil))
		assert.Contains(t, out.String(), "No tasks found. Add some tasks to see statistics!")
	})

	t.Run("breakdown", func(t *testing.T) {
		app, mock, out, _ := setupTestAppWithMockAPI(t)
		mock.stats = &domain.Stats{Total: 4, Todo: 1, InProgress: 1, Done: 2, CompletionRate: 50, RecentTasks: 3, OldTasks: 1}

		require.NoError(t, NewStatsCommand(app).Execute(ctx, nil))
		output := out.String()
		assert.Contains(t, output, "Total Tasks: 4")
		assert.Contains(t, output, "Done: 2 (██████████──────────)")
		assert.Contains(t, output, "50%")
		assert.Contains(t, output, "Recent (7 days): 3 tasks")
		assert.Contains(t, output, "Old (>30 days): 1 tasks")
		assert.Contains(t, output, "Todo: 25.0%")
	})
}

func TestExportCommand_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("stdout with the configured default", func(t *testing.T) {
		app, mock, out, _ := setupTestAppWithMockAPI(t)
		mock.seed(domain.Task{Description: "A"})
		app.config.Commands.ExportDefaultFormat = "yaml"

		require.NoError(t, NewExportCommand(app).Execute(ctx, nil))
		assert.Equal(t, "exported 1 tasks as yaml\n", out.String())
	})

	t.Run("format from the output extension", func(t *testing.T) {
		app, mock, out, _ := setupTestAppWithMockAPI(t)
		cmd := NewExportCommand(app)
		cmd.output = "backup/tasks.csv"

		require.NoError(t, cmd.Execute(ctx, nil))
		assert.Equal(t, "backup/tasks.csv:csv", mock.exportedTo)
		assert.Contains(t, out.String(), "Exported tasks to backup/tasks.csv (csv)")
	})

	t.Run("explicit format wins", func(t *testing.T) {
		app, mock, _, _ := setupTestAppWithMockAPI(t)
		cmd := NewExportCommand(app)
		cmd.output = "tasks.csv"
		cmd.format = "md"

		require.NoError(t, cmd.Execute(ctx, nil))
		assert.Equal(t, "tasks.csv:markdown", mock.exportedTo)
	})

	t.Run("table on stdout", func(t *testing.T) {
		app, mock, out, _ := setupTestAppWithMockAPI(t)
		mock.seed(domain.Task{Description: "Plan the offsite", Priority: domain.PriorityHigh}, domain.Task{Description: "Book rooms", Deadline: noon(2024, 6, 20)})
		cmd := NewExportCommand(app)
		cmd.format = "table"

		require.NoError(t, cmd.Execute(ctx, nil))
		output := out.String()
		assert.Contains(t, output, "📊 Task Export Table")
		assert.Contains(t, output, " ID  Description       Status  Priority  Deadline")
		assert.Contains(t, output, "Plan the offsite")
		assert.Contains(t, output, "No deadline")
		assert.Contains(t, output, "Total: 2 tasks")
		assert.Empty(t, mock.exportedTo)
	})

	t.Run("table to a file", func(t *testing.T) {
		app, mock, _, _ := setupTestAppWithMockAPI(t)
		cmd := NewExportCommand(app)
		cmd.output = "tasks.txt"

		require.NoError(t, cmd.Execute(ctx, nil))
		assert.Equal(t, "tasks.txt:table", mock.exportedTo)
	})

	t.Run("unknown format", func(t *testing.T) {
		app, _, _, _ := setupTestAppWithMockAPI(t)
		cmd := NewExportCommand(app)
		cmd.format = "xml"
		err := cmd.Execute(ctx, nil)
		assert.True(t, errors.IsErrorType(err, errors.ErrorTypeInvalidInput))
	})
}

func TestImportCommand_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("reports successes and failures", func(t *testing.T) {
		app, mock, out, errOut := setupTestAppWithMockAPI(t)
		mock.importResult = &services.ImportResult{
			Imported: []domain.Task{{ID: 1, Description: "A"}, {ID: 2, Description: "B"}},
			Failed: []services.ImportFailure{
				{Index: 2, Description: "", Err: invalid("description", "description is required")},
			},
		}

		require.NoError(t, NewImportCommand(app).Execute(ctx, []string{"tasks.csv"}))
		assert.Equal(t, "tasks.csv", mock.importedFrom)
		assert.Equal(t, transfer.FormatCSV, mock.importFormat)
		assert.Contains(t, out.String(), "Success: 2 tasks")
		assert.Contains(t, out.String(), "Failed: 1 tasks")
		assert.Contains(t, errOut.String(), "Failed to import #3")
		assert.Contains(t, errOut.String(), "description is required")
	})

	t.Run("empty file", func(t *testing.T) {
		app, _, out, _ := setupTestAppWithMockAPI(t)
		cmd := NewImportCommand(app)
		cmd.format = "json"
		require.NoError(t, cmd.Execute(ctx, []string{"tasks.txt"}))
		assert.Contains(t, out.String(), "No tasks found in import file")
	})

	t.Run("storage failure", func(t *testing.T) {
		app, mock, _, _ := setupTestAppWithMockAPI(t)
		mock.err = errors.NewStorageError("read import file", assert.AnError)
		err := NewImportCommand(app).Execute(ctx, []string{"missing.json"})
		assert.True(t, errors.IsErrorType(err, errors.ErrorTypeStorage))
	})
}
