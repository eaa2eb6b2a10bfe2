package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"task-tracker/internal/errors"
	"task-tracker/internal/transfer"
)

// ExportCommand writes the collection in one of the export formats
type ExportCommand struct {
	app    *App
	format string
	output string
}

// NewExportCommand creates a new export command handler
func NewExportCommand(app *App) *ExportCommand {
	return &ExportCommand{app: app}
}

// Execute exports to the output file, or to stdout when none was given
func (c *ExportCommand) Execute(ctx context.Context, args []string) error {
	name := c.format
	if name == "" {
		name = c.app.config.Commands.ExportDefaultFormat
		if c.output != "" {
			name = string(transfer.FormatFromPath(c.output))
		}
	}
	format, err := transfer.ParseFormat(name)
	if err != nil {
		return err
	}

	if c.output == "" {
		if format == transfer.FormatTable {
			return c.printTable(ctx)
		}
		return c.app.api.Export(ctx, c.app.out, format)
	}

	if err := c.app.api.ExportToFile(ctx, c.output, format); err != nil {
		return err
	}
	c.app.view.println(c.app.view.success.Render(fmt.Sprintf("✅ Exported tasks to %s (%s)", c.output, format)))
	return nil
}

// printTable renders the table export on the terminal, styled and sized to its width
func (c *ExportCommand) printTable(ctx context.Context) error {
	tasks, err := c.app.api.ListTasks(ctx, "")
	if err != nil {
		return err
	}

	v := c.app.view
	descWidth := max(20, min(40, v.width-60))
	t := &table{headers: transfer.TableHeader}
	for _, task := range tasks {
		deadline := "No deadline"
		if task.Deadline != nil {
			deadline = c.app.formatDate(*task.Deadline)
		}
		t.rows = append(t.rows, []string{
			strconv.FormatInt(task.ID, 10),
			truncate(task.Description, descWidth),
			task.Status.String(),
			task.Priority.String(),
			deadline,
		})
	}

	v.println("")
	v.println(v.title.Render("📊 Task Export Table"))
	v.println(strings.TrimRight(t.render(v), "\n"))
	v.println(v.subtle.Render("Total: " + plural(len(tasks), "task")))
	return nil
}

// ImportCommand creates tasks from a JSON or CSV file
type ImportCommand struct {
	app    *App
	format string
}

// NewImportCommand creates a new import command handler
func NewImportCommand(app *App) *ImportCommand {
	return &ImportCommand{app: app}
}

// Execute imports the file given as first argument. Items that fail
// validation are reported and skipped.
func (c *ImportCommand) Execute(ctx context.Context, args []string) error {
	path := firstArg(args)
	if path == "" {
		return errors.NewInvalidInputError("file", "", "usage: task-cli import <file> [--format json|csv]")
	}

	format := transfer.FormatFromPath(path)
	if c.format != "" {
		f, err := transfer.ParseFormat(c.format)
		if err != nil {
			return err
		}
		format = f
	}

	result, err := c.app.api.ImportFile(ctx, path, format)
	if err != nil {
		return err
	}

	v := c.app.view
	if len(result.Imported) == 0 && len(result.Failed) == 0 {
		v.println(v.warning.Render("❌ No tasks found in import file"))
		return nil
	}

	for _, failure := range result.Failed {
		fmt.Fprintln(c.app.errOut, v.warning.Render(fmt.Sprintf("  ⚠️  Failed to import #%d %q: %s", failure.Index+1, failure.Description, NewErrorHandler().Message(failure.Err))))
	}
	v.println(v.success.Render("✅ Import completed:"))
	v.println(fmt.Sprintf("   Success: %d tasks", len(result.Imported)))
	if len(result.Failed) > 0 {
		v.println(fmt.Sprintf("   Failed: %d tasks", len(result.Failed)))
	}
	return nil
}
