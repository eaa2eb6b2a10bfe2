package cli

import (
	"context"
)

// ListCommand handles the list command
type ListCommand struct {
	app *App
}

// NewListCommand creates a new list command handler
func NewListCommand(app *App) *ListCommand {
	return &ListCommand{app: app}
}

// Execute lists every task, or the tasks in the status given as first argument
func (c *ListCommand) Execute(ctx context.Context, args []string) error {
	status := statusArg(args)
	tasks, err := c.app.api.ListTasks(ctx, status)
	if err != nil {
		return err
	}

	if len(tasks) == 0 {
		c.app.view.println(c.app.view.warning.Render(noTasksMessage(status)))
		return nil
	}

	c.app.printTaskBlocks("📋 Tasks List:", tasks)
	return nil
}

// PrintCommand handles the print command, a table rendering of list
type PrintCommand struct {
	app *App
}

// NewPrintCommand creates a new print command handler
func NewPrintCommand(app *App) *PrintCommand {
	return &PrintCommand{app: app}
}

// Execute prints the tasks as a table
func (c *PrintCommand) Execute(ctx context.Context, args []string) error {
	status := statusArg(args)
	tasks, err := c.app.api.ListTasks(ctx, status)
	if err != nil {
		return err
	}

	if len(tasks) == 0 {
		c.app.view.println(c.app.view.warning.Render(noTasksMessage(status)))
		return nil
	}

	c.app.printTaskTable(tasks, status)
	return nil
}

func statusArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func noTasksMessage(status string) string {
	if status == "" {
		return "No tasks found"
	}
	return "No " + status + " tasks found"
}
