package cli

import (
	"context"
	"fmt"
	"strings"

	"task-tracker/internal/errors"
	"task-tracker/internal/services"
)

// AddCommand handles the add command
type AddCommand struct {
	app      *App
	priority string
	deadline string
	tags     []string
}

// NewAddCommand creates a new add command handler
func NewAddCommand(app *App) *AddCommand {
	return &AddCommand{app: app}
}

// Execute creates a task from the joined arguments
func (c *AddCommand) Execute(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.NewInvalidInputError("description", "", "usage: task-cli add \"Task description\"")
	}

	task, err := c.app.api.CreateTask(ctx, services.CreateTaskRequest{
		Description: strings.Join(args, " "),
		Priority:    c.priority,
		Deadline:    c.deadline,
		Tags:        c.tags,
	})
	if err != nil {
		return err
	}

	c.app.view.println(c.app.view.success.Render(fmt.Sprintf("✅ Task added successfully (ID: %d)", task.ID)))
	return nil
}
