package cli

import (
	"context"
	"fmt"
	"strings"

	"task-tracker/internal/errors"
	"task-tracker/internal/services"
)

// UpdateCommand handles the update command. Only the fields that were
// given on the command line are changed.
type UpdateCommand struct {
	app      *App
	status   *string
	priority *string
	deadline *string
	tags     *[]string
}

// NewUpdateCommand creates a new update command handler
func NewUpdateCommand(app *App) *UpdateCommand {
	return &UpdateCommand{app: app}
}

// Execute updates the task whose id is the first argument. Remaining
// arguments form the new description.
func (c *UpdateCommand) Execute(ctx context.Context, args []string) error {
	id, err := parseTaskID(firstArg(args))
	if err != nil {
		return err
	}

	req := services.UpdateTaskRequest{
		Status:   c.status,
		Priority: c.priority,
		Deadline: c.deadline,
		Tags:     c.tags,
	}
	if len(args) > 1 {
		description := strings.Join(args[1:], " ")
		req.Description = &description
	}
	if req == (services.UpdateTaskRequest{}) {
		return errors.NewInvalidInputError("update", args[0], "nothing to update: give a description or at least one flag")
	}

	task, err := c.app.api.UpdateTask(ctx, id, req)
	if err != nil {
		return err
	}

	c.app.view.println(c.app.view.success.Render(fmt.Sprintf("✅ Task updated successfully (ID: %d)", task.ID)))
	return nil
}
