package cli

import (
	"context"
	"fmt"
)

// DeleteCommand handles the delete command
type DeleteCommand struct {
	app *App
}

// NewDeleteCommand creates a new delete command handler
func NewDeleteCommand(app *App) *DeleteCommand {
	return &DeleteCommand{app: app}
}

// Execute removes the task whose id is the first argument
func (c *DeleteCommand) Execute(ctx context.Context, args []string) error {
	id, err := parseTaskID(firstArg(args))
	if err != nil {
		return err
	}

	if err := c.app.api.DeleteTask(ctx, id); err != nil {
		return err
	}

	c.app.view.println(c.app.view.success.Render(fmt.Sprintf("✅ Task deleted successfully (ID: %d)", id)))
	return nil
}
