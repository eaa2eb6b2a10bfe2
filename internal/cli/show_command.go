package cli

import (
	"context"
)

// ShowCommand prints a single task
type ShowCommand struct {
	app *App
}

// NewShowCommand creates a new show command handler
func NewShowCommand(app *App) *ShowCommand {
	return &ShowCommand{app: app}
}

// Execute prints the task whose id is the first argument
func (c *ShowCommand) Execute(ctx context.Context, args []string) error {
	id, err := parseTaskID(firstArg(args))
	if err != nil {
		return err
	}

	task, err := c.app.api.GetTask(ctx, id)
	if err != nil {
		return err
	}

	c.app.printTaskBlock(*task)
	return nil
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
