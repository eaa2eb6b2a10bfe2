package cli

import (
	"context"
	"fmt"
	"strings"

	"task-tracker/internal/domain"
	"task-tracker/internal/errors"
)

// MarkCommand moves a task to a fixed status
type MarkCommand struct {
	app    *App
	status domain.Status
}

// NewMarkCommand creates a handler that marks tasks with status
func NewMarkCommand(app *App, status domain.Status) *MarkCommand {
	return &MarkCommand{app: app, status: status}
}

// Execute marks the task whose id is the first argument
func (c *MarkCommand) Execute(ctx context.Context, args []string) error {
	id, err := parseTaskID(firstArg(args))
	if err != nil {
		return err
	}

	task, err := c.app.api.MarkTask(ctx, id, c.status)
	if err != nil {
		return err
	}

	c.app.view.println(c.app.view.success.Render(fmt.Sprintf("✅ Task marked as %s (ID: %d)", task.Status, task.ID)))
	return nil
}

// PriorityCommand handles set-priority
type PriorityCommand struct {
	app *App
}

// NewPriorityCommand creates a new set-priority command handler
func NewPriorityCommand(app *App) *PriorityCommand {
	return &PriorityCommand{app: app}
}

// Execute expects the task id and the new priority
func (c *PriorityCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errors.NewInvalidInputError("arguments", strings.Join(args, " "), "usage: task-cli set-priority <id> <low|medium|high>")
	}
	id, err := parseTaskID(args[0])
	if err != nil {
		return err
	}

	task, err := c.app.api.SetPriority(ctx, id, args[1])
	if err != nil {
		return err
	}

	c.app.view.println(c.app.view.success.Render(fmt.Sprintf("✅ Task priority set to %s (ID: %d)", task.Priority, task.ID)))
	return nil
}

// TagCommand adds or removes a tag
type TagCommand struct {
	app    *App
	remove bool
}

// NewTagCommand creates a tag handler. remove selects removal instead of addition.
func NewTagCommand(app *App, remove bool) *TagCommand {
	return &TagCommand{app: app, remove: remove}
}

// Execute expects the task id and the tag
func (c *TagCommand) Execute(ctx context.Context, args []string) error {
	action := "add"
	if c.remove {
		action = "remove"
	}
	if len(args) != 2 {
		return errors.NewInvalidInputError("arguments", strings.Join(args, " "), "usage: task-cli tag "+action+" <id> <tag>")
	}
	id, err := parseTaskID(args[0])
	if err != nil {
		return err
	}

	var task *domain.Task
	if c.remove {
		task, err = c.app.api.RemoveTag(ctx, id, args[1])
	} else {
		task, err = c.app.api.AddTag(ctx, id, args[1])
	}
	if err != nil {
		return err
	}

	v := c.app.view
	verb := "added to"
	if c.remove {
		verb = "removed from"
	}
	v.println(v.success.Render(fmt.Sprintf("✅ Tag %q %s task (ID: %d)", strings.TrimSpace(args[1]), verb, task.ID)))
	current := strings.Join(task.Tags, ", ")
	if current == "" {
		current = "none"
	}
	v.println("   Current tags: " + current)
	return nil
}

// DeadlineCommand sets or clears a deadline
type DeadlineCommand struct {
	app *App
}

// NewDeadlineCommand creates a new deadline command handler
func NewDeadlineCommand(app *App) *DeadlineCommand {
	return &DeadlineCommand{app: app}
}

// Execute expects the task id and a date, or a clear literal
func (c *DeadlineCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errors.NewInvalidInputError("arguments", strings.Join(args, " "), "usage: task-cli deadline <id> <YYYY-MM-DD|clear>")
	}
	id, err := parseTaskID(args[0])
	if err != nil {
		return err
	}

	task, err := c.app.api.SetDeadline(ctx, id, args[1])
	if err != nil {
		return err
	}

	v := c.app.view
	if task.Deadline == nil {
		v.println(v.success.Render(fmt.Sprintf("✅ Deadline cleared for task (ID: %d)", task.ID)))
		return nil
	}
	v.println(v.success.Render(fmt.Sprintf("✅ Deadline set for task (ID: %d)", task.ID)))
	v.println("   Date: " + c.app.describeDeadline(*task))
	return nil
}
