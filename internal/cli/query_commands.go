package cli

import (
	"context"
	"fmt"
	"strings"

	"task-tracker/internal/services"
)

// FilterCommand lists tasks matching every given criterion
type FilterCommand struct {
	app *App
	req services.FilterRequest
}

// NewFilterCommand creates a new filter command handler
func NewFilterCommand(app *App) *FilterCommand {
	return &FilterCommand{app: app}
}

// Execute runs the filter. Criteria come from flags; arguments are ignored.
func (c *FilterCommand) Execute(ctx context.Context, args []string) error {
	tasks, err := c.app.api.FilterTasks(ctx, c.req)
	if err != nil {
		return err
	}

	v := c.app.view
	v.println("")
	v.println(v.title.Render("🔍 Filter Results"))
	if criteria := c.criteria(); criteria != "" {
		v.println("Filters: " + criteria)
	}
	v.println(v.rule())

	if len(tasks) == 0 {
		v.println(v.warning.Render("No tasks found matching your filters"))
		return nil
	}

	v.println(fmt.Sprintf("Found %s:", plural(len(tasks), "task")))
	for _, task := range tasks {
		c.app.printTaskBlock(task)
		v.println(v.rule())
	}
	return nil
}

func (c *FilterCommand) criteria() string {
	var parts []string
	if c.req.Status != "" {
		parts = append(parts, "Status: "+c.req.Status)
	}
	if c.req.Priority != "" {
		parts = append(parts, "Priority: "+c.req.Priority)
	}
	if c.req.Tag != "" {
		parts = append(parts, "Tag: "+c.req.Tag)
	}
	if c.req.Overdue {
		parts = append(parts, "Overdue: true")
	}
	if c.req.DueToday {
		parts = append(parts, "Due Today: true")
	}
	return strings.Join(parts, " | ")
}

// SearchCommand searches descriptions for a keyword
type SearchCommand struct {
	app    *App
	status string
	limit  int
}

// NewSearchCommand creates a new search command handler
func NewSearchCommand(app *App) *SearchCommand {
	return &SearchCommand{app: app}
}

// Execute searches for the joined arguments. No arguments matches every task.
func (c *SearchCommand) Execute(ctx context.Context, args []string) error {
	req := services.SearchRequest{
		Keyword: strings.Join(args, " "),
		Status:  c.status,
		Limit:   c.limit,
	}
	tasks, err := c.app.api.Search(ctx, req)
	if err != nil {
		return err
	}

	v := c.app.view
	v.println("")
	v.println(v.title.Render("🔍 Search Results"))
	v.println(v.rule())

	var criteria []string
	if req.Keyword != "" {
		criteria = append(criteria, fmt.Sprintf("Keyword: %q", req.Keyword))
	}
	if req.Status != "" {
		criteria = append(criteria, "Status: "+req.Status)
	}

	if len(tasks) == 0 {
		v.println(v.warning.Render("No tasks found matching your criteria"))
		if len(criteria) > 0 {
			v.println(v.subtle.Render(strings.Join(criteria, " | ")))
		}
		return nil
	}

	if len(criteria) > 0 {
		v.println("Search Criteria: " + strings.Join(criteria, " | "))
		v.println(v.rule())
	}
	v.println(fmt.Sprintf("Found %s:", plural(len(tasks), "task")))
	for _, task := range tasks {
		c.app.printTaskBlock(task)
		v.println(v.rule())
	}
	return nil
}
