package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// StatsCommand prints collection statistics
type StatsCommand struct {
	app *App
}

// NewStatsCommand creates a new stats command handler
func NewStatsCommand(app *App) *StatsCommand {
	return &StatsCommand{app: app}
}

// Execute prints totals, the status breakdown, completion rate and activity
func (c *StatsCommand) Execute(ctx context.Context, args []string) error {
	stats, err := c.app.api.GetStats(ctx)
	if err != nil {
		return err
	}

	v := c.app.view
	v.println("")
	v.println(v.title.Render("📊 Task Statistics"))
	v.println(v.subtle.Render(strings.Repeat("═", 50)))

	v.println(v.header.Render("📈 Totals:"))
	v.println("  📝 Total Tasks: " + v.warning.Render(strconv.Itoa(stats.Total)))
	if stats.Total == 0 {
		v.println(v.warning.Render("\n  No tasks found. Add some tasks to see statistics!"))
		return nil
	}

	v.println(v.header.Render("\n📊 Status Breakdown:"))
	v.println(fmt.Sprintf("  ✅ Done: %s (%s)", v.success.Render(strconv.Itoa(stats.Done)), bar(stats.Done, stats.Total, 20, "█", "─")))
	v.println(fmt.Sprintf("  ⏳ In Progress: %s (%s)", v.info.Render(strconv.Itoa(stats.InProgress)), bar(stats.InProgress, stats.Total, 20, "█", "─")))
	v.println(fmt.Sprintf("  📝 Todo: %s (%s)", v.warning.Render(strconv.Itoa(stats.Todo)), bar(stats.Todo, stats.Total, 20, "█", "─")))

	v.println(v.header.Render("\n🎯 Completion Rate:"))
	v.println(fmt.Sprintf("  %s %s", v.rateStyle(stats.CompletionRate).Render(strconv.Itoa(stats.CompletionRate)+"%"), bar(stats.CompletionRate, 100, 20, "█", "░")))

	v.println(v.header.Render("\n📅 Recent Activity:"))
	v.println(fmt.Sprintf("  🆕 Recent (7 days): %s tasks", v.info.Render(strconv.Itoa(stats.RecentTasks))))
	oldStyle := v.success
	if stats.OldTasks > 0 {
		oldStyle = v.failure
	}
	v.println(fmt.Sprintf("  🕰️  Old (>30 days): %s tasks", oldStyle.Render(strconv.Itoa(stats.OldTasks))))

	v.println(v.header.Render("\n📊 Percentages:"))
	v.println(fmt.Sprintf("  ✅ Done: %s%%", percentage(stats.Done, stats.Total)))
	v.println(fmt.Sprintf("  ⏳ In Progress: %s%%", percentage(stats.InProgress, stats.Total)))
	v.println(fmt.Sprintf("  📝 Todo: %s%%", percentage(stats.Todo, stats.Total)))
	v.println(v.subtle.Render(strings.Repeat("═", 50)))
	return nil
}
