package cli

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"

	"task-tracker/internal/domain"
	"task-tracker/internal/errors"
	"task-tracker/internal/services"
)

const (
	reportWeekly       = "weekly"
	reportProductivity = "productivity"
	reportBurnDown     = "burn-down"

	burnDownBarLength = 40
)

// ReportCommand renders a Markdown report, or the burn-down chart
type ReportCommand struct {
	app    *App
	kind   string
	output string
	save   bool
}

// NewReportCommand creates a new report command handler
func NewReportCommand(app *App) *ReportCommand {
	return &ReportCommand{app: app}
}

// Execute renders the report named by the first argument or --type, weekly by default.
// With an output path, or --save, the report is written to a file.
func (c *ReportCommand) Execute(ctx context.Context, args []string) error {
	kind := strings.ToLower(firstArg(args))
	if kind == "" {
		kind = strings.ToLower(strings.TrimSpace(c.kind))
	}
	if kind == "" {
		kind = reportWeekly
	}

	var report string
	switch kind {
	case reportWeekly:
		weekly, err := c.app.api.WeeklyReport(ctx)
		if err != nil {
			return err
		}
		report = c.renderWeekly(weekly)
	case reportProductivity:
		productivity, err := c.app.api.ProductivityReport(ctx)
		if err != nil {
			return err
		}
		report = c.renderProductivity(productivity)
	case reportBurnDown:
		burnDown, err := c.app.api.BurnDown(ctx)
		if err != nil {
			return err
		}
		if c.output == "" && !c.save {
			c.renderBurnDown(c.app.view, burnDown)
			return nil
		}
		var buf bytes.Buffer
		c.renderBurnDown(newView(&buf, c.app.view.width), burnDown)
		report = buf.String()
	default:
		return errors.NewInvalidInputError("report", kind, "must be one of: weekly, productivity, burn-down")
	}

	output := c.output
	if output == "" && c.save {
		output = reportFileName(kind, timeNow())
	}
	if output == "" {
		_, err := fmt.Fprint(c.app.out, report)
		return err
	}

	if dir := filepath.Dir(output); dir != "." {
		if err := c.app.fs.MkdirAll(dir, 0755); err != nil {
			return errors.NewStorageError("create report directory", err)
		}
	}
	if err := afero.WriteFile(c.app.fs, output, []byte(report), 0644); err != nil {
		return errors.NewStorageError("write report", err)
	}
	c.app.view.println(c.app.view.success.Render("✅ Report saved to: " + output))
	return nil
}

func (c *ReportCommand) renderWeekly(r *services.WeeklyReport) string {
	var sb strings.Builder
	sb.WriteString("# Weekly Report\n\n")
	fmt.Fprintf(&sb, "Period: %s to %s\n", c.app.formatDate(r.PeriodStart), c.app.formatDate(r.PeriodEnd))
	fmt.Fprintf(&sb, "Generated: %s\n\n", c.app.formatDateTime(r.PeriodEnd))

	sb.WriteString("## 📊 Summary\n\n")
	fmt.Fprintf(&sb, "- Total Tasks: %d\n", r.Total)
	fmt.Fprintf(&sb, "- New This Week: %d\n", r.NewThisWeek)
	fmt.Fprintf(&sb, "- Completed This Week: %d\n", r.CompletedThisWeek)
	fmt.Fprintf(&sb, "- In Progress: %d\n", r.InProgress)
	fmt.Fprintf(&sb, "- Completion Rate: %d%%\n\n", r.CompletionRate)

	sb.WriteString("## 🎯 Tasks by Priority\n\n")
	writePriorityBreakdown(&sb, r.ByPriority)

	sb.WriteString("## 📅 Overdue Tasks\n\n")
	if len(r.Overdue) == 0 {
		sb.WriteString("No overdue tasks 🎉\n")
	}
	for _, o := range r.Overdue {
		fmt.Fprintf(&sb, "- ⚠️  **%s** (ID: %d) - Overdue by %s\n", o.Task.Description, o.Task.ID, plural(o.DaysOverdue, "day"))
	}

	sb.WriteString("\n## 🏆 Top Priorities for Next Week\n\n")
	if len(r.TopPriorities) == 0 {
		sb.WriteString("No high priority tasks remaining 🎉\n")
	}
	for _, task := range r.TopPriorities {
		fmt.Fprintf(&sb, "- ⭐ **%s** (ID: %d)\n", task.Description, task.ID)
	}
	return sb.String()
}

func (c *ReportCommand) renderProductivity(r *services.ProductivityReport) string {
	var sb strings.Builder
	sb.WriteString("# Productivity Report\n\n")
	fmt.Fprintf(&sb, "Generated: %s\n\n", c.app.formatDateTime(r.GeneratedAt))

	sb.WriteString("## 📈 Performance Metrics\n\n")
	fmt.Fprintf(&sb, "- Total Tasks: %d\n", r.Total)
	fmt.Fprintf(&sb, "- Completed Tasks: %d\n", r.Completed)
	fmt.Fprintf(&sb, "- Completion Rate: %d%%\n", r.CompletionRate)
	fmt.Fprintf(&sb, "- Avg. Completion Time: %.1f days\n\n", r.AverageCompletionDays)

	sb.WriteString("## 🏅 Most Productive Period\n\n")
	if r.BusiestWeekday == nil {
		sb.WriteString("No completed tasks to analyze\n\n")
	} else {
		fmt.Fprintf(&sb, "- Most productive day: **%s** (%s)\n", *r.BusiestWeekday, plural(r.BusiestWeekdayCount, "task"))
		fmt.Fprintf(&sb, "- Average tasks per day: %.1f\n\n", r.AveragePerDay)
	}

	sb.WriteString("## 📊 Priority Distribution\n\n")
	writePriorityBreakdown(&sb, r.ByPriority)
	return sb.String()
}

// renderBurnDown prints overall progress and the weekly breakdown through v
func (c *ReportCommand) renderBurnDown(v *view, r *services.BurnDownReport) {
	v.println("")
	v.println(v.title.Render("📉 Burn Down Chart"))
	v.println(strings.Repeat("═", 60))
	v.println(fmt.Sprintf("Total Tasks: %d", r.Total))
	v.println(fmt.Sprintf("Completed: %d", r.Completed))
	v.println(fmt.Sprintf("Remaining: %d", r.Remaining))
	v.println(fmt.Sprintf("Progress: %d%%", r.Progress))
	v.println("")
	v.println("[" + v.rateStyle(r.Progress).Render(bar(r.Progress, 100, burnDownBarLength, "█", "░")) + "]")

	v.println("")
	v.println(v.title.Render(fmt.Sprintf("📅 Last %d Weeks:", len(r.Weeks))))
	for i, w := range r.Weeks {
		v.println(fmt.Sprintf("  Week %d (%s to %s): %s, %d completed (%d%%)",
			i+1, c.app.formatDate(w.Start), c.app.formatDate(w.End), plural(w.Created, "task"), w.Completed, w.Progress))
	}
}

func writePriorityBreakdown(sb *strings.Builder, rows []services.PriorityCount) {
	for _, row := range rows {
		fmt.Fprintf(sb, "%s %s: %d tasks (%d%%) [%s]\n",
			priorityIcon(row.Priority), strings.ToUpper(row.Priority.String()),
			row.Count, row.Percent, bar(row.Percent, 100, 20, "█", "░"))
	}
	sb.WriteString("\n")
}

func priorityIcon(p domain.Priority) string {
	switch p {
	case domain.PriorityHigh:
		return "🔴"
	case domain.PriorityMedium:
		return "🟡"
	default:
		return "🟢"
	}
}

// reportFileName is the default file name used by --save.
func reportFileName(kind string, now time.Time) string {
	return fmt.Sprintf("task-report-%s-%s.md", kind, now.Format("2006-01-02"))
}
