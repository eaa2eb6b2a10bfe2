package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"task-tracker/internal/domain"
)

// printTaskBlocks prints one detail block per task, as list, filter and
// search show them.
func (a *App) printTaskBlocks(title string, tasks []domain.Task) {
	v := a.view
	v.println("")
	v.println(v.title.Render(title))
	v.println(v.rule())
	for _, task := range tasks {
		a.printTaskBlock(task)
		v.println(v.rule())
	}
	v.println(v.info.Render("Total tasks: " + strconv.Itoa(len(tasks))))
}

func (a *App) printTaskBlock(task domain.Task) {
	v := a.view
	v.println(fmt.Sprintf("%s ID: %d", statusIcon(task.Status), task.ID))
	v.println("  Description: " + task.Description)
	v.println("  Status: " + v.statusStyle(task.Status).Render(task.Status.String()))
	v.println("  Priority: " + v.priorityStyle(task.Priority).Render(task.Priority.String()))
	if task.Deadline != nil {
		v.println("  Deadline: " + a.describeDeadline(task))
	}
	if len(task.Tags) > 0 {
		v.println("  Tags: " + strings.Join(task.Tags, ", "))
	}
	v.println("  Created: " + a.formatDateTime(task.CreatedAt))
	v.println("  Updated: " + a.formatDateTime(task.UpdatedAt))
}

// describeDeadline formats the deadline with a hint when it is close or past.
func (a *App) describeDeadline(task domain.Task) string {
	v := a.view
	text := a.formatDate(*task.Deadline)
	if task.Status == domain.StatusDone {
		return text
	}
	days := int(math.Ceil(task.Deadline.Sub(timeNow()).Hours() / 24))
	switch {
	case task.IsOverdue(timeNow()):
		return v.failure.Render(fmt.Sprintf("%s (overdue by %s)", text, plural(max(-days, 1), "day")))
	case task.IsDueToday(timeNow()):
		return v.warning.Render(text + " (due today)")
	case days <= 3:
		return v.warning.Render(fmt.Sprintf("%s (due in %s)", text, plural(days, "day")))
	default:
		return text
	}
}

// printTaskTable prints tasks as a compact table.
func (a *App) printTaskTable(tasks []domain.Task, status string) {
	v := a.view
	descWidth := max(20, min(40, v.width-50))
	t := &table{headers: []string{"ID", "Status", "Priority", "Description", "Deadline", "Updated"}}
	for _, task := range tasks {
		deadline := "-"
		if task.Deadline != nil {
			deadline = a.formatDate(*task.Deadline)
		}
		t.rows = append(t.rows, []string{
			strconv.FormatInt(task.ID, 10),
			statusIcon(task.Status) + " " + statusLabel(task.Status),
			task.Priority.String(),
			truncate(task.Description, descWidth),
			deadline,
			a.relativeDate(task.UpdatedAt),
		})
	}

	v.println("")
	v.println(v.title.Render("📋 Task List"))
	rendered := t.render(v)
	v.println(strings.TrimRight(rendered, "\n"))

	summary := "📊 Total: " + plural(len(tasks), "task")
	if status != "" {
		summary += " (" + status + ")"
	}
	v.println(v.subtle.Render(summary))
}

// relativeDate renders a timestamp relative to now: a clock time for the
// last day, "Yesterday", a weekday within the week, else the date.
func (a *App) relativeDate(t time.Time) string {
	elapsed := timeNow().Sub(t)
	local := t.Local()
	switch {
	case elapsed < 24*time.Hour:
		return local.Format("15:04")
	case elapsed < 48*time.Hour:
		return "Yesterday"
	case elapsed < 7*24*time.Hour:
		return local.Format("Mon")
	default:
		return local.Format("Jan 2")
	}
}

// bar draws count out of total as a fixed-width bar.
func bar(count, total, length int, fill, empty string) string {
	filled := 0
	if total > 0 {
		filled = int(math.Round(float64(count) / float64(total) * float64(length)))
	}
	return strings.Repeat(fill, filled) + strings.Repeat(empty, length-filled)
}

func percentage(count, total int) string {
	if total == 0 {
		return "0"
	}
	return strconv.FormatFloat(float64(count)/float64(total)*100, 'f', 1, 64)
}
