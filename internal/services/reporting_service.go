package services

import (
	"context"
	"math"
	"sort"
	"time"

	"task-tracker/internal/domain"
	"task-tracker/internal/repository"
)

const (
	// RecentWindow is how far back a task counts as recently created
	RecentWindow = 7 * 24 * time.Hour
	// StaleWindow is how long an unfinished task may go untouched before it counts as old
	StaleWindow = 30 * 24 * time.Hour
	// TopPrioritiesLimit caps the high-priority list of the weekly report
	TopPrioritiesLimit = 5
	// BurnDownWeeks is how many trailing weeks a burn-down report breaks down
	BurnDownWeeks = 4

	day = 24 * time.Hour
)

// timeNow is a variable that can be replaced in tests
var timeNow = time.Now

// reportingServiceImpl implements the ReportingService interface
type reportingServiceImpl struct {
	repo repository.TaskRepository
}

// NewReportingService creates a new ReportingService instance
func NewReportingService(repo repository.TaskRepository) ReportingService {
	return &reportingServiceImpl{repo: repo}
}

// GetStats loads the collection and computes statistics at the current instant
func (r *reportingServiceImpl) GetStats(ctx context.Context) (*domain.Stats, error) {
	now := timeNow()
	tasks, err := r.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	stats := r.CalculateStats(tasks, now)
	return &stats, nil
}

// CalculateStats counts tasks per status plus the recent and old tallies
func (r *reportingServiceImpl) CalculateStats(tasks []domain.Task, now time.Time) domain.Stats {
	stats := domain.Stats{Total: len(tasks)}
	recentCutoff := now.Add(-RecentWindow)
	staleCutoff := now.Add(-StaleWindow)

	for _, t := range tasks {
		switch t.Status {
		case domain.StatusTodo:
			stats.Todo++
		case domain.StatusInProgress:
			stats.InProgress++
		case domain.StatusDone:
			stats.Done++
		}
		if !t.CreatedAt.Before(recentCutoff) {
			stats.RecentTasks++
		}
		if !t.UpdatedAt.After(staleCutoff) && t.Status != domain.StatusDone {
			stats.OldTasks++
		}
	}

	stats.CompletionRate = completionRate(stats.Done, stats.Total)
	return stats
}

// WeeklyReport summarizes the seven days ending now
func (r *reportingServiceImpl) WeeklyReport(ctx context.Context) (*WeeklyReport, error) {
	now := timeNow()
	tasks, err := r.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	weekAgo := now.Add(-RecentWindow)
	report := &WeeklyReport{
		PeriodStart:   weekAgo,
		PeriodEnd:     now,
		Total:         len(tasks),
		ByPriority:    priorityBreakdown(tasks),
		Overdue:       make([]OverdueTask, 0),
		TopPriorities: make([]domain.Task, 0, TopPrioritiesLimit),
	}

	done := 0
	for _, t := range tasks {
		if !t.CreatedAt.Before(weekAgo) {
			report.NewThisWeek++
		}
		switch t.Status {
		case domain.StatusDone:
			done++
			if !t.UpdatedAt.Before(weekAgo) {
				report.CompletedThisWeek++
			}
		case domain.StatusInProgress:
			report.InProgress++
		}
		if t.IsOverdue(now) {
			report.Overdue = append(report.Overdue, OverdueTask{
				Task:        t,
				DaysOverdue: int(now.Sub(*t.Deadline) / day),
			})
		}
		if t.Priority == domain.PriorityHigh && t.Status != domain.StatusDone && len(report.TopPriorities) < TopPrioritiesLimit {
			report.TopPriorities = append(report.TopPriorities, t)
		}
	}
	report.CompletionRate = completionRate(done, len(tasks))

	return report, nil
}

// ProductivityReport summarizes how quickly and when tasks get completed
func (r *reportingServiceImpl) ProductivityReport(ctx context.Context) (*ProductivityReport, error) {
	now := timeNow()
	tasks, err := r.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	report := &ProductivityReport{
		GeneratedAt: now,
		Total:       len(tasks),
		ByPriority:  priorityBreakdown(tasks),
	}

	var totalDays float64
	byWeekday := make(map[time.Weekday]int)
	for _, t := range tasks {
		if t.Status != domain.StatusDone {
			continue
		}
		report.Completed++
		totalDays += t.UpdatedAt.Sub(t.CreatedAt).Hours() / 24
		byWeekday[t.UpdatedAt.In(now.Location()).Weekday()]++
	}

	report.CompletionRate = completionRate(report.Completed, report.Total)
	if report.Completed > 0 {
		report.AverageCompletionDays = totalDays / float64(report.Completed)
		report.AveragePerDay = float64(report.Completed) / 7

		weekday, count := busiestWeekday(byWeekday)
		report.BusiestWeekday = &weekday
		report.BusiestWeekdayCount = count
	}

	return report, nil
}

// BurnDown reports overall progress and, for each of the last BurnDownWeeks
// weeks, how many of the tasks created that week are done. Weeks are oldest
// first; each starts inclusive and ends exclusive, except the current week,
// which includes now.
func (r *reportingServiceImpl) BurnDown(ctx context.Context) (*BurnDownReport, error) {
	now := timeNow()
	tasks, err := r.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	report := &BurnDownReport{
		GeneratedAt: now,
		Total:       len(tasks),
		Weeks:       make([]WeekProgress, BurnDownWeeks),
	}
	for i := range report.Weeks {
		weeksBack := BurnDownWeeks - i
		report.Weeks[i].Start = now.Add(-time.Duration(weeksBack) * RecentWindow)
		report.Weeks[i].End = now.Add(-time.Duration(weeksBack-1) * RecentWindow)
	}

	for _, t := range tasks {
		done := t.Status == domain.StatusDone
		if done {
			report.Completed++
		}
		for i := range report.Weeks {
			w := &report.Weeks[i]
			last := i == len(report.Weeks)-1
			if t.CreatedAt.Before(w.Start) || t.CreatedAt.After(w.End) || (!last && t.CreatedAt.Equal(w.End)) {
				continue
			}
			w.Created++
			if done {
				w.Completed++
			}
			break
		}
	}

	report.Remaining = report.Total - report.Completed
	report.Progress = completionRate(report.Completed, report.Total)
	for i := range report.Weeks {
		report.Weeks[i].Progress = completionRate(report.Weeks[i].Completed, report.Weeks[i].Created)
	}
	return report, nil
}

// completionRate returns done/total as a rounded percentage, 0 for an empty collection
func completionRate(done, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(done) / float64(total) * 100))
}

// priorityBreakdown counts tasks per priority, highest first
func priorityBreakdown(tasks []domain.Task) []PriorityCount {
	counts := make(map[domain.Priority]int, len(domain.Priorities))
	for _, t := range tasks {
		counts[t.Priority]++
	}

	breakdown := make([]PriorityCount, 0, len(domain.Priorities))
	for i := len(domain.Priorities) - 1; i >= 0; i-- {
		p := domain.Priorities[i]
		breakdown = append(breakdown, PriorityCount{
			Priority: p,
			Count:    counts[p],
			Percent:  completionRate(counts[p], len(tasks)),
		})
	}
	return breakdown
}

// busiestWeekday picks the weekday with the highest count; ties go to the earlier weekday
func busiestWeekday(counts map[time.Weekday]int) (time.Weekday, int) {
	days := make([]time.Weekday, 0, len(counts))
	for d := range counts {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool {
		if counts[days[i]] != counts[days[j]] {
			return counts[days[i]] > counts[days[j]]
		}
		return days[i] < days[j]
	})
	return days[0], counts[days[0]]
}
