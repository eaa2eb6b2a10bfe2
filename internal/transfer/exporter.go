package transfer

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"task-tracker/internal/domain"
	"task-tracker/internal/errors"
	"task-tracker/internal/repository/jsonfile"
)

// csvHeader is the column layout of CSV exports
var csvHeader = []string{"ID", "Description", "Status", "Priority", "Deadline", "Tags", "Created", "Updated"}

// TableHeader is the column layout of table exports
var TableHeader = []string{"ID", "Description", "Status", "Priority", "Deadline"}

const (
	tableColumnWidth = 20
	tableRuleWidth   = 100
)

// Exporter renders task collections
type Exporter struct {
	fs         afero.Fs
	dateFormat string
	now        func() time.Time
}

// NewExporter creates an exporter writing files through fs
func NewExporter(fs afero.Fs) *Exporter {
	return &Exporter{fs: fs, dateFormat: "2006-01-02", now: time.Now}
}

// WithDateFormat sets the layout used for deadlines in Markdown output
func (e *Exporter) WithDateFormat(layout string) *Exporter {
	e.dateFormat = layout
	return e
}

// Export writes tasks to w in format
func (e *Exporter) Export(w io.Writer, tasks []domain.Task, format Format) error {
	switch format {
	case FormatJSON:
		return e.exportJSON(w, tasks)
	case FormatCSV:
		return e.exportCSV(w, tasks)
	case FormatMarkdown:
		return e.exportMarkdown(w, tasks)
	case FormatYAML:
		return e.exportYAML(w, tasks)
	case FormatTable:
		return e.exportTable(w, tasks)
	}
	return errors.NewInvalidInputError("format", format, "unsupported export format")
}

// ExportToFile writes tasks to path, creating parent directories as needed
func (e *Exporter) ExportToFile(path string, tasks []domain.Task, format Format) error {
	if !supports(ExportFormats, format) {
		return errors.NewInvalidInputError("format", format, "unsupported export format")
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := e.fs.MkdirAll(dir, 0755); err != nil {
			return errors.NewStorageError("create export directory", err)
		}
	}

	f, err := e.fs.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return errors.NewStorageError("open export file", err)
	}
	if err := e.Export(f, tasks, format); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.NewStorageError("close export file", err)
	}
	return nil
}

func (e *Exporter) exportJSON(w io.Writer, tasks []domain.Task) error {
	data, err := json.MarshalIndent(jsonfile.NewRecordSlice(tasks), "", "  ")
	if err != nil {
		return errors.NewStorageError("encode json export", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return errors.NewStorageError("write json export", err)
	}
	return nil
}

func (e *Exporter) exportCSV(w io.Writer, tasks []domain.Task) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return errors.NewStorageError("write csv export", err)
	}

	for _, t := range tasks {
		deadline := ""
		if t.Deadline != nil {
			deadline = t.Deadline.UTC().Format("2006-01-02")
		}
		row := []string{
			strconv.FormatInt(t.ID, 10),
			t.Description,
			t.Status.String(),
			t.Priority.String(),
			deadline,
			strings.Join(t.Tags, ";"),
			jsonfile.FormatTime(t.CreatedAt),
			jsonfile.FormatTime(t.UpdatedAt),
		}
		if err := cw.Write(row); err != nil {
			return errors.NewStorageError("write csv export", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.NewStorageError("write csv export", err)
	}
	return nil
}

func (e *Exporter) exportMarkdown(w io.Writer, tasks []domain.Task) error {
	var b strings.Builder
	b.WriteString("# Task Report\n\n")
	fmt.Fprintf(&b, "Generated: %s\n", e.now().Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "Total Tasks: %d\n\n", len(tasks))

	for _, status := range domain.Statuses {
		group := make([]domain.Task, 0)
		for _, t := range tasks {
			if t.Status == status {
				group = append(group, t)
			}
		}

		fmt.Fprintf(&b, "## %s (%d)\n\n", strings.ToUpper(status.String()), len(group))
		if len(group) == 0 {
			b.WriteString("No tasks\n\n")
			continue
		}

		b.WriteString("| ID | Description | Priority | Deadline | Tags |\n")
		b.WriteString("|----|-------------|----------|----------|------|\n")
		for _, t := range group {
			deadline := "-"
			if t.Deadline != nil {
				deadline = t.Deadline.Local().Format(e.dateFormat)
			}
			tags := "-"
			if len(t.Tags) > 0 {
				tags = strings.Join(t.Tags, ", ")
			}
			fmt.Fprintf(&b, "| %d | %s | %s | %s | %s |\n",
				t.ID, escapeCell(t.Description), t.Priority, deadline, escapeCell(tags))
		}
		b.WriteString("\n")
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return errors.NewStorageError("write markdown export", err)
	}
	return nil
}

func (e *Exporter) exportYAML(w io.Writer, tasks []domain.Task) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(jsonfile.NewRecordSlice(tasks)); err != nil {
		return errors.NewStorageError("write yaml export", err)
	}
	if err := enc.Close(); err != nil {
		return errors.NewStorageError("write yaml export", err)
	}
	return nil
}

// TableRow returns the cells of t in TableHeader order
func (e *Exporter) TableRow(t domain.Task) []string {
	deadline := "No deadline"
	if t.Deadline != nil {
		deadline = t.Deadline.Local().Format(e.dateFormat)
	}
	return []string{
		strconv.FormatInt(t.ID, 10),
		t.Description,
		t.Status.String(),
		t.Priority.String(),
		deadline,
	}
}

// exportTable writes a fixed-width text table. Cells wider than a column
// are cut with "...".
func (e *Exporter) exportTable(w io.Writer, tasks []domain.Task) error {
	var b strings.Builder
	b.WriteString("📊 Task Export Table\n")
	b.WriteString(strings.Repeat("═", tableRuleWidth) + "\n")
	b.WriteString(tableLine(TableHeader) + "\n")
	b.WriteString(strings.Repeat("─", tableRuleWidth) + "\n")
	for _, t := range tasks {
		b.WriteString(tableLine(e.TableRow(t)) + "\n")
	}
	b.WriteString(strings.Repeat("═", tableRuleWidth) + "\n")
	fmt.Fprintf(&b, "Total: %d tasks\n", len(tasks))

	if _, err := io.WriteString(w, b.String()); err != nil {
		return errors.NewStorageError("write table export", err)
	}
	return nil
}

func tableLine(cells []string) string {
	padded := make([]string, len(cells))
	for i, cell := range cells {
		cell = fitCell(strings.ReplaceAll(cell, "\n", " "), tableColumnWidth)
		padded[i] = cell + strings.Repeat(" ", tableColumnWidth-lipgloss.Width(cell))
	}
	return strings.TrimRight(strings.Join(padded, " │ "), " ")
}

// fitCell shortens s to at most width display cells
func fitCell(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+3 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
