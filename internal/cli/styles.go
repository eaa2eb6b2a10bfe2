package cli

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"task-tracker/internal/domain"
)

var (
	colorPrimary   = lipgloss.Color("205")
	colorSecondary = lipgloss.Color("241")
	colorSuccess   = lipgloss.Color("42")
	colorError     = lipgloss.Color("160")
	colorWarning   = lipgloss.Color("214")
	colorInfo      = lipgloss.Color("75")
)

// view renders styled output for one writer. Colours are dropped
// automatically when the writer is not a terminal.
type view struct {
	out      io.Writer
	renderer *lipgloss.Renderer
	width    int

	title   lipgloss.Style
	header  lipgloss.Style
	subtle  lipgloss.Style
	success lipgloss.Style
	failure lipgloss.Style
	warning lipgloss.Style
	info    lipgloss.Style
}

func newView(out io.Writer, fallbackWidth int) *view {
	r := lipgloss.NewRenderer(out)
	return &view{
		out:      out,
		renderer: r,
		width:    terminalWidth(out, fallbackWidth),
		title:    r.NewStyle().Foreground(colorPrimary).Bold(true),
		header:   r.NewStyle().Bold(true),
		subtle:   r.NewStyle().Foreground(colorSecondary),
		success:  r.NewStyle().Foreground(colorSuccess),
		failure:  r.NewStyle().Foreground(colorError).Bold(true),
		warning:  r.NewStyle().Foreground(colorWarning),
		info:     r.NewStyle().Foreground(colorInfo),
	}
}

// terminalWidth returns the column count of out when it is a terminal.
func terminalWidth(out io.Writer, fallback int) int {
	f, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return fallback
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return fallback
	}
	return width
}

func (v *view) println(s string) {
	io.WriteString(v.out, s+"\n")
}

func (v *view) rule() string {
	return v.subtle.Render(strings.Repeat("─", min(v.width, 80)))
}

func (v *view) statusStyle(status domain.Status) lipgloss.Style {
	switch status {
	case domain.StatusDone:
		return v.success
	case domain.StatusInProgress:
		return v.info
	default:
		return v.warning
	}
}

func (v *view) priorityStyle(priority domain.Priority) lipgloss.Style {
	switch priority {
	case domain.PriorityHigh:
		return v.failure
	case domain.PriorityLow:
		return v.subtle
	default:
		return v.renderer.NewStyle()
	}
}

// rateStyle colours a completion percentage.
func (v *view) rateStyle(rate int) lipgloss.Style {
	switch {
	case rate >= 70:
		return v.success
	case rate >= 40:
		return v.warning
	default:
		return v.failure
	}
}

func statusIcon(status domain.Status) string {
	switch status {
	case domain.StatusTodo:
		return "📝"
	case domain.StatusInProgress:
		return "⏳"
	case domain.StatusDone:
		return "✅"
	default:
		return "📌"
	}
}

func statusLabel(status domain.Status) string {
	switch status {
	case domain.StatusInProgress:
		return "IN-PROG"
	default:
		return strings.ToUpper(status.String())
	}
}

// table renders rows as fixed-width columns. Cells wider than maxWidth are
// truncated with an ellipsis.
type table struct {
	headers  []string
	rows     [][]string
	maxWidth int
}

func (t *table) columnWidths() []int {
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(cell))
			}
		}
	}
	if t.maxWidth > 0 {
		for i := range widths {
			widths[i] = min(widths[i], t.maxWidth)
		}
	}
	return widths
}

func (t *table) render(v *view) string {
	if len(t.headers) == 0 {
		return ""
	}
	widths := t.columnWidths()
	var sb strings.Builder

	cells := make([]string, len(t.headers))
	for i, h := range t.headers {
		cells[i] = v.header.Render(padRight(h, widths[i]))
	}
	sb.WriteString(" " + strings.Join(cells, "  ") + "\n")

	seps := make([]string, len(widths))
	for i, w := range widths {
		seps[i] = v.subtle.Render(strings.Repeat("─", w))
	}
	sb.WriteString(" " + strings.Join(seps, "──") + "\n")

	for _, row := range t.rows {
		for i := range t.headers {
			val := ""
			if i < len(row) {
				val = truncate(row[i], widths[i])
			}
			cells[i] = padRight(val, widths[i])
		}
		sb.WriteString(" " + strings.Join(cells, "  ") + "\n")
	}
	return sb.String()
}

// truncate shortens s to at most width display cells.
func truncate(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}

func padRight(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
