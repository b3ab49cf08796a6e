package rank

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/felixgeelhaar/taskrank/internal/ranking/domain"
)

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
)

const maxTitleWidth = 40

var (
	plainStyle   = lipgloss.NewStyle()
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33"))
	scoreStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
)

type column struct {
	title string
	cell  func(rank int, r domain.ScoredResult) string
	style lipgloss.Style
}

var columns = []column{
	{title: "#", cell: func(rank int, _ domain.ScoredResult) string { return strconv.Itoa(rank) }, style: plainStyle},
	{title: "ID", cell: func(_ int, r domain.ScoredResult) string { return r.Task.Key() }, style: plainStyle},
	{title: "TITLE", cell: func(_ int, r domain.ScoredResult) string { return truncate(r.Task.Title, maxTitleWidth) }, style: plainStyle},
	{title: "DUE", cell: func(_ int, r domain.ScoredResult) string { return dueLabel(r.Task.DueDate) }, style: plainStyle},
	{title: "SCORE", cell: func(_ int, r domain.ScoredResult) string { return fmt.Sprintf("%.2f", r.Score) }, style: scoreStyle},
	{title: "WHY", cell: func(_ int, r domain.ScoredResult) string { return r.Explanation }, style: mutedStyle},
}

// renderTable writes results as an aligned table.
func renderTable(w io.Writer, strategy domain.Strategy, results []domain.ScoredResult, hasCycle bool) error {
	var b strings.Builder

	b.WriteString(headerStyle.Render("Strategy: "+string(strategy)) + "\n")
	if hasCycle {
		b.WriteString(warningStyle.Render("Warning: dependency cycle detected") + "\n")
	}
	if len(results) == 0 {
		b.WriteString(mutedStyle.Render("No tasks to rank.") + "\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	widths := make([]int, len(columns))
	cells := make([][]string, len(results))
	for i, col := range columns {
		widths[i] = lipgloss.Width(col.title)
	}
	for row, r := range results {
		cells[row] = make([]string, len(columns))
		for i, col := range columns {
			cells[row][i] = col.cell(row+1, r)
			widths[i] = max(widths[i], lipgloss.Width(cells[row][i]))
		}
	}

	header := make([]string, len(columns))
	for i, col := range columns {
		header[i] = headerStyle.Width(widths[i]).Render(col.title)
	}
	b.WriteString(strings.Join(header, "  ") + "\n")

	for _, row := range cells {
		line := make([]string, len(columns))
		for i, col := range columns {
			line[i] = col.style.Width(widths[i]).Render(row[i])
		}
		b.WriteString(strings.TrimRight(strings.Join(line, "  "), " ") + "\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// renderJSON writes v as indented JSON.
func renderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func dueLabel(due string) string {
	if due == "" {
		return "-"
	}
	return due
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
