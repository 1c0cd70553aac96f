package commands

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	// Color styles for terminal output
	colorDanger  = lipgloss.Color("#EF4444")
	colorSuccess = lipgloss.Color("#10B981")
	colorWarning = lipgloss.Color("#F59E0B")
	colorMuted   = lipgloss.Color("#6B7280")
	colorPrimary = lipgloss.Color("#2563EB")

	primaryStyle = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	debitStyle   = lipgloss.NewStyle().Foreground(colorDanger)
	creditStyle  = lipgloss.NewStyle().Foreground(colorSuccess)
	pendingStyle = lipgloss.NewStyle().Foreground(colorWarning)
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
)

// newTable returns a bordered table with the shared header and cell styles.
func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

// section prints a heading line
func section(w io.Writer, title string) {
	_, _ = fmt.Fprintln(w, primaryStyle.Render(title))
}

// muted prints a muted message
func muted(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf(format, args...)))
}

func amount(s string, negative bool) string {
	if negative {
		return debitStyle.Render(s)
	}
	return creditStyle.Render(s)
}
