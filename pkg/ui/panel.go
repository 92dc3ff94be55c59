package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	red    = lipgloss.Color("#FF5F5F")
	yellow = lipgloss.Color("#FFD75F")
	gray   = lipgloss.Color("#666666")
)

var titleStyle = lipgloss.NewStyle().Bold(true)

func panel(color lipgloss.Color, title string, lines []string) string {
	body := titleStyle.Foreground(color).Render(title)
	if len(lines) > 0 {
		body += "\n" + lipgloss.NewStyle().Foreground(gray).Render(strings.Join(lines, "\n"))
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(0, 1).
		Render(body)
}

// ErrorPanel renders a bordered error box with optional detail lines.
func ErrorPanel(title string, lines ...string) string {
	return panel(red, title, lines)
}

// WarnPanel renders a bordered warning box with optional detail lines.
func WarnPanel(title string, lines ...string) string {
	return panel(yellow, title, lines)
}

// Truncate shortens s to at most width visible cells.
func Truncate(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	var out strings.Builder
	for _, r := range s {
		if lipgloss.Width(out.String()+string(r)) > width-1 {
			break
		}
		out.WriteRune(r)
	}
	return out.String() + "…"
}
