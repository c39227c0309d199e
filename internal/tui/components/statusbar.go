package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/kharcha/internal/tui/theme"
)

// RenderStatusBar renders the bottom status bar with key hints on the left
// and an info string on the right. A non-empty flash replaces the hints.
func RenderStatusBar(width int, hints, info, flash string, flashErr bool) string {
	t := theme.Active

	hintStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	infoStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	left := hintStyle.Render(" " + hints)
	if flash != "" {
		color := t.GreenBright
		if flashErr {
			color = t.Red
		}
		left = lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true).Render(" " + flash)
	}
	right := ""
	if info != "" {
		right = infoStyle.Render(info + " ")
	}

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 0 {
		padding = 0
	}
	fill := lipgloss.NewStyle().Background(t.Surface).Render(strings.Repeat(" ", padding))

	return lipgloss.NewStyle().Background(t.Surface).Width(width).MaxWidth(width).Render(left + fill + right)
}
