package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/kharcha/internal/model"
	"github.com/theirongolddev/kharcha/internal/tui/theme"
)

// ColorForStatus maps a budget status to green, orange or red.
func ColorForStatus(s model.Status) lipgloss.Color {
	t := theme.Active
	switch s {
	case model.StatusDanger:
		return t.Red
	case model.StatusWarning:
		return t.Orange
	default:
		return t.Green
	}
}

// BudgetBar renders a labeled budget bar. percent is 0..100 and may exceed
// 100; the bar itself is capped at full.
func BudgetBar(label string, percent decimal.Decimal, s model.Status, labelW, barWidth int) string {
	t := theme.Active
	color := ColorForStatus(s)

	frac := percent.InexactFloat64() / 100
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}

	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	return labelStyle.Render(fmt.Sprintf("%-*s", labelW, label)) +
		spaceStyle.Render(" ") +
		bar.ViewAs(frac) +
		spaceStyle.Render(" ") +
		pctStyle.Render(fmt.Sprintf("%4s%%", percent.Round(0).String()))
}
