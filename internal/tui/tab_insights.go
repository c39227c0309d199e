package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/kharcha/internal/cli"
	"github.com/theirongolddev/kharcha/internal/model"
	"github.com/theirongolddev/kharcha/internal/pipeline"
	"github.com/theirongolddev/kharcha/internal/tui/components"
	"github.com/theirongolddev/kharcha/internal/tui/theme"
)

type whatIfState struct {
	proj model.SavingsProjection
	ok   bool
}

func (a App) updateInsightsKey(key string) (tea.Model, tea.Cmd, bool) {
	switch key {
	case "[", "]":
		prefs := a.state.Preferences
		step := 1
		if key == "[" {
			step = 11
		}
		prefs.SelectedChartMonth = (prefs.SelectedChartMonth + step) % 12
		a.state.Preferences = prefs
		tr := a.tr
		return a, mutateCmd(tr, "", func(ctx context.Context) error {
			return tr.SetPreferences(ctx, prefs)
		}), true
	case "w":
		current := ""
		if a.whatIf.ok {
			current = a.whatIf.proj.Daily.String()
		}
		next, cmd := a.startEdit(editWhatIf, "daily amount saved", current)
		return next, cmd, true
	}
	return a, nil, false
}

func (a App) commitWhatIf(val string) (tea.Model, tea.Cmd) {
	amount, err := decimal.NewFromString(val)
	if err != nil {
		a.setFlash(fmt.Sprintf("Invalid amount %q", val), true)
		return a, nil
	}
	proj, ok := pipeline.Project(amount)
	if !ok {
		a.setFlash("Enter an amount greater than zero", true)
		return a, nil
	}
	a.whatIf = whatIfState{proj: proj, ok: true}
	return a, nil
}

func (a App) renderInsightsTab(cw int) string {
	t := theme.Active
	halves := components.LayoutRow(cw, 2)

	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	goodStyle := lipgloss.NewStyle().Foreground(t.GreenBright).Background(t.Surface).Bold(true)

	// Insight list
	var list strings.Builder
	for i, in := range a.snap.Insights {
		if i > 0 {
			list.WriteString("\n")
		}
		style := valueStyle
		switch in.Kind {
		case model.InsightSuccess:
			style = lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface)
		case model.InsightWarning:
			style = lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
		}
		list.WriteString(style.Render(truncStr(cli.InsightText(in), components.CardInnerWidth(halves[0]))))
	}
	if len(a.snap.Insights) == 0 {
		list.WriteString(mutedStyle.Render("Add a few expenses to see insights."))
	}

	// Detailed month stats
	d := pipeline.DetailedInsights(a.state.Expenses, a.now)
	var detail strings.Builder
	detail.WriteString(mutedStyle.Render("Month total    ") + valueStyle.Render(cli.FormatMoney(d.MonthTotal)))
	detail.WriteString("\n")
	detail.WriteString(mutedStyle.Render("Average / day  ") + valueStyle.Render(cli.FormatMoney(d.AverageDaily)))
	detail.WriteString("\n")
	detail.WriteString(mutedStyle.Render("Top category   "))
	if d.HasTopCategory {
		detail.WriteString(valueStyle.Render(fmt.Sprintf("%s %s (%s)",
			d.TopCategory.Label(), cli.FormatMoney(d.TopCategoryTotal), cli.FormatPercent(d.TopCategoryPercent))))
	} else {
		detail.WriteString(mutedStyle.Render("none"))
	}
	detail.WriteString("\n\n")
	if line := a.editorLine(editWhatIf, "Save per day:"); line != "" {
		detail.WriteString(line)
	} else if a.whatIf.ok {
		p := a.whatIf.proj
		detail.WriteString(mutedStyle.Render(fmt.Sprintf("Saving %s a day gives\n", cli.FormatMoney(p.Daily))))
		detail.WriteString(mutedStyle.Render("  week  ") + goodStyle.Render(cli.FormatMoney(p.Weekly)) + "\n")
		detail.WriteString(mutedStyle.Render("  month ") + goodStyle.Render(cli.FormatMoney(p.Monthly)) + "\n")
		detail.WriteString(mutedStyle.Render("  year  ") + goodStyle.Render(cli.FormatMoney(p.Yearly)))
	} else {
		detail.WriteString(mutedStyle.Render("Press [w] to project a daily saving."))
	}

	// Monthly history for the current year
	months := pipeline.MonthlyTotals(a.state.Expenses, a.now.Year())
	vals := make([]float64, len(months))
	labels := make([]string, len(months))
	for i, m := range months {
		vals[i] = m.Total.InexactFloat64()
		labels[i] = m.Month.String()[:3]
	}
	sel := clamp(a.state.Preferences.SelectedChartMonth, 0, 11)
	chart := components.BarChart(vals, labels, t.Accent, components.CardInnerWidth(cw), 8)
	picked := months[sel]
	caption := mutedStyle.Render(fmt.Sprintf("%s %d: ", time.Month(sel+1), picked.Year)) +
		valueStyle.Render(fmt.Sprintf("%s across %d expenses", cli.FormatMoney(picked.Total), picked.Count))

	var b strings.Builder
	b.WriteString(components.CardRow([]string{
		components.ContentCard("Insights", list.String(), halves[0]),
		components.ContentCard("This Month", detail.String(), halves[1]),
	}))
	b.WriteString("\n")
	b.WriteString(components.ContentCard(fmt.Sprintf("Monthly Spend %d", a.now.Year()), chart+"\n"+caption, cw))
	return b.String()
}
