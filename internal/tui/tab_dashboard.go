package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/kharcha/internal/cli"
	"github.com/theirongolddev/kharcha/internal/pipeline"
	"github.com/theirongolddev/kharcha/internal/tui/components"
	"github.com/theirongolddev/kharcha/internal/tui/theme"
)

func (a App) renderDashboardTab(cw int) string {
	t := theme.Active
	snap := a.snap
	month := snap.Month

	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Background).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	var b strings.Builder

	greeting := pipeline.Greeting(a.now)
	if name := a.state.Profile.Name; name != "" {
		greeting += ", " + name
	}
	b.WriteString(titleStyle.Render(" " + greeting + " 👋"))
	b.WriteString("\n")

	// Row 1: metric cards
	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Today", Value: cli.FormatMoney(snap.Today)},
		{Label: "This Week", Value: cli.FormatMoney(snap.Week)},
		{Label: "This Month", Value: cli.FormatMoney(month.Total), Note: "of " + cli.FormatMoney(month.Budget)},
		{
			Label: "Budget Left",
			Value: cli.FormatMoney(month.Remaining),
			Note:  cli.StatusLabel(month.Status),
			Color: components.ColorForStatus(month.Status),
		},
	}, cw))
	b.WriteString("\n")

	// Row 2: budget bar + salary cycle
	halves := components.LayoutRow(cw, 2)

	var budget strings.Builder
	barW := max(10, components.CardInnerWidth(halves[0])-16)
	budget.WriteString(components.BudgetBar("Monthly", month.PercentUsed, month.Status, 8, barW))
	budget.WriteString("\n")
	if msg := cli.FeedbackMessage(month.Feedback); msg != "" {
		budget.WriteString(mutedStyle.Render(msg))
	} else {
		budget.WriteString(mutedStyle.Render(fmt.Sprintf("Daily limit %s", cli.FormatMoney(pipeline.DailyLimit(a.state.Budget)))))
	}
	budget.WriteString("\n")
	budget.WriteString(mutedStyle.Render("Streak: ") + valueStyle.Render(fmt.Sprintf("🔥 %d days", snap.Streak)))

	sal := snap.Salary
	var salary strings.Builder
	salary.WriteString(mutedStyle.Render("Next payday  ") + valueStyle.Render(cli.FormatDate(sal.NextPayday)))
	salary.WriteString("\n")
	salary.WriteString(mutedStyle.Render("Days left    ") + valueStyle.Render(fmt.Sprintf("%d", sal.DaysUntilSalary)))
	salary.WriteString("\n")
	salary.WriteString(mutedStyle.Render("Safe / day   ") +
		lipgloss.NewStyle().Foreground(t.GreenBright).Background(t.Surface).Bold(true).Render(cli.FormatMoney(sal.SafeDailySpend)))

	b.WriteString(components.CardRow([]string{
		components.ContentCard("Budget", budget.String(), halves[0]),
		components.ContentCard("Salary Cycle", salary.String(), halves[1]),
	}))
	b.WriteString("\n")

	// Row 3: 7-day trend + recent expenses
	days := pipeline.DailyTotals(a.state.Expenses, a.now, 7)
	vals := make([]float64, len(days))
	labels := make([]string, len(days))
	for i, d := range days {
		vals[i] = d.Total.InexactFloat64()
		labels[i] = d.Date.Format("Mon")
	}
	trend := components.BarChart(vals, labels, t.Blue, components.CardInnerWidth(halves[0]), 6)

	var recent strings.Builder
	items := pipeline.RecentByDate(a.state.Expenses, 5)
	if len(items) == 0 {
		recent.WriteString(mutedStyle.Render("No expenses yet. Press [a] to add one."))
	}
	for i, e := range items {
		if i > 0 {
			recent.WriteString("\n")
		}
		note := e.Notes
		if note == "" {
			note = string(e.Category)
		}
		recent.WriteString(valueStyle.Render(fmt.Sprintf("%s %-18s", e.Category.Emoji(), truncStr(note, 18))))
		recent.WriteString(mutedStyle.Render(fmt.Sprintf(" %s  ", e.Date.Format("02 Jan"))))
		recent.WriteString(valueStyle.Render(cli.FormatAmount(e.Amount)))
	}

	b.WriteString(components.CardRow([]string{
		components.ContentCard("Last 7 Days", trend, halves[0]),
		components.ContentCard("Recent", recent.String(), halves[1]),
	}))

	// Urgent reminders
	var urgent []string
	for _, rs := range pipeline.ReminderStatuses(a.state.Reminders, a.now) {
		if rs.Urgent {
			urgent = append(urgent, fmt.Sprintf("⏰ %s %s (%s)",
				rs.Reminder.Title, cli.FormatMoney(rs.Reminder.Amount), cli.FormatDaysLeft(rs.DaysLeft)))
		}
	}
	if len(urgent) > 0 {
		warn := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Bills Due", warn.Render(strings.Join(urgent, "\n")), cw))
	}

	return b.String()
}
