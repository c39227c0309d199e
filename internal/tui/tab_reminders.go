package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/kharcha/internal/cli"
	"github.com/theirongolddev/kharcha/internal/pipeline"
	"github.com/theirongolddev/kharcha/internal/tui/components"
	"github.com/theirongolddev/kharcha/internal/tui/theme"
)

func (a App) updateRemindersKey(key string) (tea.Model, tea.Cmd, bool) {
	switch key {
	case "j", "down":
		a.moveCursor(1)
		return a, nil, true
	case "k", "up":
		a.moveCursor(-1)
		return a, nil, true
	case "n":
		next, cmd := a.openReminderForm()
		return next, cmd, true
	case "x", "delete":
		if a.remCursor >= len(a.state.Reminders) {
			return a, nil, true
		}
		idx := a.remCursor
		title := a.state.Reminders[idx].Title
		tr := a.tr
		return a, mutateCmd(tr, "Removed reminder "+title, func(ctx context.Context) error {
			_, err := tr.RemoveReminder(ctx, idx)
			return err
		}), true
	}
	return a, nil, false
}

func (a App) renderRemindersTab(cw int) string {
	t := theme.Active

	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceHover).Bold(true)
	urgentStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface).Bold(true)
	overdueStyle := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface).Bold(true)

	statuses := pipeline.ReminderStatuses(a.state.Reminders, a.now)

	var b strings.Builder
	if len(statuses) == 0 {
		b.WriteString(mutedStyle.Render("No bill reminders. Press [n] to add one."))
		return components.ContentCard("Bill Reminders", b.String(), cw)
	}

	titleW := max(12, components.CardInnerWidth(cw)-50)
	b.WriteString(mutedStyle.Render(fmt.Sprintf("  %-*s %14s  %-12s  %s", titleW, "Bill", "Amount", "Due", "Countdown")))
	b.WriteString("\n")
	for i, rs := range statuses {
		line := fmt.Sprintf("%-*s %14s  %-12s  ",
			titleW, truncStr(rs.Reminder.Title, titleW),
			cli.FormatAmount(rs.Reminder.Amount),
			cli.FormatDate(rs.Reminder.DueDate))
		if i == a.remCursor {
			b.WriteString(selStyle.Render("▸ " + line))
		} else {
			b.WriteString(valueStyle.Render("  " + line))
		}

		left := cli.FormatDaysLeft(rs.DaysLeft)
		switch {
		case rs.DaysLeft < 0:
			b.WriteString(overdueStyle.Render("⚠ " + left))
		case rs.Urgent:
			b.WriteString(urgentStyle.Render("⏰ " + left))
		default:
			b.WriteString(mutedStyle.Render(left))
		}
		b.WriteString("\n")
	}

	total := 0
	for _, rs := range statuses {
		if rs.Urgent && rs.DaysLeft >= 0 {
			total++
		}
	}
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("%d due within 3 days", total)))

	return components.ContentCard("Bill Reminders", b.String(), cw)
}
