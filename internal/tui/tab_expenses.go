package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/kharcha/internal/cli"
	"github.com/theirongolddev/kharcha/internal/model"
	"github.com/theirongolddev/kharcha/internal/pipeline"
	"github.com/theirongolddev/kharcha/internal/tui/components"
	"github.com/theirongolddev/kharcha/internal/tui/theme"
)

// expensePeriods are the periods cycled with [p].
var expensePeriods = []pipeline.Period{
	pipeline.Today(),
	pipeline.ThisWeek(),
	pipeline.ThisMonth(),
	pipeline.AllTime(),
}

type expensesState struct {
	periodIdx     int
	categoryIdx   int // 0 = all, otherwise model.Categories[categoryIdx-1]
	table         table.Model
	rows          []model.Expense
	confirmDelete bool
}

func newExpensesState(defaultPeriod string) expensesState {
	idx := 2
	if want, err := pipeline.ParsePeriod(defaultPeriod, time.Time{}, time.Time{}); err == nil {
		for i, p := range expensePeriods {
			if p.Kind == want.Kind {
				idx = i
			}
		}
	}
	tbl := table.New(
		table.WithColumns(expenseColumns(100)),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	tbl.SetStyles(tableStyles())
	return expensesState{periodIdx: idx, table: tbl}
}

func expenseColumns(width int) []table.Column {
	notesW := max(10, width-12-18-14-10)
	return []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Category", Width: 18},
		{Title: "Amount", Width: 14},
		{Title: "Notes", Width: notesW},
	}
}

func (e expensesState) period() pipeline.Period {
	return expensePeriods[e.periodIdx]
}

func (e expensesState) category() (model.Category, bool) {
	if e.categoryIdx == 0 {
		return "", false
	}
	return model.Categories[e.categoryIdx-1], true
}

// refreshExpenseTable filters the ledger for the selected period and
// category and reloads the table rows, sorted by date.
func (a *App) refreshExpenseTable() {
	sel, err := pipeline.Select(a.state.Expenses, a.expenses.period(), a.now)
	if err != nil {
		sel = nil
	}
	if c, ok := a.expenses.category(); ok {
		sel = pipeline.FilterByCategory(sel, c)
	}
	sel = pipeline.SortByDate(sel)
	a.expenses.rows = sel

	rows := make([]table.Row, len(sel))
	for i, e := range sel {
		rows[i] = table.Row{
			cli.FormatDate(e.Date),
			e.Category.Label(),
			cli.FormatAmount(e.Amount),
			e.Notes,
		}
	}

	cw := components.CardInnerWidth(max(a.contentWidth(), minTerminalWidth))
	a.expenses.table.SetColumns(expenseColumns(cw))
	a.expenses.table.SetWidth(cw)
	a.expenses.table.SetHeight(max(5, a.height-10))
	a.expenses.table.SetRows(rows)
	if a.expenses.table.Cursor() >= len(rows) {
		a.expenses.table.SetCursor(max(0, len(rows)-1))
	}
}

func (a App) selectedExpense() (model.Expense, bool) {
	i := a.expenses.table.Cursor()
	if i < 0 || i >= len(a.expenses.rows) {
		return model.Expense{}, false
	}
	return a.expenses.rows[i], true
}

func (a App) updateExpensesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch msg.String() {
	case "p":
		a.expenses.periodIdx = (a.expenses.periodIdx + 1) % len(expensePeriods)
		a.expenses.table.SetCursor(0)
		a.refreshExpenseTable()
		return a, nil, true
	case "f":
		a.expenses.categoryIdx = (a.expenses.categoryIdx + 1) % (len(model.Categories) + 1)
		a.expenses.table.SetCursor(0)
		a.refreshExpenseTable()
		return a, nil, true
	case "x", "delete":
		if _, ok := a.selectedExpense(); ok {
			a.expenses.confirmDelete = true
		}
		return a, nil, true
	case "j", "k", "up", "down", "g", "G", "pgup", "pgdown", "home", "end":
		var cmd tea.Cmd
		a.expenses.table, cmd = a.expenses.table.Update(msg)
		return a, cmd, true
	}
	return a, nil, false
}

func (a App) updateConfirmDelete(key string) (tea.Model, tea.Cmd) {
	a.expenses.confirmDelete = false
	if key != "y" && key != "Y" {
		return a, nil
	}
	e, ok := a.selectedExpense()
	if !ok {
		return a, nil
	}
	tr := a.tr
	flash := fmt.Sprintf("Deleted %s %s", e.Category.Label(), cli.FormatAmount(e.Amount))
	return a, mutateCmd(tr, flash, func(ctx context.Context) error {
		_, err := tr.RemoveExpense(ctx, e.ID)
		return err
	})
}

func (a App) renderExpensesTab(cw int) string {
	t := theme.Active
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	accentStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)

	filter := "all categories"
	if c, ok := a.expenses.category(); ok {
		filter = c.Label()
	}

	var b strings.Builder
	b.WriteString(mutedStyle.Render("Period ") + accentStyle.Render(a.expenses.period().String()))
	b.WriteString(mutedStyle.Render("  │  Filter ") + accentStyle.Render(filter))
	b.WriteString(mutedStyle.Render(fmt.Sprintf("  │  %d items, total ", len(a.expenses.rows))))
	b.WriteString(accentStyle.Render(cli.FormatAmount(pipeline.TotalSpent(a.expenses.rows))))
	b.WriteString("\n\n")

	if len(a.expenses.rows) == 0 {
		b.WriteString(mutedStyle.Render("No expenses in this period."))
	} else {
		b.WriteString(a.expenses.table.View())
	}

	return components.ContentCard("Expenses", b.String(), cw)
}
