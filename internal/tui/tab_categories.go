package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/kharcha/internal/cli"
	"github.com/theirongolddev/kharcha/internal/model"
	"github.com/theirongolddev/kharcha/internal/pipeline"
	"github.com/theirongolddev/kharcha/internal/tui/components"
	"github.com/theirongolddev/kharcha/internal/tui/theme"
)

func (a App) monthExpenses() []model.Expense {
	sel, _ := pipeline.Select(a.state.Expenses, pipeline.ThisMonth(), a.now)
	return sel
}

func (a App) updateCategoriesKey(key string) (tea.Model, tea.Cmd, bool) {
	switch key {
	case "j", "down":
		a.moveCursor(1)
		return a, nil, true
	case "k", "up":
		a.moveCursor(-1)
		return a, nil, true
	case "enter":
		c := model.Categories[a.catCursor]
		current := ""
		if b := a.state.Budget.CategoryBudget(c); b.IsPositive() {
			current = b.String()
		}
		next, cmd := a.startEdit(editCategoryBudget, "0 clears the budget", current)
		return next, cmd, true
	}
	return a, nil, false
}

func (a App) commitCategoryBudget(val string) (tea.Model, tea.Cmd) {
	c := model.Categories[a.catCursor]
	if val == "" {
		val = "0"
	}
	amount, err := decimal.NewFromString(val)
	if err != nil || amount.IsNegative() {
		a.setFlash(fmt.Sprintf("Invalid amount %q", val), true)
		return a, nil
	}
	flash := fmt.Sprintf("%s budget set to %s", c, cli.FormatMoney(amount))
	if amount.IsZero() {
		flash = fmt.Sprintf("%s budget cleared", c)
	}
	tr := a.tr
	return a, mutateCmd(tr, flash, func(ctx context.Context) error {
		return tr.SetCategoryBudget(ctx, c, amount)
	})
}

func (a App) renderCategoriesTab(cw int) string {
	t := theme.Active
	month := a.monthExpenses()
	halves := components.LayoutRow(cw, 2)

	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceHover).Bold(true)

	// Breakdown
	var share strings.Builder
	shares := pipeline.CategoryBreakdown(month)
	if len(shares) == 0 {
		share.WriteString(mutedStyle.Render("Nothing spent this month."))
	}
	maxTotal := decimal.Zero
	for _, s := range shares {
		maxTotal = decimal.Max(maxTotal, s.Total)
	}
	barW := max(5, components.CardInnerWidth(halves[0])-42)
	for i, s := range shares {
		if i > 0 {
			share.WriteString("\n")
		}
		filled := 0
		if maxTotal.IsPositive() {
			filled = int(s.Total.Div(maxTotal).Mul(decimal.NewFromInt(int64(barW))).IntPart())
		}
		bar := lipgloss.NewStyle().Foreground(t.Blue).Background(t.Surface).Render(strings.Repeat("█", filled)) +
			mutedStyle.Render(strings.Repeat("░", barW-filled))
		share.WriteString(valueStyle.Render(fmt.Sprintf("%-16s", s.Category.Label())))
		share.WriteString(bar)
		share.WriteString(valueStyle.Render(fmt.Sprintf(" %12s", cli.FormatAmount(s.Total))))
		share.WriteString(mutedStyle.Render(fmt.Sprintf(" %6s", cli.FormatPercent(s.Percent))))
	}

	// Budgets
	var budgets strings.Builder
	rowBar := max(6, components.CardInnerWidth(halves[1])-48)
	for i, cb := range pipeline.CategoryBudgets(month, a.state.Budget) {
		if i > 0 {
			budgets.WriteString("\n")
		}
		label := fmt.Sprintf("%-16s", cb.Category.Label())
		if i == a.catCursor {
			label = selStyle.Render("▸ " + label)
		} else {
			label = valueStyle.Render("  " + label)
		}
		budgets.WriteString(label)
		if !cb.HasBudget {
			budgets.WriteString(mutedStyle.Render(fmt.Sprintf("%s spent, no budget", cli.FormatAmount(cb.Spent))))
			continue
		}
		budgets.WriteString(components.BudgetBar("", cb.PercentUsed, cb.Status, 0, rowBar))
		left := lipgloss.NewStyle().Foreground(components.ColorForStatus(cb.Status)).Background(t.Surface)
		budgets.WriteString(left.Render(fmt.Sprintf("  %s left", cli.FormatAmount(cb.Left))))
	}
	if line := a.editorLine(editCategoryBudget, model.Categories[a.catCursor].Label()+" budget:"); line != "" {
		budgets.WriteString("\n\n" + line)
	}

	return components.CardRow([]string{
		components.ContentCard("This Month by Category", share.String(), halves[0]),
		components.ContentCard("Category Budgets", budgets.String(), halves[1]),
	})
}
