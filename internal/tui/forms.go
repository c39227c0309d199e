package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/kharcha/internal/cli"
	"github.com/theirongolddev/kharcha/internal/model"
	"github.com/theirongolddev/kharcha/internal/pipeline"
	"github.com/theirongolddev/kharcha/internal/tracker"
	"github.com/theirongolddev/kharcha/internal/tui/theme"
)

type formKind int

const (
	formNone formKind = iota
	formExpense
	formReminder
)

const dateLayout = "2006-01-02"

// Form values live behind pointers so the bindings survive App copies.
type expenseValues struct {
	Amount   string
	Category model.Category
	Notes    string
	Date     string
}

type reminderValues struct {
	Title  string
	Amount string
	Due    string
}

func validateAmount(s string) error {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("not a number")
	}
	if !d.IsPositive() {
		return fmt.Errorf("must be greater than zero")
	}
	return nil
}

func validateDate(s string) error {
	if _, err := time.Parse(dateLayout, strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("use YYYY-MM-DD")
	}
	return nil
}

func categoryOptions() []huh.Option[model.Category] {
	opts := make([]huh.Option[model.Category], len(model.Categories))
	for i, c := range model.Categories {
		opts[i] = huh.NewOption(c.Label(), c)
	}
	return opts
}

func (a App) openExpenseForm() (tea.Model, tea.Cmd) {
	cat := a.state.Preferences.SelectedCategory
	if !cat.Valid() {
		cat = model.Food
	}
	a.expVals = &expenseValues{Category: cat, Date: a.now.Format(dateLayout)}
	v := a.expVals

	fields := []huh.Field{
		huh.NewInput().
			Title("Amount").
			Placeholder("250").
			Value(&v.Amount).
			Validate(validateAmount),
		huh.NewSelect[model.Category]().
			Title("Category").
			Options(categoryOptions()...).
			Value(&v.Category),
		huh.NewInput().
			Title("Notes").
			Placeholder("optional").
			Value(&v.Notes),
		huh.NewInput().
			Title("Date").
			Value(&v.Date).
			Validate(validateDate),
	}
	if recent := pipeline.RecentSuggestions(a.state.Expenses, 3); len(recent) > 0 {
		lines := make([]string, len(recent))
		for i, e := range recent {
			lines[i] = fmt.Sprintf("%s %s %s", e.Category.Emoji(), cli.FormatAmount(e.Amount), e.Notes)
		}
		fields = append(fields, huh.NewNote().Title("Recent").Description(strings.Join(lines, "\n")))
	}

	a.form = a.newForm(huh.NewGroup(fields...).Title("Add Expense"))
	a.formKind = formExpense
	return a, a.form.Init()
}

func (a App) openReminderForm() (tea.Model, tea.Cmd) {
	a.remVals = &reminderValues{Due: a.now.AddDate(0, 0, 7).Format(dateLayout)}
	v := a.remVals

	a.form = a.newForm(huh.NewGroup(
		huh.NewInput().
			Title("Bill").
			Placeholder("Rent").
			Value(&v.Title).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return fmt.Errorf("title is required")
				}
				return nil
			}),
		huh.NewInput().
			Title("Amount").
			Value(&v.Amount).
			Validate(validateAmount),
		huh.NewInput().
			Title("Due date").
			Value(&v.Due).
			Validate(validateDate),
	).Title("New Bill Reminder"))
	a.formKind = formReminder
	return a, a.form.Init()
}

func (a App) newForm(groups ...*huh.Group) *huh.Form {
	return huh.NewForm(groups...).
		WithTheme(huh.ThemeCharm()).
		WithShowHelp(true).
		WithWidth(a.formWidth())
}

func (a App) formWidth() int {
	return max(40, min(a.width-8, 72))
}

func (a App) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.form = f
	}

	switch a.form.State {
	case huh.StateCompleted:
		kind := a.formKind
		a.form, a.formKind = nil, formNone
		switch kind {
		case formExpense:
			return a, a.submitExpense()
		case formReminder:
			return a, a.submitReminder()
		}
		return a, nil
	case huh.StateAborted:
		a.form, a.formKind = nil, formNone
		return a, nil
	}
	return a, cmd
}

func (a App) submitExpense() tea.Cmd {
	v := *a.expVals
	loc := a.now.Location()
	amount, _ := decimal.NewFromString(strings.TrimSpace(v.Amount))
	date, _ := time.ParseInLocation(dateLayout, strings.TrimSpace(v.Date), loc)
	in := model.ExpenseInput{Amount: amount, Category: v.Category, Notes: v.Notes, Date: date}
	return addExpenseCmd(a.tr, in)
}

// addExpenseCmd records the expense and reports the budget feedback.
func addExpenseCmd(tr *tracker.Tracker, in model.ExpenseInput) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		e, status, err := tr.AddExpense(ctx, in)
		if err != nil {
			return MutationMsg{State: tr.State(), Err: err}
		}
		flash := fmt.Sprintf("Added %s %s", e.Category.Label(), cli.FormatAmount(e.Amount))
		if fb := cli.FeedbackMessage(status.Feedback); fb != "" {
			flash += "  " + fb
		}
		return MutationMsg{State: tr.State(), Flash: flash}
	}
}

func (a App) submitReminder() tea.Cmd {
	v := *a.remVals
	amount, _ := decimal.NewFromString(strings.TrimSpace(v.Amount))
	due, _ := time.ParseInLocation(dateLayout, strings.TrimSpace(v.Due), a.now.Location())
	r := model.Reminder{Title: v.Title, Amount: amount, DueDate: due}
	tr := a.tr
	return mutateCmd(tr, "Reminder added: "+strings.TrimSpace(v.Title), func(ctx context.Context) error {
		return tr.AddReminder(ctx, r)
	})
}

func (a App) viewForm() string {
	t := theme.Active
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(1, 2).
		Render(a.form.View())
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}
