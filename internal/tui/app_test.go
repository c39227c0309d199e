package tui

import (
	"context"
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/kharcha/internal/clock"
	"github.com/theirongolddev/kharcha/internal/config"
	"github.com/theirongolddev/kharcha/internal/ledger"
	"github.com/theirongolddev/kharcha/internal/model"
	"github.com/theirongolddev/kharcha/internal/tracker"
	"github.com/theirongolddev/kharcha/internal/tui/components"
)

func init() {
	lipgloss.SetColorProfile(termenv.TrueColor)
}

var now = time.Date(2024, time.March, 20, 18, 30, 0, 0, time.UTC)

type memStore struct {
	state model.State
}

func (m *memStore) Load(context.Context) (model.State, error) { return m.state, nil }

func (m *memStore) Save(_ context.Context, st model.State) error {
	m.state = st
	return nil
}

func newTestApp(t *testing.T) (App, *tracker.Tracker, *memStore) {
	t.Helper()
	ms := &memStore{state: model.NewState()}
	n := 0
	tr, err := tracker.Open(context.Background(), ms, clock.Fixed(now),
		tracker.WithLedgerOptions(ledger.WithIDFunc(func() string {
			n++
			return fmt.Sprintf("exp-%03d", n)
		})))
	require.NoError(t, err)

	ctx := context.Background()
	for i, in := range []model.ExpenseInput{
		{Amount: decimal.NewFromInt(450), Category: model.Food, Notes: "lunch", Date: now.AddDate(0, 0, -2)},
		{Amount: decimal.NewFromInt(1200), Category: model.Transport, Notes: "cab", Date: now.AddDate(0, 0, -1)},
		{Amount: decimal.NewFromInt(300), Category: model.Food, Notes: "chai", Date: now},
	} {
		_, _, err := tr.AddExpense(ctx, in)
		require.NoError(t, err, "expense %d", i)
	}
	require.NoError(t, tr.AddReminder(ctx, model.Reminder{
		Title: "Rent", Amount: decimal.NewFromInt(15000), DueDate: now.AddDate(0, 0, 2),
	}))

	a := NewApp(tr, config.DefaultConfig())
	a.saveConfig = func(config.Config) error { return nil }

	a = send(t, a, tea.WindowSizeMsg{Width: 120, Height: 40})
	a = send(t, a, StateLoadedMsg{State: tr.State()})
	require.True(t, a.loaded)
	return a, tr, ms
}

func send(t *testing.T, a App, msg tea.Msg) App {
	t.Helper()
	next, _ := a.Update(msg)
	out, ok := next.(App)
	require.True(t, ok)
	return out
}

// sendRun delivers msg, runs the returned command and feeds its result
// back, as the Bubble Tea runtime would for a single mutation.
func sendRun(t *testing.T, a App, msg tea.Msg) App {
	t.Helper()
	next, cmd := a.Update(msg)
	a = next.(App)
	require.NotNil(t, cmd)
	return send(t, a, cmd())
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var enter = tea.KeyMsg{Type: tea.KeyEnter}

func TestTabSwitchingByKey(t *testing.T) {
	a, _, _ := newTestApp(t)
	assert.Equal(t, components.TabDashboard, a.activeTab)

	for key, want := range map[string]int{
		"e": components.TabExpenses,
		"c": components.TabCategories,
		"i": components.TabInsights,
		"r": components.TabReminders,
		"s": components.TabSettings,
		"d": components.TabDashboard,
	} {
		a = send(t, a, runes(key))
		assert.Equal(t, want, a.activeTab, "key %s", key)
	}

	a = send(t, a, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, components.TabExpenses, a.activeTab)
	a = send(t, a, tea.KeyMsg{Type: tea.KeyLeft})
	a = send(t, a, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, components.TabSettings, a.activeTab)
}

func TestDashboardView(t *testing.T) {
	a, _, _ := newTestApp(t)
	view := a.View()
	assert.Contains(t, view, "This Month")
	assert.Contains(t, view, "Salary Cycle")
	assert.Contains(t, view, "Rent")
}

func TestNarrowTerminal(t *testing.T) {
	a, _, _ := newTestApp(t)
	a = send(t, a, tea.WindowSizeMsg{Width: 60, Height: 20})
	assert.Contains(t, a.View(), "too narrow")
}

func TestExpensesTableAndPeriodCycle(t *testing.T) {
	a, _, _ := newTestApp(t)
	a = send(t, a, runes("e"))

	assert.Equal(t, "This Month", a.expenses.period().String())
	assert.Len(t, a.expenses.rows, 3)
	assert.Equal(t, "exp-003", a.expenses.rows[0].ID)

	a = send(t, a, runes("p")) // all time
	assert.Equal(t, "All Time", a.expenses.period().String())
	a = send(t, a, runes("p")) // today
	assert.Len(t, a.expenses.rows, 1)

	a = send(t, a, runes("p")) // week
	a = send(t, a, runes("p")) // month
	a = send(t, a, runes("f"))
	c, ok := a.expenses.category()
	require.True(t, ok)
	assert.Equal(t, model.Food, c)
	assert.Len(t, a.expenses.rows, 2)
	assert.Contains(t, a.View(), "lunch")
}

func TestDeleteExpenseConfirmFlow(t *testing.T) {
	a, tr, ms := newTestApp(t)
	a = send(t, a, runes("e"))

	a = send(t, a, runes("x"))
	require.True(t, a.expenses.confirmDelete)
	assert.Contains(t, a.View(), "Delete selected expense?")

	// Anything but y cancels.
	a = send(t, a, runes("n"))
	assert.False(t, a.expenses.confirmDelete)
	assert.Len(t, tr.Expenses(), 3)

	a = send(t, a, runes("x"))
	a = sendRun(t, a, runes("y"))
	assert.Len(t, tr.Expenses(), 2)
	assert.Len(t, ms.state.Expenses, 2)
	assert.Contains(t, a.flash, "Deleted")
	assert.False(t, a.flashErr)
	assert.Len(t, a.expenses.rows, 2)
}

func TestCategoryBudgetEdit(t *testing.T) {
	a, tr, _ := newTestApp(t)
	a = send(t, a, runes("c"))
	a = send(t, a, enter)
	require.Equal(t, editCategoryBudget, a.edit.target)

	a.edit.input.SetValue("5000")
	a = sendRun(t, a, enter)
	assert.False(t, a.edit.active())
	assert.True(t, tr.Budget().CategoryBudget(model.Food).Equal(decimal.NewFromInt(5000)))
	assert.Contains(t, a.View(), "Category Budgets")
}

func TestCategoryBudgetRejectsGarbage(t *testing.T) {
	a, tr, _ := newTestApp(t)
	a = send(t, a, runes("c"))
	a = send(t, a, enter)
	a.edit.input.SetValue("lots")
	a = send(t, a, enter)
	assert.True(t, a.flashErr)
	assert.True(t, tr.Budget().CategoryBudget(model.Food).IsZero())
}

func TestWhatIfProjection(t *testing.T) {
	a, _, _ := newTestApp(t)
	a = send(t, a, runes("i"))
	a = send(t, a, runes("w"))
	require.Equal(t, editWhatIf, a.edit.target)

	a.edit.input.SetValue("100")
	a = send(t, a, enter)
	require.True(t, a.whatIf.ok)
	assert.True(t, a.whatIf.proj.Weekly.Equal(decimal.NewFromInt(700)))
	assert.True(t, a.whatIf.proj.Yearly.Equal(decimal.NewFromInt(36500)))
	assert.Contains(t, a.View(), "Saving")
}

func TestChartMonthPersists(t *testing.T) {
	a, tr, _ := newTestApp(t)
	a = send(t, a, runes("i"))
	a = sendRun(t, a, runes("["))
	assert.Equal(t, 11, tr.State().Preferences.SelectedChartMonth)
	a = sendRun(t, a, runes("]"))
	assert.Equal(t, 0, a.state.Preferences.SelectedChartMonth)
}

func TestRemoveReminder(t *testing.T) {
	a, tr, _ := newTestApp(t)
	a = send(t, a, runes("r"))
	assert.Contains(t, a.View(), "2 days left")

	a = sendRun(t, a, runes("x"))
	assert.Empty(t, tr.Reminders())
	assert.Contains(t, a.flash, "Rent")
}

func TestSettingsToggleDarkMode(t *testing.T) {
	a, tr, _ := newTestApp(t)
	a = send(t, a, runes("s"))
	for i := 0; i < settingsFieldDarkMode; i++ {
		a = send(t, a, runes("j"))
	}
	require.Equal(t, settingsFieldDarkMode, a.settings.cursor)

	a = sendRun(t, a, enter)
	assert.True(t, tr.State().Preferences.DarkMode)
	assert.Contains(t, a.flash, "Dark mode on")
}

func TestSettingsSalaryDay(t *testing.T) {
	a, tr, _ := newTestApp(t)
	a = send(t, a, runes("s"))
	a = send(t, a, runes("j"))
	a = send(t, a, enter)
	require.Equal(t, editSetting, a.edit.target)

	a.edit.input.SetValue("25")
	a = sendRun(t, a, enter)
	assert.Equal(t, 25, tr.Budget().SalaryDay)

	a = send(t, a, enter)
	a.edit.input.SetValue("40")
	a = send(t, a, enter)
	assert.True(t, a.flashErr)
	assert.Equal(t, 25, tr.Budget().SalaryDay)
}

func TestAddExpenseFormOpensAndCancels(t *testing.T) {
	a, _, _ := newTestApp(t)
	next, _ := a.Update(runes("a"))
	a = next.(App)
	require.NotNil(t, a.form)
	assert.Equal(t, formExpense, a.formKind)
	assert.Equal(t, model.Food, a.expVals.Category)
	assert.Equal(t, "2024-03-20", a.expVals.Date)

	a = send(t, a, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, a.form)
}

func TestAddExpenseCmdReportsFeedback(t *testing.T) {
	a, tr, _ := newTestApp(t)
	msg := addExpenseCmd(tr, model.ExpenseInput{
		Amount: decimal.NewFromInt(99), Category: model.Health, Date: now,
	})()
	a = send(t, a, msg)
	assert.Len(t, tr.Expenses(), 4)
	assert.Contains(t, a.flash, "Added")
	assert.Equal(t, model.Health, a.state.Preferences.SelectedCategory)
}

func TestMutationErrorFlashes(t *testing.T) {
	a, tr, _ := newTestApp(t)
	msg := addExpenseCmd(tr, model.ExpenseInput{
		Amount: decimal.NewFromInt(99), Category: model.Health, Date: now.AddDate(0, 0, 1),
	})()
	a = send(t, a, msg)
	assert.True(t, a.flashErr)
	assert.Len(t, tr.Expenses(), 3)
}

func TestFormValidators(t *testing.T) {
	assert.NoError(t, validateAmount("12.50"))
	assert.Error(t, validateAmount("0"))
	assert.Error(t, validateAmount("abc"))
	assert.NoError(t, validateDate("2024-02-29"))
	assert.Error(t, validateDate("29/02/2024"))
}
