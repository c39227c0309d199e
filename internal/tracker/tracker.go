// Package tracker is the state container that owns the ledger and budget
// configuration and persists every change.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/theirongolddev/kharcha/internal/clock"
	"github.com/theirongolddev/kharcha/internal/ledger"
	"github.com/theirongolddev/kharcha/internal/logging"
	"github.com/theirongolddev/kharcha/internal/model"
	"github.com/theirongolddev/kharcha/internal/pipeline"
)

// Validation failures for configuration changes.
var (
	ErrInvalidBudget    = errors.New("budget must be greater than zero")
	ErrNegativeBudget   = errors.New("category budget cannot be negative")
	ErrInvalidSalaryDay = errors.New("salary day must be between 1 and 31")
	ErrMissingTitle     = errors.New("reminder title is required")
	ErrAmbiguousID      = errors.New("id prefix matches more than one expense")
)

// Store loads and saves the whole state.
type Store interface {
	Load(ctx context.Context) (model.State, error)
	Save(ctx context.Context, st model.State) error
}

// Tracker serializes access to the user's state.
type Tracker struct {
	mu     sync.RWMutex
	store  Store
	clock  clock.Clock
	log    *zap.Logger
	ledger *ledger.Ledger
	state  model.State // Expenses is kept in ledger, not here
	ledOpt []ledger.Option
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(t *Tracker) { t.log = logging.Component(l, "tracker") }
}

// WithLedgerOptions passes options through to the ledger.
func WithLedgerOptions(opts ...ledger.Option) Option {
	return func(t *Tracker) { t.ledOpt = append(t.ledOpt, opts...) }
}

// Open loads state from store and returns a ready tracker.
func Open(ctx context.Context, store Store, c clock.Clock, opts ...Option) (*Tracker, error) {
	st, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading state: %w", err)
	}
	return New(store, c, st, opts...), nil
}

// New wraps an already loaded state.
func New(store Store, c clock.Clock, st model.State, opts ...Option) *Tracker {
	t := &Tracker{
		store: store,
		clock: c,
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}

	t.install(st)
	return t
}

// install replaces the in-memory state, filling defaults for missing
// budget settings. Callers hold mu or own t exclusively.
func (t *Tracker) install(st model.State) {
	if st.Budget.CategoryBudgets == nil {
		st.Budget.CategoryBudgets = model.DefaultBudgetConfig().CategoryBudgets
	}
	if st.Budget.MonthlyBudget.IsZero() {
		st.Budget.MonthlyBudget = model.DefaultMonthlyBudget
	}
	if st.Budget.SalaryDay == 0 {
		st.Budget.SalaryDay = 1
	}

	t.ledger = ledger.New(t.clock, st.Expenses, t.ledOpt...)
	st.Expenses = nil
	t.state = st
}

// Reload replaces the in-memory state with the store's current contents,
// picking up changes written by other processes.
func (t *Tracker) Reload(ctx context.Context) error {
	st, err := t.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("reloading state: %w", err)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.install(st)
	return nil
}

// Now returns the tracker clock's current instant.
func (t *Tracker) Now() time.Time { return t.clock.Now() }

// State returns a deep copy of the current state.
func (t *Tracker) State() model.State {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.snapshotLocked()
}

func (t *Tracker) snapshotLocked() model.State {
	st := t.state
	st.Expenses = t.ledger.All()
	st.Budget = t.state.Budget.Clone()
	st.Reminders = slices.Clone(t.state.Reminders)
	return st
}

// Snapshot computes the dashboard summary at the current instant.
func (t *Tracker) Snapshot() model.Snapshot {
	return pipeline.Snapshot(t.State(), t.clock.Now())
}

// commit persists the current state, restoring prev on failure.
func (t *Tracker) commit(ctx context.Context, prev model.State) error {
	if err := t.store.Save(ctx, t.snapshotLocked()); err != nil {
		t.install(prev)
		return fmt.Errorf("saving state: %w", err)
	}
	return nil
}

// Expenses returns every expense in ledger order.
func (t *Tracker) Expenses() []model.Expense {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.ledger.All()
}

// AddExpense records a new expense and returns it with the month's budget
// status after the addition.
func (t *Tracker) AddExpense(ctx context.Context, in model.ExpenseInput) (model.Expense, model.BudgetStatus, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	prev := t.snapshotLocked()
	e, err := t.ledger.Add(in)
	if err != nil {
		return model.Expense{}, model.BudgetStatus{}, err
	}
	t.state.Preferences.SelectedCategory = e.Category
	if err := t.commit(ctx, prev); err != nil {
		return model.Expense{}, model.BudgetStatus{}, err
	}

	now := t.clock.Now()
	month, _ := pipeline.Select(t.ledger.All(), pipeline.ThisMonth(), now)
	status := pipeline.Evaluate(pipeline.TotalSpent(month), t.state.Budget.MonthlyBudget)

	t.log.Debug("expense added",
		zap.String(logging.FieldExpenseID, e.ID),
		zap.String(logging.FieldCategory, string(e.Category)),
		zap.String(logging.FieldAmount, e.Amount.String()),
		zap.Stringer("status", status.Status),
	)
	return e, status, nil
}

// ImportExpenses validates every input first and adds them all or none.
func (t *Tracker) ImportExpenses(ctx context.Context, inputs []model.ExpenseInput) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.clock.Now()
	for i, in := range inputs {
		if err := ledger.Validate(in, now); err != nil {
			return 0, fmt.Errorf("row %d: %w", i+1, err)
		}
	}

	prev := t.snapshotLocked()
	for _, in := range inputs {
		if _, err := t.ledger.Add(in); err != nil {
			t.ledger = ledger.New(t.clock, prev.Expenses, t.ledOpt...)
			return 0, err
		}
	}
	if err := t.commit(ctx, prev); err != nil {
		return 0, err
	}
	t.log.Info("expenses imported", zap.Int("count", len(inputs)))
	return len(inputs), nil
}

// ResolveID expands a unique id prefix to a full expense id.
func (t *Tracker) ResolveID(prefix string) (string, bool, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", false, nil
	}
	var match string
	for _, e := range t.ledger.All() {
		if e.ID == prefix {
			return e.ID, true, nil
		}
		if strings.HasPrefix(e.ID, prefix) {
			if match != "" {
				return "", false, ErrAmbiguousID
			}
			match = e.ID
		}
	}
	return match, match != "", nil
}

// RemoveExpense deletes an expense. Unknown ids are a no-op.
func (t *Tracker) RemoveExpense(ctx context.Context, id string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	prev := t.snapshotLocked()
	if !t.ledger.Remove(id) {
		return false, nil
	}
	if err := t.commit(ctx, prev); err != nil {
		return false, err
	}
	t.log.Debug("expense removed", zap.String(logging.FieldExpenseID, id))
	return true, nil
}

// Budget returns a copy of the budget configuration.
func (t *Tracker) Budget() model.BudgetConfig {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state.Budget.Clone()
}

// SetBudget sets the monthly budget.
func (t *Tracker) SetBudget(ctx context.Context, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return &ledger.ValidationError{Field: "budget", Err: ErrInvalidBudget}
	}
	return t.update(ctx, func(st *model.State) { st.Budget.MonthlyBudget = amount })
}

// SetCategoryBudget sets a category budget. Zero clears it.
func (t *Tracker) SetCategoryBudget(ctx context.Context, c model.Category, amount decimal.Decimal) error {
	if !c.Valid() {
		return &ledger.ValidationError{Field: "category", Err: ledger.ErrUnknownCategory}
	}
	if amount.IsNegative() {
		return &ledger.ValidationError{Field: "category budget", Err: ErrNegativeBudget}
	}
	return t.update(ctx, func(st *model.State) { st.Budget.CategoryBudgets[c] = amount })
}

// SetSalaryDay sets the day of month the salary arrives.
func (t *Tracker) SetSalaryDay(ctx context.Context, day int) error {
	if day < 1 || day > 31 {
		return &ledger.ValidationError{Field: "salary day", Err: ErrInvalidSalaryDay}
	}
	return t.update(ctx, func(st *model.State) { st.Budget.SalaryDay = day })
}

// Reminders returns the bill reminders in insertion order.
func (t *Tracker) Reminders() []model.Reminder {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.state.Reminders)
}

// AddReminder appends a bill reminder.
func (t *Tracker) AddReminder(ctx context.Context, r model.Reminder) error {
	r.Title = strings.TrimSpace(r.Title)
	switch {
	case r.Title == "":
		return &ledger.ValidationError{Field: "title", Err: ErrMissingTitle}
	case !r.Amount.IsPositive():
		return &ledger.ValidationError{Field: "amount", Err: ledger.ErrInvalidAmount}
	case r.DueDate.IsZero():
		return &ledger.ValidationError{Field: "due date", Err: ledger.ErrMissingDate}
	}
	r.DueDate = clock.StartOfDay(r.DueDate)
	return t.update(ctx, func(st *model.State) { st.Reminders = append(st.Reminders, r) })
}

// RemoveReminder deletes the reminder at index. Out of range is a no-op.
func (t *Tracker) RemoveReminder(ctx context.Context, index int) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if index < 0 || index >= len(t.state.Reminders) {
		return false, nil
	}
	prev := t.snapshotLocked()
	t.state.Reminders = slices.Delete(slices.Clone(t.state.Reminders), index, index+1)
	if err := t.commit(ctx, prev); err != nil {
		return false, err
	}
	return true, nil
}

// EvaluateStreak scores the days completed since the last evaluation and
// returns the streak.
func (t *Tracker) EvaluateStreak(ctx context.Context) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	prev := t.snapshotLocked()
	streak, checked := pipeline.UpdateStreak(t.state.Streak, t.state.StreakCheckedOn,
		t.ledger.All(), t.state.Budget, t.clock.Now())
	if streak == t.state.Streak && checked.Equal(t.state.StreakCheckedOn) {
		return streak, nil
	}

	t.state.Streak, t.state.StreakCheckedOn = streak, checked
	if err := t.commit(ctx, prev); err != nil {
		return prev.Streak, err
	}
	t.log.Debug("streak evaluated", zap.Int("streak", streak))
	return streak, nil
}

// SetProfile replaces the user profile.
func (t *Tracker) SetProfile(ctx context.Context, p model.Profile) error {
	return t.update(ctx, func(st *model.State) { st.Profile = p })
}

// SetPreferences replaces the stored UI preferences.
func (t *Tracker) SetPreferences(ctx context.Context, p model.Preferences) error {
	if p.SelectedChartMonth < 0 || p.SelectedChartMonth > 11 {
		p.SelectedChartMonth = 0
	}
	return t.update(ctx, func(st *model.State) { st.Preferences = p })
}

func (t *Tracker) update(ctx context.Context, fn func(st *model.State)) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	prev := t.snapshotLocked()
	t.state.Budget = t.state.Budget.Clone()
	t.state.Reminders = slices.Clone(t.state.Reminders)
	fn(&t.state)
	return t.commit(ctx, prev)
}
