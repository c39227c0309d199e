// Package store persists kharcha state in a local SQLite database.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite" // register sqlite driver

	"github.com/theirongolddev/kharcha/internal/model"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = time.RFC3339Nano
)

// Settings keys.
const (
	keyMonthlyBudget   = "monthly_budget"
	keySalaryDay       = "salary_day"
	keyStreak          = "streak"
	keyStreakCheckedOn = "streak_checked_on"
	keyProfileName     = "profile_name"
	keyProfileAge      = "profile_age"
	keyProfileJob      = "profile_occupation"
	keyProfileCity     = "profile_city"
	keySelectedCat     = "selected_category"
	keyDarkMode        = "dark_mode"
	keyChartMonth      = "selected_chart_month"
)

// Store is the SQLite-backed state store.
type Store struct {
	db      *sql.DB
	path    string
	version uint
}

// Open opens or creates the database at dbPath and applies migrations.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	version, err := migrateUp(dbPath)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening state db: %w", err)
	}
	db.SetMaxOpenConns(1)

	return &Store{db: db, path: dbPath, version: version}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// SchemaVersion returns the applied migration version.
func (s *Store) SchemaVersion() uint { return s.version }

// Load reads the full state. An empty database yields model.NewState().
func (s *Store) Load(ctx context.Context) (model.State, error) {
	st := model.NewState()

	expenses, err := s.loadExpenses(ctx)
	if err != nil {
		return st, fmt.Errorf("loading expenses: %w", err)
	}
	st.Expenses = expenses

	if err := s.loadCategoryBudgets(ctx, &st.Budget); err != nil {
		return st, fmt.Errorf("loading category budgets: %w", err)
	}

	reminders, err := s.loadReminders(ctx)
	if err != nil {
		return st, fmt.Errorf("loading reminders: %w", err)
	}
	st.Reminders = reminders

	settings, err := s.loadSettings(ctx)
	if err != nil {
		return st, fmt.Errorf("loading settings: %w", err)
	}
	if err := applySettings(&st, settings); err != nil {
		return st, fmt.Errorf("decoding settings: %w", err)
	}
	return st, nil
}

func (s *Store) loadExpenses(ctx context.Context) ([]model.Expense, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, amount, category, notes, spent_on, created_at
		FROM expenses ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.Expense
	for rows.Next() {
		var e model.Expense
		var amount, category, spentOn, createdAt string
		if err := rows.Scan(&e.ID, &amount, &category, &e.Notes, &spentOn, &createdAt); err != nil {
			return nil, err
		}
		if e.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("expense %s amount: %w", e.ID, err)
		}
		e.Category = model.Category(category)
		if e.Date, err = time.ParseInLocation(dateLayout, spentOn, time.Local); err != nil {
			return nil, fmt.Errorf("expense %s date: %w", e.ID, err)
		}
		if e.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
			return nil, fmt.Errorf("expense %s created_at: %w", e.ID, err)
		}
		e.CreatedAt = e.CreatedAt.Local()
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) loadCategoryBudgets(ctx context.Context, cfg *model.BudgetConfig) error {
	rows, err := s.db.QueryContext(ctx, "SELECT category, amount FROM category_budgets")
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var category, amount string
		if err := rows.Scan(&category, &amount); err != nil {
			return err
		}
		d, err := decimal.NewFromString(amount)
		if err != nil {
			return fmt.Errorf("category %s: %w", category, err)
		}
		cfg.CategoryBudgets[model.Category(category)] = d
	}
	return rows.Err()
}

func (s *Store) loadReminders(ctx context.Context) ([]model.Reminder, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT title, amount, due_on FROM reminders ORDER BY position")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.Reminder
	for rows.Next() {
		var r model.Reminder
		var amount, due string
		if err := rows.Scan(&r.Title, &amount, &due); err != nil {
			return nil, err
		}
		if r.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("reminder %q amount: %w", r.Title, err)
		}
		if r.DueDate, err = time.ParseInLocation(dateLayout, due, time.Local); err != nil {
			return nil, fmt.Errorf("reminder %q due date: %w", r.Title, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) loadSettings(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT key, value FROM settings")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	settings := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		settings[k] = v
	}
	return settings, rows.Err()
}

func applySettings(st *model.State, kv map[string]string) error {
	var err error
	if v, ok := kv[keyMonthlyBudget]; ok {
		if st.Budget.MonthlyBudget, err = decimal.NewFromString(v); err != nil {
			return fmt.Errorf("%s: %w", keyMonthlyBudget, err)
		}
	}
	if v, ok := kv[keySalaryDay]; ok {
		if st.Budget.SalaryDay, err = strconv.Atoi(v); err != nil {
			return fmt.Errorf("%s: %w", keySalaryDay, err)
		}
	}
	if v, ok := kv[keyStreak]; ok {
		if st.Streak, err = strconv.Atoi(v); err != nil {
			return fmt.Errorf("%s: %w", keyStreak, err)
		}
	}
	if v := kv[keyStreakCheckedOn]; v != "" {
		if st.StreakCheckedOn, err = time.ParseInLocation(dateLayout, v, time.Local); err != nil {
			return fmt.Errorf("%s: %w", keyStreakCheckedOn, err)
		}
	}
	if v := kv[keyProfileAge]; v != "" {
		if st.Profile.Age, err = strconv.Atoi(v); err != nil {
			return fmt.Errorf("%s: %w", keyProfileAge, err)
		}
	}
	if v := kv[keyChartMonth]; v != "" {
		if st.Preferences.SelectedChartMonth, err = strconv.Atoi(v); err != nil {
			return fmt.Errorf("%s: %w", keyChartMonth, err)
		}
	}
	st.Profile.Name = kv[keyProfileName]
	st.Profile.Occupation = kv[keyProfileJob]
	st.Profile.City = kv[keyProfileCity]
	st.Preferences.SelectedCategory = model.Category(kv[keySelectedCat])
	st.Preferences.DarkMode = kv[keyDarkMode] == "1"
	return nil
}

// Save replaces the stored state with st in a single transaction.
func (s *Store) Save(ctx context.Context, st model.State) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning save: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"expenses", "category_budgets", "reminders", "settings"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	for i, e := range st.Expenses {
		_, err := tx.ExecContext(ctx, `INSERT INTO expenses
			(id, position, amount, category, notes, spent_on, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			e.ID, i, e.Amount.String(), string(e.Category), e.Notes,
			e.Date.Format(dateLayout), e.CreatedAt.Format(timeLayout),
		)
		if err != nil {
			return fmt.Errorf("saving expense %s: %w", e.ID, err)
		}
	}

	for c, amount := range st.Budget.CategoryBudgets {
		_, err := tx.ExecContext(ctx, "INSERT INTO category_budgets (category, amount) VALUES (?, ?)",
			string(c), amount.String())
		if err != nil {
			return fmt.Errorf("saving category budget %s: %w", c, err)
		}
	}

	for i, r := range st.Reminders {
		_, err := tx.ExecContext(ctx, "INSERT INTO reminders (position, title, amount, due_on) VALUES (?, ?, ?, ?)",
			i, r.Title, r.Amount.String(), r.DueDate.Format(dateLayout))
		if err != nil {
			return fmt.Errorf("saving reminder %q: %w", r.Title, err)
		}
	}

	for k, v := range settingsOf(st) {
		if _, err := tx.ExecContext(ctx, "INSERT INTO settings (key, value) VALUES (?, ?)", k, v); err != nil {
			return fmt.Errorf("saving setting %s: %w", k, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing save: %w", err)
	}
	return nil
}

func settingsOf(st model.State) map[string]string {
	kv := map[string]string{
		keyMonthlyBudget: st.Budget.MonthlyBudget.String(),
		keySalaryDay:     strconv.Itoa(st.Budget.SalaryDay),
		keyStreak:        strconv.Itoa(st.Streak),
		keyProfileName:   st.Profile.Name,
		keyProfileJob:    st.Profile.Occupation,
		keyProfileCity:   st.Profile.City,
		keySelectedCat:   string(st.Preferences.SelectedCategory),
		keyChartMonth:    strconv.Itoa(st.Preferences.SelectedChartMonth),
		keyDarkMode:      "0",
	}
	if !st.StreakCheckedOn.IsZero() {
		kv[keyStreakCheckedOn] = st.StreakCheckedOn.Format(dateLayout)
	}
	if st.Profile.Age > 0 {
		kv[keyProfileAge] = strconv.Itoa(st.Profile.Age)
	}
	if st.Preferences.DarkMode {
		kv[keyDarkMode] = "1"
	}
	return kv
}

// ExpenseCount returns the number of stored expenses.
func (s *Store) ExpenseCount(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM expenses").Scan(&n)
	return n, err
}
