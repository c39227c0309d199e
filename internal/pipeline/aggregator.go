package pipeline

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/kharcha/internal/clock"
	"github.com/theirongolddev/kharcha/internal/model"
)

// DailyTotals returns one entry per day for the trailing window ending
// today, oldest first. Days without expenses are zero.
func DailyTotals(records []model.Expense, now time.Time, days int) []model.DailyTotal {
	if days < 1 {
		return nil
	}
	today := clock.StartOfDay(now)
	since := today.AddDate(0, 0, -(days - 1))

	dayMap := make(map[string]*model.DailyTotal, days)
	out := make([]model.DailyTotal, days)
	for i := range out {
		d := since.AddDate(0, 0, i)
		out[i] = model.DailyTotal{Date: d, Total: decimal.Zero}
		dayMap[d.Format("2006-01-02")] = &out[i]
	}

	for _, e := range FilterByDate(records, since, clock.EndOfDay(now)) {
		if dt, ok := dayMap[e.Date.Format("2006-01-02")]; ok {
			dt.Total = dt.Total.Add(e.Amount)
			dt.Count++
		}
	}
	return out
}

// MonthlyTotals returns the twelve months of year, January first.
func MonthlyTotals(records []model.Expense, year int) []model.MonthlyTotal {
	out := make([]model.MonthlyTotal, 12)
	for i := range out {
		out[i] = model.MonthlyTotal{Year: year, Month: time.Month(i + 1), Total: decimal.Zero}
	}
	for _, e := range records {
		if e.Date.Year() != year {
			continue
		}
		mt := &out[e.Date.Month()-1]
		mt.Total = mt.Total.Add(e.Amount)
		mt.Count++
	}
	return out
}

// SortByDate returns a copy of records ordered by date, newest first.
// Records on the same date keep their ledger order.
func SortByDate(records []model.Expense) []model.Expense {
	out := make([]model.Expense, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}

// RecentByDate returns up to n records with the latest dates.
func RecentByDate(records []model.Expense, n int) []model.Expense {
	sorted := SortByDate(records)
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// RecentSuggestions returns up to n of the most recently created records,
// used to offer quick re-entry of repeated expenses.
func RecentSuggestions(records []model.Expense, n int) []model.Expense {
	out := make([]model.Expense, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// ReminderStatuses computes the countdown for each reminder. A reminder
// is urgent when it is due within three days.
func ReminderStatuses(reminders []model.Reminder, now time.Time) []model.ReminderStatus {
	out := make([]model.ReminderStatus, 0, len(reminders))
	for i, r := range reminders {
		left := int(math.Ceil(r.DueDate.Sub(now).Hours() / 24))
		out = append(out, model.ReminderStatus{
			Index:    i,
			Reminder: r,
			DaysLeft: left,
			Urgent:   left <= 3,
		})
	}
	return out
}

// DueWithin returns the reminders not yet past and due within days.
func DueWithin(reminders []model.Reminder, now time.Time, days int) []model.ReminderStatus {
	var out []model.ReminderStatus
	for _, rs := range ReminderStatuses(reminders, now) {
		if rs.DaysLeft >= 0 && rs.DaysLeft <= days {
			out = append(out, rs)
		}
	}
	return out
}

// Snapshot summarizes the state for the dashboard views.
func Snapshot(st model.State, now time.Time) model.Snapshot {
	today, _ := Select(st.Expenses, Today(), now)
	week, _ := Select(st.Expenses, ThisWeek(), now)
	month, _ := Select(st.Expenses, ThisMonth(), now)

	return model.Snapshot{
		At:         now,
		Today:      TotalSpent(today),
		Week:       TotalSpent(week),
		AllTime:    TotalSpent(st.Expenses),
		Month:      Evaluate(TotalSpent(month), st.Budget.MonthlyBudget),
		Salary:     SalaryCycle(st.Expenses, st.Budget, now),
		Streak:     st.Streak,
		Expenses:   len(st.Expenses),
		Categories: CategoryBreakdown(month),
		Insights:   GenerateInsights(st.Expenses, st.Budget, now),
	}
}

// Greeting returns the time-of-day salutation.
func Greeting(now time.Time) string {
	switch h := now.Hour(); {
	case h < 12:
		return "Good Morning"
	case h < 17:
		return "Good Afternoon"
	default:
		return "Good Evening"
	}
}
