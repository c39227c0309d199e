package pipeline

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/kharcha/internal/clock"
	"github.com/theirongolddev/kharcha/internal/model"
)

// DaysUntilSalary counts days from today to the next salary day.
// A salary day beyond the end of a month falls on that month's last day.
// The result is always within [1, days in today's month].
func DaysUntilSalary(today time.Time, salaryDay int) int {
	salaryDay = min(max(salaryDay, 1), 31)
	day := today.Day()
	dim := clock.DaysIn(today.Year(), today.Month())

	if this := min(salaryDay, dim); day < this {
		return this - day
	}

	next := time.Date(today.Year(), today.Month()+1, 1, 0, 0, 0, 0, today.Location())
	days := dim - day + min(salaryDay, clock.DaysIn(next.Year(), next.Month()))
	return min(days, dim)
}

// NextPayday returns the date of the next salary day after today. Unlike
// DaysUntilSalary it is not capped, so from Feb 29 with salary day 31 it
// returns Mar 31.
func NextPayday(today time.Time, salaryDay int) time.Time {
	salaryDay = min(max(salaryDay, 1), 31)
	y, m, d := today.Date()
	loc := today.Location()

	if this := min(salaryDay, clock.DaysIn(y, m)); d < this {
		return time.Date(y, m, this, 0, 0, 0, 0, loc)
	}
	next := time.Date(y, m+1, 1, 0, 0, 0, 0, loc)
	day := min(salaryDay, clock.DaysIn(next.Year(), next.Month()))
	return time.Date(next.Year(), next.Month(), day, 0, 0, 0, 0, loc)
}

// SafeDailySpend spreads remaining evenly over days, never below zero.
func SafeDailySpend(remaining decimal.Decimal, days int) decimal.Decimal {
	// DaysUntilSalary never returns less than 1; this only covers direct callers.
	if days < 1 {
		days = 1
	}
	return decimal.Max(decimal.Zero, remaining.Div(decimal.NewFromInt(int64(days))))
}

// SalaryCycle projects this month's remaining budget over the days until salary.
func SalaryCycle(records []model.Expense, cfg model.BudgetConfig, now time.Time) model.SalaryProjection {
	month, _ := Select(records, ThisMonth(), now)
	remaining := SignedRemaining(TotalSpent(month), cfg.MonthlyBudget)
	days := DaysUntilSalary(now, cfg.SalaryDay)

	return model.SalaryProjection{
		DaysUntilSalary: days,
		NextPayday:      NextPayday(now, cfg.SalaryDay),
		Remaining:       decimal.Max(decimal.Zero, remaining),
		SafeDailySpend:  SafeDailySpend(remaining, days),
	}
}
