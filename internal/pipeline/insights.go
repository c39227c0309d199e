package pipeline

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/kharcha/internal/clock"
	"github.com/theirongolddev/kharcha/internal/model"
)

// GenerateInsights derives the ordered insight list for the dashboard.
// Each rule is skipped when its preconditions do not hold, so an empty
// ledger yields no insights.
func GenerateInsights(records []model.Expense, cfg model.BudgetConfig, now time.Time) []model.Insight {
	var insights []model.Insight

	allTime := TotalSpent(records)
	if allTime.IsPositive() {
		insights = append(insights, model.Insight{
			Type:   model.InsightAllTimeTotal,
			Kind:   model.InsightInfo,
			Amount: allTime,
		})
	}

	month, _ := Select(records, ThisMonth(), now)
	if monthTotal := TotalSpent(month); monthTotal.IsPositive() {
		bs := Evaluate(monthTotal, cfg.MonthlyBudget)
		kind := model.InsightWarning
		if bs.SignedRemaining.IsPositive() {
			kind = model.InsightSuccess
		}
		insights = append(insights, model.Insight{
			Type:      model.InsightMonthBudget,
			Kind:      kind,
			Amount:    monthTotal,
			Remaining: bs.Remaining,
			Percent:   bs.PercentUsed,
		})
	}

	if top, ok := topCategory(records); ok && allTime.IsPositive() {
		insights = append(insights, model.Insight{
			Type:     model.InsightTopCategory,
			Kind:     model.InsightInfo,
			Category: top.Category,
			Amount:   top.Total,
			Percent:  top.Percent,
		})
	}

	if days := distinctDays(records); days > 0 {
		insights = append(insights, model.Insight{
			Type:   model.InsightAverageDaily,
			Kind:   model.InsightInfo,
			Amount: allTime.Div(decimal.NewFromInt(int64(days))),
			Days:   days,
		})
	}

	if in, ok := weeklyTrend(records, now); ok {
		insights = append(insights, in)
	}

	return insights
}

// weeklyTrend compares the trailing seven days, today included, with the
// seven days before them.
func weeklyTrend(records []model.Expense, now time.Time) (model.Insight, bool) {
	today := clock.StartOfDay(now)
	lastStart := today.AddDate(0, 0, -6)
	prevStart := today.AddDate(0, 0, -13)

	last := TotalSpent(FilterByDate(records, lastStart, clock.EndOfDay(now)))
	prev := TotalSpent(FilterByDate(records, prevStart, lastStart.Add(-time.Millisecond)))

	switch {
	case last.IsPositive() && prev.IsPositive():
		in := model.Insight{
			Type:     model.InsightWeeklyTrend,
			Amount:   last,
			Previous: prev,
			Percent:  last.Sub(prev).Abs().Div(prev).Mul(hundred),
		}
		switch last.Cmp(prev) {
		case 1:
			in.Kind, in.Trend = model.InsightWarning, model.TrendIncreasing
		case -1:
			in.Kind, in.Trend = model.InsightSuccess, model.TrendDecreasing
		default:
			in.Kind, in.Trend = model.InsightInfo, model.TrendStable
		}
		return in, true
	case last.IsPositive():
		return model.Insight{
			Type:   model.InsightWeeklyTrend,
			Kind:   model.InsightInfo,
			Amount: last,
			Trend:  model.TrendNone,
		}, true
	}
	return model.Insight{}, false
}

func topCategory(records []model.Expense) (model.CategoryShare, bool) {
	shares := CategoryBreakdown(records)
	if len(shares) == 0 || !shares[0].Total.IsPositive() {
		return model.CategoryShare{}, false
	}
	return shares[0], true
}

func distinctDays(records []model.Expense) int {
	days := make(map[string]struct{})
	for _, e := range records {
		days[e.Date.Format("2006-01-02")] = struct{}{}
	}
	return len(days)
}

// DetailedInsights returns month-scoped figures: the average daily spend
// over the elapsed days of the month and the month's top category.
func DetailedInsights(records []model.Expense, now time.Time) model.DetailedInsights {
	month, _ := Select(records, ThisMonth(), now)
	total := TotalSpent(month)

	d := model.DetailedInsights{
		MonthTotal:   total,
		AverageDaily: total.Div(decimal.NewFromInt(int64(now.Day()))),
	}
	if top, ok := topCategory(month); ok {
		d.TopCategory = top.Category
		d.TopCategoryTotal = top.Total
		d.TopCategoryPercent = top.Percent
		d.HasTopCategory = true
	}
	return d
}

// DailyLimit is the implied per-day allowance, monthlyBudget / 30.
func DailyLimit(cfg model.BudgetConfig) decimal.Decimal {
	return cfg.MonthlyBudget.Div(decimal.NewFromInt(30))
}

// UpdateStreak scores each completed day after checkedOn, through
// yesterday, against the daily limit. A day within the limit extends the
// streak and a day over it resets it to zero. Today is left for the next
// call, once it has ended. A zero checkedOn scores yesterday only. The
// returned time is the last day scored.
func UpdateStreak(streak int, checkedOn time.Time, records []model.Expense, cfg model.BudgetConfig, now time.Time) (int, time.Time) {
	loc := now.Location()
	yesterday := clock.StartOfDay(now).AddDate(0, 0, -1)
	from := yesterday
	if !checkedOn.IsZero() {
		from = clock.Date(checkedOn, loc).AddDate(0, 0, 1)
	}
	if from.After(yesterday) {
		return streak, checkedOn
	}

	totals := make(map[string]decimal.Decimal)
	for _, e := range FilterByDate(records, from, clock.EndOfDay(yesterday)) {
		key := e.Date.Format(time.DateOnly)
		totals[key] = totals[key].Add(e.Amount)
	}

	limit := DailyLimit(cfg)
	for d := from; !d.After(yesterday); d = d.AddDate(0, 0, 1) {
		if totals[d.Format(time.DateOnly)].LessThanOrEqual(limit) {
			streak++
		} else {
			streak = 0
		}
	}
	return streak, yesterday
}
