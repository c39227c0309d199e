package model

import "github.com/shopspring/decimal"

// InsightKind tags an insight's tone.
type InsightKind int

// Insight kinds.
const (
	InsightInfo InsightKind = iota
	InsightSuccess
	InsightWarning
)

func (k InsightKind) String() string {
	switch k {
	case InsightSuccess:
		return "success"
	case InsightWarning:
		return "warning"
	default:
		return "info"
	}
}

// InsightType identifies which rule produced an insight.
type InsightType string

// Insight types, in generation order.
const (
	InsightAllTimeTotal InsightType = "all_time_total"
	InsightMonthBudget  InsightType = "month_budget"
	InsightTopCategory  InsightType = "top_category"
	InsightAverageDaily InsightType = "average_daily"
	InsightWeeklyTrend  InsightType = "weekly_trend"
)

// Trend is the direction of the trailing-week comparison.
type Trend int

// Trend directions. TrendNone means only the trailing window had activity.
const (
	TrendNone Trend = iota
	TrendIncreasing
	TrendDecreasing
	TrendStable
)

// Insight is a single derived statement. Rendering is left to callers.
type Insight struct {
	Type     InsightType
	Kind     InsightKind
	Amount    decimal.Decimal
	Previous  decimal.Decimal // prior window total for weekly trend
	Remaining decimal.Decimal // month budget left, clamped at zero
	Percent   decimal.Decimal
	Category  Category
	Days      int // distinct spending days for average daily
	Trend     Trend
}

// DetailedInsights are the month-scoped figures shown on the insights view.
type DetailedInsights struct {
	MonthTotal         decimal.Decimal
	AverageDaily       decimal.Decimal
	TopCategory        Category
	TopCategoryTotal   decimal.Decimal
	TopCategoryPercent decimal.Decimal
	HasTopCategory     bool
}
