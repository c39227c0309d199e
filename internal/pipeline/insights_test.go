package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/kharcha/internal/model"
)

var insightNow = time.Date(2024, 3, 20, 15, 0, 0, 0, time.UTC)

func insightLedger(t *testing.T) []model.Expense {
	return []model.Expense{
		exp(t, "a", 1000, model.Food, "2024-03-20"),
		exp(t, "b", 500, model.Transport, "2024-03-14"),
		exp(t, "c", 2000, model.Bills, "2024-03-10"),
		exp(t, "d", 300, model.Food, "2024-02-20"),
	}
}

func insightTypes(in []model.Insight) []model.InsightType {
	out := make([]model.InsightType, 0, len(in))
	for _, i := range in {
		out = append(out, i.Type)
	}
	return out
}

func TestGenerateInsights(t *testing.T) {
	got := GenerateInsights(insightLedger(t), budget(50000), insightNow)

	require.Equal(t, []model.InsightType{
		model.InsightAllTimeTotal,
		model.InsightMonthBudget,
		model.InsightTopCategory,
		model.InsightAverageDaily,
		model.InsightWeeklyTrend,
	}, insightTypes(got))

	assert.True(t, got[0].Amount.Equal(dec(3800)))
	assert.Equal(t, model.InsightInfo, got[0].Kind)

	assert.Equal(t, model.InsightSuccess, got[1].Kind)
	assert.True(t, got[1].Amount.Equal(dec(3500)))
	assert.True(t, got[1].Remaining.Equal(dec(46500)))
	assert.True(t, got[1].Percent.Equal(dec(7)), "got %s", got[1].Percent)

	assert.Equal(t, model.Bills, got[2].Category)
	assert.True(t, got[2].Amount.Equal(dec(2000)))

	assert.Equal(t, 4, got[3].Days)
	assert.True(t, got[3].Amount.Equal(dec(950)))

	assert.Equal(t, model.TrendDecreasing, got[4].Trend)
	assert.Equal(t, model.InsightSuccess, got[4].Kind)
	assert.True(t, got[4].Amount.Equal(dec(1500)))
	assert.True(t, got[4].Previous.Equal(dec(2000)))
	assert.True(t, got[4].Percent.Equal(dec(25)))
}

func TestGenerateInsightsEmpty(t *testing.T) {
	assert.Empty(t, GenerateInsights(nil, budget(50000), insightNow))
}

func TestGenerateInsightsSkipsInactiveRules(t *testing.T) {
	old := []model.Expense{exp(t, "old", 700, model.Health, "2024-01-05")}
	got := GenerateInsights(old, budget(50000), insightNow)
	assert.Equal(t, []model.InsightType{
		model.InsightAllTimeTotal,
		model.InsightTopCategory,
		model.InsightAverageDaily,
	}, insightTypes(got))
}

func TestMonthInsightOverBudget(t *testing.T) {
	records := []model.Expense{exp(t, "a", 5000, model.Shopping, "2024-03-02")}
	got := GenerateInsights(records, budget(5000), insightNow)
	require.Equal(t, model.InsightMonthBudget, got[1].Type)
	assert.Equal(t, model.InsightWarning, got[1].Kind)
	assert.True(t, got[1].Remaining.IsZero())
}

func TestWeeklyTrend(t *testing.T) {
	tests := []struct {
		name      string
		last      int64
		prev      int64
		wantKind  model.InsightKind
		wantTrend model.Trend
	}{
		{"increasing", 900, 300, model.InsightWarning, model.TrendIncreasing},
		{"decreasing", 300, 900, model.InsightSuccess, model.TrendDecreasing},
		{"stable", 400, 400, model.InsightInfo, model.TrendStable},
		{"no prior window", 400, 0, model.InsightInfo, model.TrendNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var records []model.Expense
			if tt.last > 0 {
				records = append(records, exp(t, "last", tt.last, model.Food, "2024-03-14"))
			}
			if tt.prev > 0 {
				records = append(records, exp(t, "prev", tt.prev, model.Food, "2024-03-07"))
			}
			in, ok := weeklyTrend(records, insightNow)
			require.True(t, ok)
			assert.Equal(t, tt.wantKind, in.Kind)
			assert.Equal(t, tt.wantTrend, in.Trend)
		})
	}

	_, ok := weeklyTrend([]model.Expense{exp(t, "prev", 100, model.Food, "2024-03-07")}, insightNow)
	assert.False(t, ok, "prior window alone yields nothing")
}

func TestWeeklyTrendIgnoresRecordsAfterNow(t *testing.T) {
	records := []model.Expense{
		exp(t, "yesterday", 100, model.Food, "2024-03-19"),
		exp(t, "later", 900, model.Food, "2024-03-28"),
	}
	in, ok := weeklyTrend(records, insightNow)
	require.True(t, ok)
	assert.True(t, in.Amount.Equal(dec(100)), "got %s", in.Amount)
}

func TestDetailedInsights(t *testing.T) {
	d := DetailedInsights(insightLedger(t), insightNow)
	assert.True(t, d.MonthTotal.Equal(dec(3500)))
	assert.True(t, d.AverageDaily.Equal(dec(175)))
	require.True(t, d.HasTopCategory)
	assert.Equal(t, model.Bills, d.TopCategory)
}

func TestUpdateStreak(t *testing.T) {
	cfg := budget(30000) // daily limit 1000
	records := []model.Expense{
		exp(t, "a", 1000, model.Food, "2024-03-19"),
		exp(t, "b", 5000, model.Shopping, "2024-03-20"),
	}

	tests := []struct {
		name        string
		streak      int
		checkedOn   string
		now         time.Time
		wantStreak  int
		wantChecked string
	}{
		{"first use scores yesterday", 3, "", time.Date(2024, 3, 20, 9, 0, 0, 0, time.UTC), 4, "2024-03-19"},
		{"today is not scored yet", 4, "2024-03-19", time.Date(2024, 3, 20, 23, 55, 0, 0, time.UTC), 4, "2024-03-19"},
		{"over-limit day resets next morning", 4, "2024-03-19", time.Date(2024, 3, 21, 8, 0, 0, 0, time.UTC), 0, "2024-03-20"},
		{"gap days are scored on their totals", 2, "2024-03-15", time.Date(2024, 3, 20, 8, 0, 0, 0, time.UTC), 6, "2024-03-19"},
		{"gap with an over-limit day", 2, "2024-03-17", time.Date(2024, 3, 22, 8, 0, 0, 0, time.UTC), 1, "2024-03-21"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var checked time.Time
			if tt.checkedOn != "" {
				checked = mustDate(t, tt.checkedOn)
			}
			streak, got := UpdateStreak(tt.streak, checked, records, cfg, tt.now)
			assert.Equal(t, tt.wantStreak, streak)
			assert.Equal(t, mustDate(t, tt.wantChecked), got)
		})
	}
}
