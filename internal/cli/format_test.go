package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/theirongolddev/kharcha/internal/model"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{12345, "12,345"},
		{123456, "1,23,456"},
		{1234567, "12,34,567"},
		{123456789, "12,34,56,789"},
		{-50000, "-50,000"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatNumber(tt.in), "%d", tt.in)
	}
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "₹50,000", FormatMoney(decimal.NewFromInt(50000)))
	assert.Equal(t, "₹1,667", FormatMoney(decimal.RequireFromString("1666.67")))
	assert.Equal(t, "-₹2,000", FormatMoney(decimal.NewFromInt(-2000)))
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "₹1,250", FormatAmount(decimal.NewFromInt(1250)))
	assert.Equal(t, "₹1,250.50", FormatAmount(decimal.RequireFromString("1250.5")))
	assert.Equal(t, "₹0.05", FormatAmount(decimal.RequireFromString("0.05")))
	assert.Equal(t, "-₹3.10", FormatAmount(decimal.RequireFromString("-3.1")))
}

func TestFormatPercentAndDelta(t *testing.T) {
	assert.Equal(t, "60.0%", FormatPercent(decimal.NewFromInt(60)))
	assert.Equal(t, "+₹500", FormatDelta(decimal.NewFromInt(1500), decimal.NewFromInt(1000)))
	assert.Equal(t, "-₹500", FormatDelta(decimal.NewFromInt(1000), decimal.NewFromInt(1500)))
}

func TestFormatDaysLeft(t *testing.T) {
	assert.Equal(t, "due today", FormatDaysLeft(0))
	assert.Equal(t, "1 day left", FormatDaysLeft(1))
	assert.Equal(t, "4 days left", FormatDaysLeft(4))
	assert.Equal(t, "2 days overdue", FormatDaysLeft(-2))
}

func TestFormatRelative(t *testing.T) {
	now := time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "3 days ago", FormatRelative(now.AddDate(0, 0, -3), now))
}

func TestInsightText(t *testing.T) {
	tests := []struct {
		in   model.Insight
		want string
	}{
		{
			model.Insight{Type: model.InsightAllTimeTotal, Amount: decimal.NewFromInt(123456)},
			"Total expenses (all time): ₹1,23,456",
		},
		{
			model.Insight{Type: model.InsightMonthBudget, Amount: decimal.NewFromInt(30000), Remaining: decimal.NewFromInt(20000), Percent: decimal.NewFromInt(60)},
			"This month: ₹30,000 - Budget remaining: ₹20,000 (60.0% used)",
		},
		{
			model.Insight{Type: model.InsightTopCategory, Category: model.Bills, Amount: decimal.NewFromInt(2000), Percent: decimal.RequireFromString("52.63")},
			"Highest spending: ⚡ Bills (₹2,000 - 52.6%)",
		},
		{
			model.Insight{Type: model.InsightAverageDaily, Amount: decimal.NewFromInt(950), Days: 4},
			"Average daily spend: ₹950 (across 4 days)",
		},
		{
			model.Insight{Type: model.InsightWeeklyTrend, Trend: model.TrendIncreasing, Amount: decimal.NewFromInt(900), Previous: decimal.NewFromInt(300)},
			"Spending trend: 📈 Increasing (Last 7 days: ₹900 vs Previous: ₹300)",
		},
		{
			model.Insight{Type: model.InsightWeeklyTrend, Trend: model.TrendNone, Amount: decimal.NewFromInt(400)},
			"Last 7 days spending: ₹400",
		},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, InsightText(tt.in))
	}
}

func TestShareText(t *testing.T) {
	assert.Equal(t, "My monthly expenses: ₹12,500", ShareText(decimal.NewFromInt(12500)))
}

func TestRenderSparkline(t *testing.T) {
	vals := []decimal.Decimal{decimal.Zero, decimal.NewFromInt(50), decimal.NewFromInt(100)}
	assert.Equal(t, "▁▄█", RenderSparkline(vals))
	assert.Empty(t, RenderSparkline(nil))
	assert.Equal(t, "▁▁", RenderSparkline([]decimal.Decimal{decimal.Zero, decimal.Zero}))
}

func TestRenderTableSeparator(t *testing.T) {
	out := RenderTable(Table{
		Headers: []string{"Category", "Total"},
		Rows:    [][]string{{"Food", "100"}, {"---"}, {"Total", "100"}},
	})
	assert.Contains(t, out, "Food")
	assert.Contains(t, out, "├")
	assert.Empty(t, RenderTable(Table{}))
}

func TestRenderTableAlignsMultibyteCells(t *testing.T) {
	out := RenderTable(Table{
		Headers: []string{"Category", "Total"},
		Rows: [][]string{
			{"🍔 Food", "₹1,250"},
			{"Other", "₹12,34,567.50"},
		},
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	want := lipgloss.Width(lines[0])
	for _, l := range lines {
		assert.Equal(t, want, lipgloss.Width(l), l)
	}
}
