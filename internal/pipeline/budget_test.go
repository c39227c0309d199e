package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/kharcha/internal/model"
)

func TestMonthWithinBudget(t *testing.T) {
	now := time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)
	records := []model.Expense{exp(t, "a", 30000, model.Bills, "2024-03-05")}

	month, err := Select(records, ThisMonth(), now)
	require.NoError(t, err)

	bs := Evaluate(TotalSpent(month), dec(50000))
	assert.True(t, bs.Total.Equal(dec(30000)))
	assert.True(t, bs.PercentUsed.Equal(dec(60)), "got %s", bs.PercentUsed)
	assert.Equal(t, model.StatusNormal, bs.Status)
	assert.Equal(t, model.FeedbackCelebrate, bs.Feedback)
	assert.True(t, bs.Remaining.Equal(dec(20000)))
}

func TestMonthOverBudget(t *testing.T) {
	now := time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)
	records := []model.Expense{
		exp(t, "a", 30000, model.Bills, "2024-03-05"),
		exp(t, "b", 22000, model.Shopping, "2024-03-18"),
	}

	month, _ := Select(records, ThisMonth(), now)
	bs := Evaluate(TotalSpent(month), dec(50000))

	assert.Equal(t, model.StatusDanger, bs.Status)
	assert.Equal(t, model.FeedbackSad, bs.Feedback)
	assert.True(t, bs.Remaining.IsZero())
	assert.True(t, bs.SignedRemaining.Equal(dec(-2000)), "got %s", bs.SignedRemaining)
}

func TestStatusThresholds(t *testing.T) {
	tests := []struct {
		pct      string
		want     model.Status
		feedback model.Feedback
	}{
		{"0", model.StatusNormal, model.FeedbackCelebrate},
		{"79.999", model.StatusNormal, model.FeedbackCelebrate},
		{"80", model.StatusWarning, model.FeedbackNone},
		{"99.999", model.StatusWarning, model.FeedbackNone},
		{"100", model.StatusDanger, model.FeedbackSad},
		{"250", model.StatusDanger, model.FeedbackSad},
	}
	for _, tt := range tests {
		t.Run(tt.pct, func(t *testing.T) {
			s := StatusFor(decimalString(t, tt.pct))
			assert.Equal(t, tt.want, s)
			assert.Equal(t, tt.feedback, FeedbackFor(s))
		})
	}
}

func TestPercentUsedZeroBudget(t *testing.T) {
	_, err := PercentUsed(dec(100), dec(0))
	assert.ErrorIs(t, err, ErrZeroBudget)

	bs := Evaluate(dec(100), dec(0))
	assert.False(t, bs.HasBudget)
	assert.True(t, bs.PercentUsed.IsZero())
	assert.True(t, bs.Remaining.IsZero())
}

func TestPercentUsedMonotonic(t *testing.T) {
	b := dec(1234)
	prev, err := PercentUsed(dec(0), b)
	require.NoError(t, err)
	for total := int64(1); total <= 3000; total += 7 {
		p, err := PercentUsed(dec(total), b)
		require.NoError(t, err)
		require.True(t, p.GreaterThanOrEqual(prev), "total %d: %s < %s", total, p, prev)
		prev = p
	}
}

func TestCategoryBreakdown(t *testing.T) {
	records := []model.Expense{
		exp(t, "1", 300, model.Transport, "2024-03-01"),
		exp(t, "2", 500, model.Food, "2024-03-02"),
		exp(t, "3", 200, model.Food, "2024-03-03"),
		exp(t, "4", 700, model.Bills, "2024-03-04"),
		exp(t, "5", 400, model.Transport, "2024-03-05"),
		exp(t, "6", 50, model.Health, "2024-03-06"),
	}

	shares := CategoryBreakdown(records)
	require.Len(t, shares, 4)

	// Transport, Food and Bills all total 700; first-seen order wins.
	assert.Equal(t, model.Transport, shares[0].Category)
	assert.Equal(t, model.Food, shares[1].Category)
	assert.Equal(t, model.Bills, shares[2].Category)
	assert.Equal(t, model.Health, shares[3].Category)
	assert.Equal(t, 2, shares[0].Count)

	sum := dec(0)
	for _, s := range shares {
		sum = sum.Add(s.Total)
	}
	assert.True(t, sum.Equal(TotalSpent(records)))
}

func TestCategoryBreakdownSumsExactly(t *testing.T) {
	records := []model.Expense{
		{Amount: decimalString(t, "0.10"), Category: model.Food},
		{Amount: decimalString(t, "0.20"), Category: model.Other},
		{Amount: decimalString(t, "1234.567"), Category: model.Food},
		{Amount: decimalString(t, "0.003"), Category: model.Health},
	}
	sum := dec(0)
	for _, s := range CategoryBreakdown(records) {
		sum = sum.Add(s.Total)
	}
	assert.True(t, sum.Equal(decimalString(t, "1234.87")), "got %s", sum)
}

func TestCategoryBudgetStatus(t *testing.T) {
	unset := CategoryBudgetStatus(model.Food, dec(500), dec(0))
	assert.False(t, unset.HasBudget)
	assert.True(t, unset.Left.IsZero())

	warn := CategoryBudgetStatus(model.Food, dec(850), dec(1000))
	assert.True(t, warn.HasBudget)
	assert.Equal(t, model.StatusWarning, warn.Status)
	assert.True(t, warn.Left.Equal(dec(150)))

	over := CategoryBudgetStatus(model.Food, dec(1200), dec(1000))
	assert.Equal(t, model.StatusDanger, over.Status)
	assert.True(t, over.Left.IsZero())
}

func TestCategoryBudgets(t *testing.T) {
	cfg := budget(50000)
	cfg.CategoryBudgets[model.Food] = dec(1000)

	out := CategoryBudgets([]model.Expense{
		exp(t, "1", 400, model.Food, "2024-03-01"),
		exp(t, "2", 90, model.Other, "2024-03-01"),
	}, cfg)

	require.Len(t, out, len(model.Categories))
	for i, c := range model.Categories {
		assert.Equal(t, c, out[i].Category)
	}
	assert.True(t, out[0].HasBudget)
	assert.True(t, out[0].PercentUsed.Equal(dec(40)))
	assert.False(t, out[7].HasBudget)
	assert.True(t, out[7].Spent.Equal(dec(90)))
}
