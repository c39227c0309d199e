package pipeline

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/kharcha/internal/model"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func exp(t *testing.T, id string, amount int64, c model.Category, date string) model.Expense {
	t.Helper()
	d := mustDate(t, date)
	return model.Expense{ID: id, Amount: dec(amount), Category: c, Date: d, CreatedAt: d}
}

func ids(records []model.Expense) []string {
	out := make([]string, 0, len(records))
	for _, e := range records {
		out = append(out, e.ID)
	}
	return out
}

func budget(monthly int64) model.BudgetConfig {
	cfg := model.DefaultBudgetConfig()
	cfg.MonthlyBudget = dec(monthly)
	return cfg
}

func decimalString(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("parse decimal %q: %v", s, err)
	}
	return d
}
