package model

import "github.com/shopspring/decimal"

// DefaultMonthlyBudget applies when no budget has been set.
var DefaultMonthlyBudget = decimal.NewFromInt(50000)

// BudgetConfig is the user's budget configuration.
type BudgetConfig struct {
	MonthlyBudget   decimal.Decimal
	CategoryBudgets map[Category]decimal.Decimal // zero means unset
	SalaryDay       int
}

// DefaultBudgetConfig returns a config with the default monthly budget,
// every category budget unset and salary on the 1st.
func DefaultBudgetConfig() BudgetConfig {
	cb := make(map[Category]decimal.Decimal, len(Categories))
	for _, c := range Categories {
		cb[c] = decimal.Zero
	}
	return BudgetConfig{
		MonthlyBudget:   DefaultMonthlyBudget,
		CategoryBudgets: cb,
		SalaryDay:       1,
	}
}

// CategoryBudget returns the budget for c, zero if unset.
func (b BudgetConfig) CategoryBudget(c Category) decimal.Decimal {
	if b.CategoryBudgets == nil {
		return decimal.Zero
	}
	return b.CategoryBudgets[c]
}

// Clone returns a copy that shares no map with b.
func (b BudgetConfig) Clone() BudgetConfig {
	out := b
	out.CategoryBudgets = make(map[Category]decimal.Decimal, len(b.CategoryBudgets))
	for k, v := range b.CategoryBudgets {
		out.CategoryBudgets[k] = v
	}
	return out
}
