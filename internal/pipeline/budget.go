package pipeline

import (
	"errors"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/kharcha/internal/model"
)

// ErrZeroBudget is returned when a percentage is requested against a zero budget.
var ErrZeroBudget = errors.New("budget is zero")

var (
	hundred          = decimal.NewFromInt(100)
	warningThreshold = decimal.NewFromInt(80)
)

// TotalSpent sums the amounts of records.
func TotalSpent(records []model.Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range records {
		total = total.Add(e.Amount)
	}
	return total
}

// Remaining returns budget - total, floored at zero.
func Remaining(total, budget decimal.Decimal) decimal.Decimal {
	return decimal.Max(decimal.Zero, budget.Sub(total))
}

// SignedRemaining returns budget - total without clamping.
func SignedRemaining(total, budget decimal.Decimal) decimal.Decimal {
	return budget.Sub(total)
}

// PercentUsed returns total as a percentage of budget.
func PercentUsed(total, budget decimal.Decimal) (decimal.Decimal, error) {
	if budget.IsZero() {
		return decimal.Zero, ErrZeroBudget
	}
	return total.Div(budget).Mul(hundred), nil
}

// StatusFor maps a percentage onto the three budget levels.
func StatusFor(percent decimal.Decimal) model.Status {
	switch {
	case percent.GreaterThanOrEqual(hundred):
		return model.StatusDanger
	case percent.GreaterThanOrEqual(warningThreshold):
		return model.StatusWarning
	default:
		return model.StatusNormal
	}
}

// FeedbackFor returns the signal shown after an expense is added.
func FeedbackFor(s model.Status) model.Feedback {
	switch s {
	case model.StatusDanger:
		return model.FeedbackSad
	case model.StatusNormal:
		return model.FeedbackCelebrate
	default:
		return model.FeedbackNone
	}
}

// Evaluate compares total against budget. A zero budget yields no status.
func Evaluate(total, budget decimal.Decimal) model.BudgetStatus {
	bs := model.BudgetStatus{
		Total:           total,
		Budget:          budget,
		Remaining:       Remaining(total, budget),
		SignedRemaining: SignedRemaining(total, budget),
	}
	pct, err := PercentUsed(total, budget)
	if err != nil {
		return bs
	}
	bs.HasBudget = true
	bs.PercentUsed = pct
	bs.Status = StatusFor(pct)
	bs.Feedback = FeedbackFor(bs.Status)
	return bs
}

// CategoryBreakdown totals records per category, largest first.
// Equal totals keep the order in which their categories first appeared.
func CategoryBreakdown(records []model.Expense) []model.CategoryShare {
	idx := make(map[model.Category]int)
	var shares []model.CategoryShare
	grand := decimal.Zero

	for _, e := range records {
		i, ok := idx[e.Category]
		if !ok {
			i = len(shares)
			idx[e.Category] = i
			shares = append(shares, model.CategoryShare{Category: e.Category, Total: decimal.Zero})
		}
		shares[i].Total = shares[i].Total.Add(e.Amount)
		shares[i].Count++
		grand = grand.Add(e.Amount)
	}

	if grand.IsPositive() {
		for i := range shares {
			shares[i].Percent = shares[i].Total.Div(grand).Mul(hundred)
		}
	}

	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].Total.GreaterThan(shares[j].Total)
	})
	return shares
}

// CategoryBudgetStatus evaluates spent against a category budget.
// A zero budget means unset and carries no status.
func CategoryBudgetStatus(c model.Category, spent, budget decimal.Decimal) model.CategoryBudget {
	cb := model.CategoryBudget{
		Category: c,
		Spent:    spent,
		Budget:   budget,
		Left:     Remaining(spent, budget),
	}
	if !budget.IsPositive() {
		return cb
	}
	cb.PercentUsed, _ = PercentUsed(spent, budget)
	cb.HasBudget = true
	cb.Status = StatusFor(cb.PercentUsed)
	return cb
}

// CategoryBudgets evaluates every category, in display order, against records.
func CategoryBudgets(records []model.Expense, cfg model.BudgetConfig) []model.CategoryBudget {
	spent := make(map[model.Category]decimal.Decimal, len(model.Categories))
	for _, e := range records {
		spent[e.Category] = spent[e.Category].Add(e.Amount)
	}

	out := make([]model.CategoryBudget, 0, len(model.Categories))
	for _, c := range model.Categories {
		out = append(out, CategoryBudgetStatus(c, spent[c], cfg.CategoryBudget(c)))
	}
	return out
}
