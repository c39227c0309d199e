package pipeline

import (
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/kharcha/internal/model"
)

// Project multiplies a daily saving out to a week, a 30-day month and a
// 365-day year. It reports false for non-positive amounts.
func Project(daily decimal.Decimal) (model.SavingsProjection, bool) {
	if !daily.IsPositive() {
		return model.SavingsProjection{}, false
	}
	return model.SavingsProjection{
		Daily:   daily,
		Weekly:  daily.Mul(decimal.NewFromInt(7)),
		Monthly: daily.Mul(decimal.NewFromInt(30)),
		Yearly:  daily.Mul(decimal.NewFromInt(365)),
	}, true
}
