package budget

import "github.com/shopspring/decimal"

// Limits maps an expense category to its monthly spending limit.
type Limits map[string]decimal.Decimal

func (l Limits) Limit(category string) (decimal.Decimal, bool) {
	limit, ok := l[category]
	if !ok || !limit.IsPositive() {
		return decimal.Zero, false
	}
	return limit, true
}
