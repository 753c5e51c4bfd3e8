package rules

import (
	"fmt"
	"sort"

	"github.com/nivora/nivora/pkg/finance"
	"github.com/nivora/nivora/pkg/notification"
	"github.com/shopspring/decimal"
)

var warnRatio = decimal.NewFromFloat(0.9)

// Budget compares this month's spending per category with its monthly limit. At or over the
// limit is high priority, from 90% of it medium.
func Budget(s Snapshot, _ []notification.Notification) []notification.Candidate {
	spent := finance.Summarize(s.Transactions, finance.InMonth(s.Now)).ByCategory

	categories := make([]string, 0, len(s.Budgets))
	for category := range s.Budgets {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	var candidates []notification.Candidate
	for _, category := range categories {
		limit, ok := s.Budgets.Limit(category)
		if !ok {
			continue
		}
		amount, ok := spent[category]
		if !ok || !amount.IsPositive() {
			continue
		}
		percent := percentOf(amount, limit).Round(0).IntPart()
		payload := notification.BudgetAlert{Category: category, Spent: amount, Limit: limit, Percent: percent}

		switch {
		case amount.GreaterThanOrEqual(limit):
			candidates = append(candidates, notification.Candidate{
				Title:    fmt.Sprintf("%s Budget Exceeded!", category),
				Message:  fmt.Sprintf("You've spent %s of your %s budget (%d%%)", money(amount), money(limit), percent),
				Priority: notification.High,
				Payload:  payload,
			})
		case amount.GreaterThanOrEqual(limit.Mul(warnRatio)):
			candidates = append(candidates, notification.Candidate{
				Title:    fmt.Sprintf("%s Budget Alert", category),
				Message:  fmt.Sprintf("You've used %d%% of your %s budget (%s of %s)", percent, category, money(amount), money(limit)),
				Priority: notification.Medium,
				Payload:  payload,
			})
		}
	}
	return candidates
}
