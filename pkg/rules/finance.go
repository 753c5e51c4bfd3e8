package rules

import (
	"fmt"
	"sort"

	"github.com/nivora/nivora/pkg/finance"
	"github.com/nivora/nivora/pkg/notification"
	"github.com/shopspring/decimal"
)

const billDueWindow = 3

var (
	spendingIncreaseThreshold = decimal.NewFromInt(20)
	categoryShareThreshold    = decimal.NewFromInt(40)
)

// BillsDue warns about recurring transactions whose next date is 0 to 3 days away.
func BillsDue(s Snapshot, _ []notification.Notification) []notification.Candidate {
	var candidates []notification.Candidate
	for _, t := range s.Transactions {
		if !t.Valid() || !t.IsRecurring() || t.Recurring.NextDate == nil {
			continue
		}
		days, ok := daysLeft(s.Now, *t.Recurring.NextDate)
		if !ok || days > billDueWindow {
			continue
		}
		priority := notification.Medium
		if days == 0 {
			priority = notification.High
		}
		candidates = append(candidates, notification.Candidate{
			Title:    "Bill Due Soon",
			Message:  fmt.Sprintf("%s is due in %d day(s)", t.Label(), days),
			Priority: priority,
			Payload: notification.BillDue{
				TransactionId: t.Id,
				Label:         t.Label(),
				Amount:        t.Amount.Decimal,
				DueDate:       *t.Recurring.NextDate,
				DaysUntilDue:  days,
			},
		})
	}
	return candidates
}

// LowBalance fires when the overall balance drops below the configured threshold. A user with
// no transactions yet has no balance to warn about.
func LowBalance(s Snapshot, _ []notification.Notification) []notification.Candidate {
	summary := finance.Summarize(s.Transactions, nil)
	if summary.Count == 0 || !summary.Balance.LessThan(s.LowBalanceThreshold) {
		return nil
	}
	return []notification.Candidate{{
		Title:    "Low Balance Alert",
		Message:  fmt.Sprintf("Your balance is ₹%s. Consider reviewing your expenses.", summary.Balance.StringFixed(2)),
		Priority: notification.High,
		Payload:  notification.LowBalance{Balance: summary.Balance, Threshold: s.LowBalanceThreshold},
	}}
}

// SpendingTrend compares this calendar month's expenses with the previous month's, and flags a
// single category taking more than 40% of this month's spending.
func SpendingTrend(s Snapshot, _ []notification.Notification) []notification.Candidate {
	current := finance.Summarize(s.Transactions, finance.InMonth(s.Now))
	previous := finance.Summarize(s.Transactions, finance.InMonth(startOfMonth(s.Now).AddDate(0, -1, 0)))

	var candidates []notification.Candidate
	if previous.TotalExpenses.IsPositive() {
		increase := percentOf(current.TotalExpenses.Sub(previous.TotalExpenses), previous.TotalExpenses)
		if increase.GreaterThan(spendingIncreaseThreshold) {
			candidates = append(candidates, notification.Candidate{
				Title:    "⚠️ Spending Alert",
				Message:  fmt.Sprintf("Your spending is up %s%% compared to last month", increase.StringFixed(0)),
				Priority: notification.Medium,
				Payload: notification.SpendingIncrease{
					CurrentMonth:    current.TotalExpenses,
					PreviousMonth:   previous.TotalExpenses,
					IncreasePercent: increase.Round(0).IntPart(),
				},
			})
		}
	}

	if category, amount, ok := topCategory(current.ByCategory); ok && current.TotalExpenses.IsPositive() {
		share := percentOf(amount, current.TotalExpenses)
		if share.GreaterThan(categoryShareThreshold) {
			candidates = append(candidates, notification.Candidate{
				Title:    "High Category Spending",
				Message:  fmt.Sprintf("%s accounts for %s%% of your spending", category, share.StringFixed(0)),
				Priority: notification.Medium,
				Payload: notification.CategoryConcentration{
					Category:     category,
					Amount:       amount,
					SharePercent: share.Round(0).IntPart(),
				},
			})
		}
	}
	return candidates
}

// topCategory picks the largest category, breaking ties by name so passes are deterministic.
func topCategory(byCategory map[string]decimal.Decimal) (string, decimal.Decimal, bool) {
	names := make([]string, 0, len(byCategory))
	for name := range byCategory {
		names = append(names, name)
	}
	if len(names) == 0 {
		return "", decimal.Zero, false
	}
	sort.Strings(names)
	top := names[0]
	for _, name := range names[1:] {
		if byCategory[name].GreaterThan(byCategory[top]) {
			top = name
		}
	}
	return top, byCategory[top], true
}
