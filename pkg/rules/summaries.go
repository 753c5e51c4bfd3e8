package rules

import (
	"fmt"
	"time"

	"github.com/nivora/nivora/pkg/finance"
	"github.com/nivora/nivora/pkg/notification"
	"github.com/nivora/nivora/pkg/task"
)

// WeeklySummary runs on Mondays and digests the 7 days before now. The period is the ISO week,
// so the dispatcher lets one digest through per week.
func WeeklySummary(s Snapshot, _ []notification.Notification) []notification.Candidate {
	if s.Now.Weekday() != time.Monday {
		return nil
	}
	from := s.Now.Add(-7 * 24 * time.Hour)
	year, week := s.Now.ISOWeek()

	digest := digestOf(s, finance.Since(from), func(t task.Task) bool {
		return !t.CompletedAt.Before(from)
	})
	return []notification.Candidate{{
		Title: "📊 Your Weekly Summary",
		Message: fmt.Sprintf("Income: %s | Expenses: %s | Tasks: %d completed",
			money(digest.Income), money(digest.Expenses), digest.TasksCompleted),
		Priority: notification.Low,
		Payload:  notification.WeeklySummary{Period: fmt.Sprintf("%d-W%02d", year, week), Digest: digest},
	}}
}

// MonthlySummary runs on the first day of a month and digests the calendar month that just ended.
func MonthlySummary(s Snapshot, _ []notification.Notification) []notification.Candidate {
	if s.Now.Day() != 1 {
		return nil
	}
	month := startOfMonth(s.Now).AddDate(0, -1, 0)
	year, m, _ := month.Date()

	digest := digestOf(s, finance.InMonth(month), func(t task.Task) bool {
		y, mm, _ := t.CompletedAt.In(s.Now.Location()).Date()
		return y == year && mm == m
	})
	savingsRate := percentOf(digest.NetSavings, digest.Income).Round(1)
	return []notification.Candidate{{
		Title: "📈 Your Monthly Summary",
		Message: fmt.Sprintf("Total Income: %s | Total Expenses: %s | Savings rate: %s%%",
			money(digest.Income), money(digest.Expenses), savingsRate.StringFixed(1)),
		Priority: notification.Low,
		Payload: notification.MonthlySummary{
			Period:      month.Format("2006-01"),
			SavingsRate: savingsRate,
			Digest:      digest,
		},
	}}
}

func digestOf(s Snapshot, inPeriod func(finance.Transaction) bool, completedInPeriod func(task.Task) bool) notification.Digest {
	summary := finance.Summarize(s.Transactions, inPeriod)
	digest := notification.Digest{
		Income:     summary.TotalIncome,
		Expenses:   summary.TotalExpenses,
		NetSavings: summary.Balance,
	}
	for _, t := range s.Tasks {
		if t.IsCompleted() && t.CompletedAt != nil && completedInPeriod(t) {
			digest.TasksCompleted++
		}
	}
	for _, g := range s.Goals {
		switch {
		case g.IsCompleted():
			digest.GoalsCompleted++
		case g.IsActive():
			digest.ActiveGoals++
		}
	}
	return digest
}
