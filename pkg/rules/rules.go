// Package rules turns a snapshot of the user's data into candidate alerts. Every rule is a
// pure function of the snapshot and the current notification log; deduplication across
// passes happens later, in the notification dispatcher.
package rules

import (
	"fmt"
	"time"

	"github.com/nivora/nivora/internal/utils"
	"github.com/nivora/nivora/pkg/budget"
	"github.com/nivora/nivora/pkg/finance"
	"github.com/nivora/nivora/pkg/goal"
	"github.com/nivora/nivora/pkg/notification"
	"github.com/nivora/nivora/pkg/task"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// Snapshot is the read of all domain collections taken when an evaluation pass begins.
type Snapshot struct {
	Now                 time.Time
	Transactions        []finance.Transaction
	Budgets             budget.Limits
	Goals               []goal.Goal
	Tasks               []task.Task
	LowBalanceThreshold decimal.Decimal
}

type Evaluator func(s Snapshot, existing []notification.Notification) []notification.Candidate

type Rule struct {
	Name     string
	Evaluate Evaluator
}

func Default() []Rule {
	return []Rule{
		{Name: "budget", Evaluate: Budget},
		{Name: "goal-deadline", Evaluate: GoalDeadlines},
		{Name: "task-due", Evaluate: TasksDue},
		{Name: "achievement", Evaluate: Achievements},
		{Name: "goal-milestone", Evaluate: GoalMilestones},
		{Name: "bill-due", Evaluate: BillsDue},
		{Name: "low-balance", Evaluate: LowBalance},
		{Name: "spending-trend", Evaluate: SpendingTrend},
		{Name: "overdue-tasks", Evaluate: OverdueTasks},
		{Name: "weekly-summary", Evaluate: WeeklySummary},
		{Name: "monthly-summary", Evaluate: MonthlySummary},
	}
}

// EvaluateAll runs every rule in order. A rule that panics is logged and contributes nothing,
// the rest of the pass still runs.
func EvaluateAll(rules []Rule, s Snapshot, existing []notification.Notification) []notification.Candidate {
	var candidates []notification.Candidate
	for _, rule := range rules {
		produced, err := evaluateSafely(rule, s, existing)
		if err != nil {
			log.Errorf("Rule %s failed: %v", rule.Name, err)
			continue
		}
		if len(produced) > 0 {
			log.Debugf("Rule %s produced %d candidate(s)", rule.Name, len(produced))
		}
		candidates = append(candidates, produced...)
	}
	return candidates
}

func evaluateSafely(rule Rule, s Snapshot, existing []notification.Notification) (produced []notification.Candidate, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return rule.Evaluate(s, existing), nil
}

// alreadyLogged reports whether the log holds an alert with the same identity as payload.
func alreadyLogged(existing []notification.Notification, payload notification.Payload) bool {
	for _, n := range existing {
		if n.Payload != nil && n.Payload.Kind() == payload.Kind() && n.Payload.Subject() == payload.Subject() {
			return true
		}
	}
	return false
}

// daysLeft counts whole days until due the way a countdown is shown. ok is false once the
// calendar date of due has passed, those records belong to the overdue rule.
func daysLeft(now, due time.Time) (int, bool) {
	if utils.StartOfDay(due.In(now.Location())).Before(utils.StartOfDay(now)) {
		return 0, false
	}
	days := utils.DaysUntil(now, due)
	if days < 0 {
		return 0, false
	}
	return days, true
}

func money(d decimal.Decimal) string {
	return "₹" + d.StringFixed(0)
}

func percentOf(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(decimal.NewFromInt(100))
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func startOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}
