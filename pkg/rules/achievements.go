package rules

import (
	"fmt"

	"github.com/nivora/nivora/pkg/finance"
	"github.com/nivora/nivora/pkg/notification"
	"github.com/shopspring/decimal"
)

type totals struct {
	goals          int
	completedGoals int
	completedTasks int
	transactions   int
	balance        decimal.Decimal
}

func totalsOf(s Snapshot) totals {
	summary := finance.Summarize(s.Transactions, nil)
	t := totals{goals: len(s.Goals), transactions: summary.Count, balance: summary.Balance}
	for _, g := range s.Goals {
		if g.IsCompleted() {
			t.completedGoals++
		}
	}
	for _, tk := range s.Tasks {
		if tk.Completed {
			t.completedTasks++
		}
	}
	return t
}

type achievement struct {
	id       string
	message  string
	unlocked func(totals) bool
}

var achievements = []achievement{
	{"first-goal", "Created your first goal!", func(t totals) bool { return t.goals > 0 }},
	{"saver", "Saved over ₹10,000!", func(t totals) bool { return t.balance.GreaterThan(decimal.NewFromInt(10000)) }},
	{"achiever", "Completed 3 goals!", func(t totals) bool { return t.completedGoals >= 3 }},
	{"productive", "Completed 10 tasks!", func(t totals) bool { return t.completedTasks >= 10 }},
	{"tracker", "Tracked 20 transactions!", func(t totals) bool { return t.transactions >= 20 }},
	{"superstar", "Became a Superstar!", func(t totals) bool { return t.completedGoals >= 5 && t.completedTasks >= 20 }},
}

// Achievements unlocks each achievement at most once; those already in the log are skipped here
// and the dispatcher's ledger keeps them from repeating after the log is cleared.
func Achievements(s Snapshot, existing []notification.Notification) []notification.Candidate {
	t := totalsOf(s)
	var candidates []notification.Candidate
	for _, a := range achievements {
		if !a.unlocked(t) {
			continue
		}
		payload := notification.Achievement{AchievementId: a.id}
		if alreadyLogged(existing, payload) {
			continue
		}
		candidates = append(candidates, notification.Candidate{
			Title:    "🏆 Achievement Unlocked!",
			Message:  a.message,
			Priority: notification.Low,
			Payload:  payload,
		})
	}
	return candidates
}

var milestones = []int{25, 50, 75, 100}

// GoalMilestones celebrates each of 25/50/75/100% progress once per goal, and completion once.
func GoalMilestones(s Snapshot, existing []notification.Notification) []notification.Candidate {
	var candidates []notification.Candidate
	for _, g := range s.Goals {
		progress := g.ProgressPercent()
		for _, milestone := range milestones {
			if progress < int64(milestone) {
				break
			}
			payload := notification.GoalMilestone{GoalId: g.Id, Title: g.Title, Milestone: milestone, Progress: progress}
			if alreadyLogged(existing, payload) {
				continue
			}
			candidates = append(candidates, notification.Candidate{
				Title:    fmt.Sprintf("🎉 Goal Milestone: %d%%", milestone),
				Message:  fmt.Sprintf("You've reached %d%% of %q!", milestone, g.Title),
				Priority: notification.Low,
				Payload:  payload,
			})
		}
		completed := notification.GoalCompleted{GoalId: g.Id, Title: g.Title}
		if g.IsCompleted() && !alreadyLogged(existing, completed) {
			candidates = append(candidates, notification.Candidate{
				Title:    "🏆 Goal Completed!",
				Message:  fmt.Sprintf("Congratulations! You've completed %q!", g.Title),
				Priority: notification.Medium,
				Payload:  completed,
			})
		}
	}
	return candidates
}
