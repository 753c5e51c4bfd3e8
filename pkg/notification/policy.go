package notification

import "time"

// Cooldown decides when an alert with an already emitted identity may be emitted again.
// Forever suppresses it permanently; otherwise it is suppressed for Window after the last emission.
type Cooldown struct {
	Window  time.Duration
	Forever bool
}

func Window(d time.Duration) Cooldown {
	return Cooldown{Window: d}
}

var Forever = Cooldown{Forever: true}

// Suppresses reports whether an alert last emitted at emittedAt is still cooling down at now.
func (c Cooldown) Suppresses(emittedAt, now time.Time) bool {
	if c.Forever {
		return true
	}
	return now.Sub(emittedAt) < c.Window
}

type Policy map[Kind]Cooldown

// DefaultPolicy keeps celebrations and digests once-ever, trend alerts for a week and
// everything else for window.
func DefaultPolicy(window time.Duration) Policy {
	return Policy{
		KindAchievement:      Forever,
		KindGoalMilestone:    Forever,
		KindGoalCompleted:    Forever,
		KindWeeklySummary:    Forever,
		KindMonthlySummary:   Forever,
		KindSpendingIncrease: Window(7 * 24 * time.Hour),
		KindCategoryAlert:    Window(7 * 24 * time.Hour),
		KindBudget:           Window(window),
		KindGoal:             Window(window),
		KindTask:             Window(window),
		KindBill:             Window(window),
		KindLowBalance:       Window(window),
		KindOverdueTasks:     Window(window),
	}
}

// For returns the cooldown of kind. Kinds without an entry are never suppressed.
func (p Policy) For(kind Kind) Cooldown {
	return p[kind]
}
