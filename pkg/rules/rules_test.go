package rules

import (
	"fmt"
	"testing"
	"time"

	"github.com/nivora/nivora/pkg/budget"
	"github.com/nivora/nivora/pkg/finance"
	"github.com/nivora/nivora/pkg/goal"
	"github.com/nivora/nivora/pkg/notification"
	"github.com/nivora/nivora/pkg/task"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Wednesday
var now = time.Date(2025, time.March, 12, 10, 0, 0, 0, time.UTC)

func expense(category string, amount float64, date time.Time) finance.Transaction {
	return finance.Transaction{
		Id:       fmt.Sprintf("%s-%v-%d", category, amount, date.Unix()),
		Type:     finance.Expense,
		Amount:   decimal.NewNullDecimal(decimal.NewFromFloat(amount)),
		Category: category,
		Date:     date,
	}
}

func income(amount float64, date time.Time) finance.Transaction {
	return finance.Transaction{
		Id:       fmt.Sprintf("income-%v-%d", amount, date.Unix()),
		Type:     finance.Income,
		Amount:   decimal.NewNullDecimal(decimal.NewFromFloat(amount)),
		Category: "Salary",
		Date:     date,
	}
}

func snapshot() Snapshot {
	return Snapshot{Now: now, Budgets: budget.Limits{}, LowBalanceThreshold: decimal.NewFromInt(1000)}
}

func ofKind(candidates []notification.Candidate, kind notification.Kind) []notification.Candidate {
	var filtered []notification.Candidate
	for _, c := range candidates {
		if c.Kind() == kind {
			filtered = append(filtered, c)
		}
	}
	return filtered
}

func logOf(candidates []notification.Candidate) []notification.Notification {
	log := make([]notification.Notification, 0, len(candidates))
	for i, c := range candidates {
		log = append(log, notification.Notification{Id: fmt.Sprint(i), Type: c.Kind(), Title: c.Title, Payload: c.Payload})
	}
	return log
}

func TestBudget(t *testing.T) {
	t.Run("should raise one high alert for an exceeded food budget", func(t *testing.T) {
		// given
		s := snapshot()
		s.Transactions = []finance.Transaction{expense("Food", 600, now.Add(-time.Hour))}
		s.Budgets = budget.Limits{"Food": decimal.NewFromInt(500)}

		// when
		candidates := ofKind(EvaluateAll(Default(), s, nil), notification.KindBudget)

		// then
		require.Len(t, candidates, 1)
		assert.Equal(t, notification.High, candidates[0].Priority)
		assert.Contains(t, candidates[0].Message, "600")
		assert.Contains(t, candidates[0].Message, "500")
	})

	tests := []struct {
		name     string
		spent    float64
		expected notification.Priority
	}{
		{"well below the limit", 300, ""},
		{"just below 90%", 449.99, ""},
		{"exactly 90%", 450, notification.Medium},
		{"just below the limit", 499.99, notification.Medium},
		{"exactly the limit", 500, notification.High},
		{"over the limit", 800, notification.High},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// given
			s := snapshot()
			s.Transactions = []finance.Transaction{expense("Food", tt.spent, now)}
			s.Budgets = budget.Limits{"Food": decimal.NewFromInt(500)}

			// when
			candidates := Budget(s, nil)

			// then
			if tt.expected == "" {
				assert.Empty(t, candidates)
				return
			}
			require.Len(t, candidates, 1)
			assert.Equal(t, tt.expected, candidates[0].Priority)
		})
	}

	t.Run("should only count expenses of the current month", func(t *testing.T) {
		s := snapshot()
		s.Transactions = []finance.Transaction{
			expense("Food", 400, now.AddDate(0, -1, 0)),
			expense("Food", 100, now),
			income(5000, now),
		}
		s.Budgets = budget.Limits{"Food": decimal.NewFromInt(500)}

		assert.Empty(t, Budget(s, nil))
	})

	t.Run("should skip malformed records and categories without limit", func(t *testing.T) {
		s := snapshot()
		s.Transactions = []finance.Transaction{
			{Id: "no-amount", Type: finance.Expense, Category: "Food", Date: now},
			{Id: "no-date", Type: finance.Expense, Category: "Food", Amount: decimal.NewNullDecimal(decimal.NewFromInt(900))},
			expense("Travel", 900, now),
		}
		s.Budgets = budget.Limits{"Food": decimal.NewFromInt(500), "Rent": decimal.Zero}

		assert.Empty(t, Budget(s, nil))
	})
}

func TestGoalDeadlines(t *testing.T) {
	newGoal := func(deadline time.Time) goal.Goal {
		return goal.Goal{
			Id:            "g1",
			Title:         "Emergency fund",
			TargetAmount:  decimal.NewFromInt(1000),
			CurrentAmount: decimal.NewFromInt(500),
			Deadline:      &deadline,
			Status:        goal.Active,
		}
	}

	t.Run("should raise one medium alert five days ahead", func(t *testing.T) {
		// given
		s := snapshot()
		s.Goals = []goal.Goal{newGoal(now.AddDate(0, 0, 5))}

		// when
		candidates := ofKind(EvaluateAll(Default(), s, nil), notification.KindGoal)

		// then
		require.Len(t, candidates, 1)
		assert.Equal(t, notification.Medium, candidates[0].Priority)
		payload, ok := candidates[0].Payload.(notification.GoalDeadline)
		require.True(t, ok)
		assert.Equal(t, 5, payload.DaysLeft)
		assert.Equal(t, int64(50), payload.Progress)
	})

	t.Run("should round partial days up", func(t *testing.T) {
		s := snapshot()
		s.Goals = []goal.Goal{newGoal(time.Date(2025, time.March, 17, 0, 0, 0, 0, time.UTC))}

		candidates := GoalDeadlines(s, nil)

		require.Len(t, candidates, 1)
		assert.Equal(t, 5, candidates[0].Payload.(notification.GoalDeadline).DaysLeft)
	})

	t.Run("should be high priority on the deadline day", func(t *testing.T) {
		s := snapshot()
		s.Goals = []goal.Goal{newGoal(now)}

		candidates := GoalDeadlines(s, nil)

		require.Len(t, candidates, 1)
		assert.Equal(t, notification.High, candidates[0].Priority)
	})

	t.Run("should ignore far, past and inactive goals", func(t *testing.T) {
		completed := newGoal(now.AddDate(0, 0, 2))
		completed.Status = goal.Completed
		s := snapshot()
		s.Goals = []goal.Goal{newGoal(now.AddDate(0, 0, 8)), newGoal(now.AddDate(0, 0, -2)), completed, {Id: "no-deadline", Status: goal.Active}}

		assert.Empty(t, GoalDeadlines(s, nil))
	})
}

func TestTasksDue(t *testing.T) {
	due := func(id string, d time.Time, status task.Status) task.Task {
		return task.Task{Id: id, Title: id, DueDate: &d, Status: status, Completed: status == task.Completed}
	}

	// given
	s := snapshot()
	s.Tasks = []task.Task{
		due("today", now.Add(-4*time.Hour), task.Pending),
		due("in-3-days", now.AddDate(0, 0, 3), task.InProgress),
		due("in-4-days", now.AddDate(0, 0, 4), task.Pending),
		due("done", now.AddDate(0, 0, 1), task.Completed),
		due("yesterday", now.AddDate(0, 0, -1), task.Pending),
	}

	// when
	candidates := TasksDue(s, nil)

	// then
	require.Len(t, candidates, 2)
	assert.Equal(t, "today", candidates[0].Payload.Subject())
	assert.Equal(t, notification.High, candidates[0].Priority)
	assert.Equal(t, "in-3-days", candidates[1].Payload.Subject())
	assert.Equal(t, notification.Medium, candidates[1].Priority)
}

func TestOverdueTasks(t *testing.T) {
	t.Run("should count open tasks due before today", func(t *testing.T) {
		// given
		yesterday := now.AddDate(0, 0, -1)
		earlierToday := now.Add(-2 * time.Hour)
		s := snapshot()
		s.Tasks = []task.Task{
			{Id: "t1", Title: "Pay rent", DueDate: &yesterday, Status: task.Pending},
			{Id: "t2", Title: "Done", DueDate: &yesterday, Status: task.Completed, Completed: true},
			{Id: "t3", Title: "Due today", DueDate: &earlierToday, Status: task.Pending},
		}

		// when
		candidates := OverdueTasks(s, nil)

		// then
		require.Len(t, candidates, 1)
		payload := candidates[0].Payload.(notification.OverdueTasks)
		assert.Equal(t, 1, payload.Count)
		assert.Equal(t, []string{"t1"}, payload.TaskIds)
		assert.Equal(t, "You have 1 overdue task", candidates[0].Message)
	})

	t.Run("should stay quiet without overdue tasks", func(t *testing.T) {
		assert.Empty(t, OverdueTasks(snapshot(), nil))
	})
}

func TestAchievements(t *testing.T) {
	// given
	s := snapshot()
	s.Goals = []goal.Goal{{Id: "g1", Title: "Car", Status: goal.Active, TargetAmount: decimal.NewFromInt(10)}}
	for i := 0; i < 20; i++ {
		s.Transactions = append(s.Transactions, income(1000, now.AddDate(0, 0, -i)))
	}

	// when
	first := Achievements(s, nil)
	second := Achievements(s, logOf(first))

	// then
	ids := make([]string, 0, len(first))
	for _, c := range first {
		ids = append(ids, c.Payload.Subject())
	}
	assert.Equal(t, []string{"first-goal", "saver", "tracker"}, ids)
	assert.Empty(t, second)
}

func TestAchievements_CompletionCounts(t *testing.T) {
	s := snapshot()
	for i := 0; i < 5; i++ {
		s.Goals = append(s.Goals, goal.Goal{Id: fmt.Sprint("g", i), Status: goal.Completed})
	}
	for i := 0; i < 20; i++ {
		s.Tasks = append(s.Tasks, task.Task{Id: fmt.Sprint("t", i), Status: task.Completed, Completed: true})
	}

	candidates := Achievements(s, nil)

	ids := make([]string, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.Payload.Subject())
	}
	assert.Equal(t, []string{"first-goal", "achiever", "productive", "superstar"}, ids)
}

func TestGoalMilestones(t *testing.T) {
	t.Run("should celebrate every milestone reached", func(t *testing.T) {
		// given
		s := snapshot()
		s.Goals = []goal.Goal{{Id: "g1", Title: "Car", TargetAmount: decimal.NewFromInt(1000), CurrentAmount: decimal.NewFromInt(745), Status: goal.Active}}

		// when
		candidates := GoalMilestones(s, nil)

		// then
		require.Len(t, candidates, 3)
		assert.Equal(t, "g1/25", candidates[0].Payload.Subject())
		assert.Equal(t, "g1/75", candidates[2].Payload.Subject())
	})

	t.Run("should celebrate completion once", func(t *testing.T) {
		s := snapshot()
		s.Goals = []goal.Goal{{Id: "g1", Title: "Car", TargetAmount: decimal.NewFromInt(1000), CurrentAmount: decimal.NewFromInt(1000), Status: goal.Completed}}

		first := GoalMilestones(s, nil)
		second := GoalMilestones(s, logOf(first))

		require.Len(t, first, 5)
		assert.Len(t, ofKind(first, notification.KindGoalCompleted), 1)
		assert.Empty(t, second)
	})

	t.Run("should ignore goals without target", func(t *testing.T) {
		s := snapshot()
		s.Goals = []goal.Goal{{Id: "g1", Title: "Someday", Status: goal.Active}}

		assert.Empty(t, GoalMilestones(s, nil))
	})
}

func TestBillsDue(t *testing.T) {
	recurring := func(id string, next time.Time) finance.Transaction {
		tx := expense("Utilities", 120, now.AddDate(0, -1, 0))
		tx.Id = id
		tx.Description = "Electricity " + id
		tx.Recurring = &finance.Recurring{IsRecurring: true, Frequency: finance.Monthly, NextDate: &next}
		return tx
	}

	// given
	s := snapshot()
	s.Transactions = []finance.Transaction{
		recurring("soon", now.AddDate(0, 0, 2)),
		recurring("today", now.Add(-time.Hour)),
		recurring("later", now.AddDate(0, 0, 5)),
		recurring("past", now.AddDate(0, 0, -3)),
		expense("Food", 10, now),
	}

	// when
	candidates := BillsDue(s, nil)

	// then
	require.Len(t, candidates, 2)
	assert.Equal(t, "Electricity soon is due in 2 day(s)", candidates[0].Message)
	assert.Equal(t, notification.Medium, candidates[0].Priority)
	assert.Equal(t, notification.High, candidates[1].Priority)
}

func TestLowBalance(t *testing.T) {
	tests := []struct {
		name         string
		transactions []finance.Transaction
		fires        bool
	}{
		{"below threshold", []finance.Transaction{income(1400, now), expense("Rent", 1000, now)}, true},
		{"at threshold", []finance.Transaction{income(1000, now)}, false},
		{"no transactions yet", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := snapshot()
			s.Transactions = tt.transactions

			candidates := LowBalance(s, nil)

			if !tt.fires {
				assert.Empty(t, candidates)
				return
			}
			require.Len(t, candidates, 1)
			assert.Equal(t, "Your balance is ₹400.00. Consider reviewing your expenses.", candidates[0].Message)
		})
	}
}

func TestSpendingTrend(t *testing.T) {
	lastMonth := time.Date(2025, time.February, 20, 12, 0, 0, 0, time.UTC)

	t.Run("should flag an increase over 20 percent", func(t *testing.T) {
		s := snapshot()
		s.Transactions = []finance.Transaction{
			expense("Food", 1000, lastMonth),
			expense("Food", 700, now), expense("Rent", 600, now),
		}

		candidates := ofKind(SpendingTrend(s, nil), notification.KindSpendingIncrease)

		require.Len(t, candidates, 1)
		assert.Equal(t, "Your spending is up 30% compared to last month", candidates[0].Message)
	})

	t.Run("should not flag exactly 20 percent or an empty previous month", func(t *testing.T) {
		s := snapshot()
		s.Transactions = []finance.Transaction{expense("Food", 1000, lastMonth), expense("Food", 1200, now)}
		assert.Empty(t, ofKind(SpendingTrend(s, nil), notification.KindSpendingIncrease))

		s.Transactions = []finance.Transaction{expense("Food", 1200, now)}
		assert.Empty(t, ofKind(SpendingTrend(s, nil), notification.KindSpendingIncrease))
	})

	t.Run("should flag a category above 40 percent of the month", func(t *testing.T) {
		s := snapshot()
		s.Transactions = []finance.Transaction{
			expense("Food", 500, now), expense("Rent", 400, now), expense("Fun", 100, now),
		}

		candidates := ofKind(SpendingTrend(s, nil), notification.KindCategoryAlert)

		require.Len(t, candidates, 1)
		assert.Equal(t, "Food accounts for 50% of your spending", candidates[0].Message)
	})

	t.Run("should not flag a balanced month", func(t *testing.T) {
		s := snapshot()
		s.Transactions = []finance.Transaction{
			expense("Food", 400, now), expense("Rent", 400, now), expense("Fun", 200, now),
		}

		assert.Empty(t, ofKind(SpendingTrend(s, nil), notification.KindCategoryAlert))
	})
}

func TestWeeklySummary(t *testing.T) {
	monday := time.Date(2025, time.March, 10, 8, 0, 0, 0, time.UTC)
	completedAt := monday.AddDate(0, 0, -2)
	longAgo := monday.AddDate(0, 0, -20)

	t.Run("should digest the last 7 days on monday", func(t *testing.T) {
		// given
		s := snapshot()
		s.Now = monday
		s.Transactions = []finance.Transaction{
			income(2000, monday.AddDate(0, 0, -1)),
			expense("Food", 300, monday.AddDate(0, 0, -3)),
			expense("Food", 999, monday.AddDate(0, 0, -10)),
		}
		s.Tasks = []task.Task{
			{Id: "t1", Status: task.Completed, Completed: true, CompletedAt: &completedAt},
			{Id: "t2", Status: task.Completed, Completed: true, CompletedAt: &longAgo},
		}
		s.Goals = []goal.Goal{{Id: "g1", Status: goal.Active}, {Id: "g2", Status: goal.Completed}}

		// when
		candidates := WeeklySummary(s, nil)

		// then
		require.Len(t, candidates, 1)
		payload := candidates[0].Payload.(notification.WeeklySummary)
		assert.Equal(t, "2025-W11", payload.Period)
		assert.True(t, payload.Income.Equal(decimal.NewFromInt(2000)))
		assert.True(t, payload.Expenses.Equal(decimal.NewFromInt(300)))
		assert.True(t, payload.NetSavings.Equal(decimal.NewFromInt(1700)))
		assert.Equal(t, 1, payload.TasksCompleted)
		assert.Equal(t, 1, payload.ActiveGoals)
		assert.Equal(t, 1, payload.GoalsCompleted)
		assert.Equal(t, "Income: ₹2000 | Expenses: ₹300 | Tasks: 1 completed", candidates[0].Message)
	})

	t.Run("should not run on other days", func(t *testing.T) {
		assert.Empty(t, WeeklySummary(snapshot(), nil))
	})
}

func TestMonthlySummary(t *testing.T) {
	firstOfApril := time.Date(2025, time.April, 1, 9, 0, 0, 0, time.UTC)
	completedInMarch := time.Date(2025, time.March, 30, 9, 0, 0, 0, time.UTC)

	// given
	s := snapshot()
	s.Now = firstOfApril
	s.Transactions = []finance.Transaction{
		income(4000, time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC)),
		expense("Rent", 3000, time.Date(2025, time.March, 5, 9, 0, 0, 0, time.UTC)),
		expense("Food", 50, firstOfApril),
	}
	s.Tasks = []task.Task{{Id: "t1", Status: task.Completed, Completed: true, CompletedAt: &completedInMarch}}

	// when
	candidates := MonthlySummary(s, nil)

	// then
	require.Len(t, candidates, 1)
	payload := candidates[0].Payload.(notification.MonthlySummary)
	assert.Equal(t, "2025-03", payload.Period)
	assert.True(t, payload.SavingsRate.Equal(decimal.NewFromInt(25)))
	assert.Equal(t, 1, payload.TasksCompleted)
	assert.Empty(t, MonthlySummary(snapshot(), nil))
}

func TestEvaluateAll_SurvivesPanickingRule(t *testing.T) {
	rules := []Rule{
		{Name: "broken", Evaluate: func(Snapshot, []notification.Notification) []notification.Candidate {
			panic("boom")
		}},
		{Name: "low-balance", Evaluate: LowBalance},
	}
	s := snapshot()
	s.Transactions = []finance.Transaction{income(10, now)}

	candidates := EvaluateAll(rules, s, nil)

	assert.Len(t, candidates, 1)
}
