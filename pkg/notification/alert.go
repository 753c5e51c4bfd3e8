package notification

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindBudget           Kind = "budget"
	KindGoal             Kind = "goal"
	KindTask             Kind = "task"
	KindGoalMilestone    Kind = "goal-milestone"
	KindGoalCompleted    Kind = "goal-completed"
	KindBill             Kind = "bill"
	KindLowBalance       Kind = "low-balance"
	KindSpendingIncrease Kind = "spending-increase"
	KindCategoryAlert    Kind = "category-alert"
	KindOverdueTasks     Kind = "overdue-tasks"
	KindWeeklySummary    Kind = "weekly-summary"
	KindMonthlySummary   Kind = "monthly-summary"
	KindAchievement      Kind = "achievement"
)

var Kinds = []Kind{
	KindBudget, KindGoal, KindTask, KindGoalMilestone, KindGoalCompleted, KindBill, KindLowBalance,
	KindSpendingIncrease, KindCategoryAlert, KindOverdueTasks, KindWeeklySummary, KindMonthlySummary,
	KindAchievement,
}

type Priority string

const (
	Low    Priority = "low"
	Medium Priority = "medium"
	High   Priority = "high"
)

// Payload is the kind-specific part of an alert. Subject names the entity the alert is about
// and, together with the kind, is the identity used for deduplication.
type Payload interface {
	Kind() Kind
	Subject() string
}

type BudgetAlert struct {
	Category string          `json:"category"`
	Spent    decimal.Decimal `json:"spent"`
	Limit    decimal.Decimal `json:"limit"`
	Percent  int64           `json:"percent"`
}

type GoalDeadline struct {
	GoalId   string `json:"goalId"`
	Title    string `json:"title"`
	DaysLeft int    `json:"daysLeft"`
	Progress int64  `json:"progress"`
}

type TaskDue struct {
	TaskId   string `json:"taskId"`
	Title    string `json:"title"`
	DaysLeft int    `json:"daysLeft"`
}

type GoalMilestone struct {
	GoalId    string `json:"goalId"`
	Title     string `json:"title"`
	Milestone int    `json:"milestone"`
	Progress  int64  `json:"progress"`
}

type GoalCompleted struct {
	GoalId string `json:"goalId"`
	Title  string `json:"title"`
}

type BillDue struct {
	TransactionId string          `json:"transactionId"`
	Label         string          `json:"label"`
	Amount        decimal.Decimal `json:"amount"`
	DueDate       time.Time       `json:"dueDate"`
	DaysUntilDue  int             `json:"daysUntilDue"`
}

type LowBalance struct {
	Balance   decimal.Decimal `json:"balance"`
	Threshold decimal.Decimal `json:"threshold"`
}

type SpendingIncrease struct {
	CurrentMonth    decimal.Decimal `json:"currentMonth"`
	PreviousMonth   decimal.Decimal `json:"previousMonth"`
	IncreasePercent int64           `json:"increasePercent"`
}

type CategoryConcentration struct {
	Category     string          `json:"category"`
	Amount       decimal.Decimal `json:"amount"`
	SharePercent int64           `json:"sharePercent"`
}

type OverdueTasks struct {
	Count   int      `json:"count"`
	TaskIds []string `json:"taskIds"`
}

type Digest struct {
	Income         decimal.Decimal `json:"income"`
	Expenses       decimal.Decimal `json:"expenses"`
	NetSavings     decimal.Decimal `json:"netSavings"`
	TasksCompleted int             `json:"tasksCompleted"`
	GoalsCompleted int             `json:"goalsCompleted"`
	ActiveGoals    int             `json:"activeGoals"`
}

// WeeklySummary covers the 7 days before it was generated. Period is the ISO week, e.g. "2025-W11".
type WeeklySummary struct {
	Period string `json:"period"`
	Digest
}

// MonthlySummary covers one calendar month. Period is "YYYY-MM". SavingsRate is the share
// of income that was not spent, in percent with one decimal place.
type MonthlySummary struct {
	Period      string          `json:"period"`
	SavingsRate decimal.Decimal `json:"savingsRate"`
	Digest
}

type Achievement struct {
	AchievementId string `json:"achievementId"`
}

func (BudgetAlert) Kind() Kind           { return KindBudget }
func (GoalDeadline) Kind() Kind          { return KindGoal }
func (TaskDue) Kind() Kind               { return KindTask }
func (GoalMilestone) Kind() Kind         { return KindGoalMilestone }
func (GoalCompleted) Kind() Kind         { return KindGoalCompleted }
func (BillDue) Kind() Kind               { return KindBill }
func (LowBalance) Kind() Kind            { return KindLowBalance }
func (SpendingIncrease) Kind() Kind      { return KindSpendingIncrease }
func (CategoryConcentration) Kind() Kind { return KindCategoryAlert }
func (OverdueTasks) Kind() Kind          { return KindOverdueTasks }
func (WeeklySummary) Kind() Kind         { return KindWeeklySummary }
func (MonthlySummary) Kind() Kind        { return KindMonthlySummary }
func (Achievement) Kind() Kind           { return KindAchievement }

func (p BudgetAlert) Subject() string           { return p.Category }
func (p GoalDeadline) Subject() string          { return p.GoalId }
func (p TaskDue) Subject() string               { return p.TaskId }
func (p GoalMilestone) Subject() string         { return fmt.Sprintf("%s/%d", p.GoalId, p.Milestone) }
func (p GoalCompleted) Subject() string         { return p.GoalId }
func (p BillDue) Subject() string               { return p.TransactionId }
func (LowBalance) Subject() string              { return "" }
func (SpendingIncrease) Subject() string        { return "" }
func (p CategoryConcentration) Subject() string { return p.Category }
func (OverdueTasks) Subject() string            { return "" }
func (p WeeklySummary) Subject() string         { return p.Period }
func (p MonthlySummary) Subject() string        { return p.Period }
func (p Achievement) Subject() string           { return p.AchievementId }

// Candidate is an alert produced by a rule, before deduplication.
type Candidate struct {
	Title    string
	Message  string
	Priority Priority
	Payload  Payload
}

func (c Candidate) Kind() Kind {
	return c.Payload.Kind()
}

// Key is the deduplication identity of the candidate.
func (c Candidate) Key() string {
	return ledgerKey(c.Payload.Kind(), c.Payload.Subject())
}

type Notification struct {
	Id        string    `json:"id"`
	Type      Kind      `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Priority  Priority  `json:"priority"`
	Read      bool      `json:"read"`
	Timestamp time.Time `json:"timestamp"`
	// Payload is nil for manually added notifications.
	Payload Payload `json:"payload,omitempty"`
}

type storedNotification struct {
	Id        string          `json:"id"`
	Type      Kind            `json:"type"`
	Title     string          `json:"title"`
	Message   string          `json:"message"`
	Priority  Priority        `json:"priority"`
	Read      bool            `json:"read"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

func (n Notification) MarshalJSON() ([]byte, error) {
	stored := storedNotification{
		Id:        n.Id,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		Priority:  n.Priority,
		Read:      n.Read,
		Timestamp: n.Timestamp,
	}
	if n.Payload != nil {
		raw, err := json.Marshal(n.Payload)
		if err != nil {
			return nil, err
		}
		stored.Payload = raw
	}
	return json.Marshal(stored)
}

func (n *Notification) UnmarshalJSON(data []byte) error {
	var stored storedNotification
	if err := json.Unmarshal(data, &stored); err != nil {
		return err
	}
	payload, err := decodePayload(stored.Type, stored.Payload)
	if err != nil {
		return fmt.Errorf("notification %s: %w", stored.Id, err)
	}
	*n = Notification{
		Id:        stored.Id,
		Type:      stored.Type,
		Title:     stored.Title,
		Message:   stored.Message,
		Priority:  stored.Priority,
		Read:      stored.Read,
		Timestamp: stored.Timestamp,
		Payload:   payload,
	}
	return nil
}

func decodePayload(kind Kind, raw json.RawMessage) (Payload, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	switch kind {
	case KindBudget:
		return decodeAs[BudgetAlert](raw)
	case KindGoal:
		return decodeAs[GoalDeadline](raw)
	case KindTask:
		return decodeAs[TaskDue](raw)
	case KindGoalMilestone:
		return decodeAs[GoalMilestone](raw)
	case KindGoalCompleted:
		return decodeAs[GoalCompleted](raw)
	case KindBill:
		return decodeAs[BillDue](raw)
	case KindLowBalance:
		return decodeAs[LowBalance](raw)
	case KindSpendingIncrease:
		return decodeAs[SpendingIncrease](raw)
	case KindCategoryAlert:
		return decodeAs[CategoryConcentration](raw)
	case KindOverdueTasks:
		return decodeAs[OverdueTasks](raw)
	case KindWeeklySummary:
		return decodeAs[WeeklySummary](raw)
	case KindMonthlySummary:
		return decodeAs[MonthlySummary](raw)
	case KindAchievement:
		return decodeAs[Achievement](raw)
	}
	// unknown kinds keep their text, only the payload is dropped
	return nil, nil
}

func decodeAs[T Payload](raw json.RawMessage) (Payload, error) {
	var p T
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	return p, nil
}
