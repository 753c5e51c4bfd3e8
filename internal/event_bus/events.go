package event_bus

const (
	FinanceChangedEvent         EventType = "finance.changed"
	BudgetChangedEvent          EventType = "budget.changed"
	GoalChangedEvent            EventType = "goal.changed"
	TaskChangedEvent            EventType = "task.changed"
	NotificationDispatchedEvent EventType = "notification.dispatched"
)

type ChangeKind string

const (
	Created ChangeKind = "created"
	Updated ChangeKind = "updated"
	Deleted ChangeKind = "deleted"
)

type TransactionChanged struct {
	Id   string
	Kind ChangeKind
}

type BudgetChanged struct {
	Category string
	Kind     ChangeKind
}

type GoalChanged struct {
	Id   string
	Kind ChangeKind
	// Completed is true when this change moved the goal into the completed status.
	Completed bool
}

type TaskChanged struct {
	Id        string
	Kind      ChangeKind
	Completed bool
}

// NotificationDispatched is published for every alert that survived deduplication,
// for UI surfaces (toasts) that render the stream.
type NotificationDispatched struct {
	Id       string
	Type     string
	Title    string
	Message  string
	Priority string
}
