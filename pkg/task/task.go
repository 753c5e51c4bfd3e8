package task

import "time"

type Status string

const (
	Pending    Status = "pending"
	InProgress Status = "in-progress"
	Completed  Status = "completed"
)

type Priority string

const (
	Low    Priority = "low"
	Medium Priority = "medium"
	High   Priority = "high"
)

type Task struct {
	Id          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      Status     `json:"status"`
	Priority    Priority   `json:"priority"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Category    string     `json:"category,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	// Completed mirrors Status == Completed.
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (t Task) IsCompleted() bool {
	return t.Status == Completed
}

// settleCompletion keeps Completed in sync with Status and stamps CompletedAt on the first
// transition into completed only.
func (t *Task) settleCompletion(now time.Time) {
	t.Completed = t.Status == Completed
	if t.Completed && t.CompletedAt == nil {
		completedAt := now
		t.CompletedAt = &completedAt
	}
}
