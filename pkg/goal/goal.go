package goal

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	Active    Status = "active"
	Completed Status = "completed"
	Paused    Status = "paused"
	Cancelled Status = "cancelled"
)

type Type string

const (
	Savings    Type = "savings"
	Investment Type = "investment"
	Debt       Type = "debt"
	Personal   Type = "personal"
	Other      Type = "other"
)

var hundred = decimal.NewFromInt(100)

type Goal struct {
	Id            string          `json:"id"`
	Title         string          `json:"title"`
	Description   string          `json:"description,omitempty"`
	Type          Type            `json:"type"`
	TargetAmount  decimal.Decimal `json:"targetAmount"`
	CurrentAmount decimal.Decimal `json:"currentAmount"`
	Deadline      *time.Time      `json:"deadline,omitempty"`
	Status        Status          `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// Progress is min(current/target*100, 100), or 0 when the goal has no target.
func (g Goal) Progress() decimal.Decimal {
	if !g.TargetAmount.IsPositive() {
		return decimal.Zero
	}
	progress := g.CurrentAmount.Div(g.TargetAmount).Mul(hundred)
	return decimal.Min(progress, hundred)
}

// ProgressPercent is Progress rounded to a whole percent, as shown to the user.
func (g Goal) ProgressPercent() int64 {
	return g.Progress().Round(0).IntPart()
}

func (g Goal) IsActive() bool {
	return g.Status == Active
}

func (g Goal) IsCompleted() bool {
	return g.Status == Completed
}

// settleStatus moves an active goal that reached its target to completed. It never moves a goal back.
func (g *Goal) settleStatus() bool {
	if g.Status == Active && g.Progress().GreaterThanOrEqual(hundred) {
		g.Status = Completed
		return true
	}
	return false
}
