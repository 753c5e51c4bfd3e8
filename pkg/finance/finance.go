package finance

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

type Frequency string

const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
	Yearly  Frequency = "yearly"
)

type PaymentMethod string

const (
	Cash         PaymentMethod = "cash"
	Card         PaymentMethod = "card"
	BankTransfer PaymentMethod = "bank-transfer"
	UPI          PaymentMethod = "upi"
	OtherMethod  PaymentMethod = "other"
)

const DefaultCategory = "Other"

type Recurring struct {
	IsRecurring bool       `json:"isRecurring"`
	Frequency   Frequency  `json:"frequency,omitempty"`
	NextDate    *time.Time `json:"nextDate,omitempty"`
}

type Transaction struct {
	Id   string          `json:"id"`
	Type TransactionType `json:"type"`
	// Amount is null when the stored record lost it; such records are skipped by every aggregate.
	Amount        decimal.NullDecimal `json:"amount"`
	Category      string              `json:"category"`
	Description   string              `json:"description,omitempty"`
	Date          time.Time           `json:"date"`
	PaymentMethod PaymentMethod       `json:"paymentMethod,omitempty"`
	Tags          []string            `json:"tags,omitempty"`
	Recurring     *Recurring          `json:"recurring,omitempty"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
}

// Valid reports whether the record carries everything aggregates need: a known type,
// a non-negative amount and a date.
func (t Transaction) Valid() bool {
	if t.Type != Income && t.Type != Expense {
		return false
	}
	if !t.Amount.Valid || t.Amount.Decimal.IsNegative() {
		return false
	}
	return !t.Date.IsZero()
}

func (t Transaction) IsRecurring() bool {
	return t.Recurring != nil && t.Recurring.IsRecurring
}

// Label is the human name of a transaction: its description, or its category when there is none.
func (t Transaction) Label() string {
	if t.Description != "" {
		return t.Description
	}
	return t.Category
}

func (t Transaction) CategoryOrDefault() string {
	if t.Category == "" {
		return DefaultCategory
	}
	return t.Category
}

type Summary struct {
	TotalIncome   decimal.Decimal
	TotalExpenses decimal.Decimal
	Balance       decimal.Decimal
	ByCategory    map[string]decimal.Decimal
	Count         int
}

// Summarize aggregates all valid transactions accepted by the filter (nil accepts everything).
func Summarize(transactions []Transaction, filter func(Transaction) bool) Summary {
	summary := Summary{
		TotalIncome:   decimal.Zero,
		TotalExpenses: decimal.Zero,
		ByCategory:    map[string]decimal.Decimal{},
	}
	for _, t := range transactions {
		if !t.Valid() {
			continue
		}
		if filter != nil && !filter(t) {
			continue
		}
		summary.Count++
		switch t.Type {
		case Income:
			summary.TotalIncome = summary.TotalIncome.Add(t.Amount.Decimal)
		case Expense:
			summary.TotalExpenses = summary.TotalExpenses.Add(t.Amount.Decimal)
			category := t.CategoryOrDefault()
			summary.ByCategory[category] = summary.ByCategory[category].Add(t.Amount.Decimal)
		}
	}
	summary.Balance = summary.TotalIncome.Sub(summary.TotalExpenses)
	return summary
}

// InMonth accepts transactions dated in the same calendar month as ref (in ref's location).
func InMonth(ref time.Time) func(Transaction) bool {
	year, month, _ := ref.Date()
	return func(t Transaction) bool {
		y, m, _ := t.Date.In(ref.Location()).Date()
		return y == year && m == month
	}
}

// Since accepts transactions dated at or after from.
func Since(from time.Time) func(Transaction) bool {
	return func(t Transaction) bool {
		return !t.Date.Before(from)
	}
}
