package budget

import (
	"context"

	"github.com/nivora/nivora/internal/store"
	"github.com/shopspring/decimal"
)

const storeKey = "budgets"

type BudgetRepo interface {
	GetAll(ctx context.Context) (Limits, error)
	Set(ctx context.Context, category string, limit decimal.Decimal) error
	Delete(ctx context.Context, category string) (bool, error)
}

type BudgetRepoImpl struct {
	limits *store.Value[Limits]
}

func NewBudgetRepo(s store.Store) *BudgetRepoImpl {
	return &BudgetRepoImpl{limits: store.NewValue(s, storeKey, func() Limits { return Limits{} })}
}

func (r *BudgetRepoImpl) GetAll(ctx context.Context) (Limits, error) {
	limits := r.limits.Load(ctx)
	if limits == nil {
		limits = Limits{}
	}
	return limits, nil
}

func (r *BudgetRepoImpl) Set(ctx context.Context, category string, limit decimal.Decimal) error {
	return r.limits.Update(ctx, func(current Limits) (Limits, error) {
		if current == nil {
			current = Limits{}
		}
		current[category] = limit
		return current, nil
	})
}

func (r *BudgetRepoImpl) Delete(ctx context.Context, category string) (bool, error) {
	deleted := false
	err := r.limits.Update(ctx, func(current Limits) (Limits, error) {
		if _, ok := current[category]; ok {
			delete(current, category)
			deleted = true
		}
		return current, nil
	})
	return deleted, err
}
