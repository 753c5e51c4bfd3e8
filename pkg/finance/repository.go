package finance

import (
	"context"
	"errors"

	"github.com/nivora/nivora/internal/store"
)

var ErrTransactionNotFound = errors.New("transaction not found")

const storeKey = "finances"

type Repository interface {
	List(ctx context.Context) ([]Transaction, error)
	Get(ctx context.Context, id string) (Transaction, error)
	Store(ctx context.Context, transaction Transaction) error
	Update(ctx context.Context, transaction Transaction) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type RepositoryImpl struct {
	transactions *store.Value[[]Transaction]
}

func NewRepository(s store.Store) *RepositoryImpl {
	return &RepositoryImpl{transactions: store.NewCollection[Transaction](s, storeKey)}
}

func (r *RepositoryImpl) List(ctx context.Context) ([]Transaction, error) {
	return r.transactions.Load(ctx), nil
}

func (r *RepositoryImpl) Get(ctx context.Context, id string) (Transaction, error) {
	for _, t := range r.transactions.Load(ctx) {
		if t.Id == id {
			return t, nil
		}
	}
	return Transaction{}, ErrTransactionNotFound
}

// Store prepends the transaction, newest first like the rest of the collections.
func (r *RepositoryImpl) Store(ctx context.Context, transaction Transaction) error {
	return r.transactions.Update(ctx, func(current []Transaction) ([]Transaction, error) {
		return append([]Transaction{transaction}, current...), nil
	})
}

func (r *RepositoryImpl) Update(ctx context.Context, transaction Transaction) (bool, error) {
	updated := false
	err := r.transactions.Update(ctx, func(current []Transaction) ([]Transaction, error) {
		for i, t := range current {
			if t.Id == transaction.Id {
				current[i] = transaction
				updated = true
				break
			}
		}
		return current, nil
	})
	return updated, err
}

func (r *RepositoryImpl) Delete(ctx context.Context, id string) (bool, error) {
	deleted := false
	err := r.transactions.Update(ctx, func(current []Transaction) ([]Transaction, error) {
		kept := current[:0]
		for _, t := range current {
			if t.Id == id {
				deleted = true
				continue
			}
			kept = append(kept, t)
		}
		return kept, nil
	})
	return deleted, err
}
