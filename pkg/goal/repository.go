package goal

import (
	"context"
	"errors"

	"github.com/nivora/nivora/internal/store"
)

var ErrGoalNotFound = errors.New("goal not found")

const storeKey = "goals"

type Repository interface {
	List(ctx context.Context) ([]Goal, error)
	Get(ctx context.Context, id string) (Goal, error)
	Store(ctx context.Context, goal Goal) error
	Update(ctx context.Context, goal Goal) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type RepositoryImpl struct {
	goals *store.Value[[]Goal]
}

func NewRepository(s store.Store) *RepositoryImpl {
	return &RepositoryImpl{goals: store.NewCollection[Goal](s, storeKey)}
}

func (r *RepositoryImpl) List(ctx context.Context) ([]Goal, error) {
	return r.goals.Load(ctx), nil
}

func (r *RepositoryImpl) Get(ctx context.Context, id string) (Goal, error) {
	for _, g := range r.goals.Load(ctx) {
		if g.Id == id {
			return g, nil
		}
	}
	return Goal{}, ErrGoalNotFound
}

func (r *RepositoryImpl) Store(ctx context.Context, goal Goal) error {
	return r.goals.Update(ctx, func(current []Goal) ([]Goal, error) {
		return append(current, goal), nil
	})
}

func (r *RepositoryImpl) Update(ctx context.Context, goal Goal) (bool, error) {
	updated := false
	err := r.goals.Update(ctx, func(current []Goal) ([]Goal, error) {
		for i, g := range current {
			if g.Id == goal.Id {
				current[i] = goal
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
	err := r.goals.Update(ctx, func(current []Goal) ([]Goal, error) {
		kept := current[:0]
		for _, g := range current {
			if g.Id == id {
				deleted = true
				continue
			}
			kept = append(kept, g)
		}
		return kept, nil
	})
	return deleted, err
}
