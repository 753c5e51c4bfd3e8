package task

import (
	"context"
	"errors"

	"github.com/nivora/nivora/internal/store"
)

var ErrTaskNotFound = errors.New("task not found")

const storeKey = "tasks"

type Repository interface {
	List(ctx context.Context) ([]Task, error)
	Get(ctx context.Context, id string) (Task, error)
	Store(ctx context.Context, task Task) error
	Update(ctx context.Context, task Task) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type RepositoryImpl struct {
	tasks *store.Value[[]Task]
}

func NewRepository(s store.Store) *RepositoryImpl {
	return &RepositoryImpl{tasks: store.NewCollection[Task](s, storeKey)}
}

func (r *RepositoryImpl) List(ctx context.Context) ([]Task, error) {
	return r.tasks.Load(ctx), nil
}

func (r *RepositoryImpl) Get(ctx context.Context, id string) (Task, error) {
	for _, t := range r.tasks.Load(ctx) {
		if t.Id == id {
			return t, nil
		}
	}
	return Task{}, ErrTaskNotFound
}

func (r *RepositoryImpl) Store(ctx context.Context, task Task) error {
	return r.tasks.Update(ctx, func(current []Task) ([]Task, error) {
		return append(current, task), nil
	})
}

func (r *RepositoryImpl) Update(ctx context.Context, task Task) (bool, error) {
	updated := false
	err := r.tasks.Update(ctx, func(current []Task) ([]Task, error) {
		for i, t := range current {
			if t.Id == task.Id {
				current[i] = task
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
	err := r.tasks.Update(ctx, func(current []Task) ([]Task, error) {
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
