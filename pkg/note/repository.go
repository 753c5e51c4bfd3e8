package note

import (
	"context"
	"errors"

	"github.com/nivora/nivora/internal/store"
)

var ErrNoteNotFound = errors.New("note not found")

const storeKey = "notes"

type Repository interface {
	List(ctx context.Context) ([]Note, error)
	Get(ctx context.Context, id string) (Note, error)
	Store(ctx context.Context, note Note) error
	Update(ctx context.Context, note Note) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type RepositoryImpl struct {
	notes *store.Value[[]Note]
}

func NewRepository(s store.Store) *RepositoryImpl {
	return &RepositoryImpl{notes: store.NewCollection[Note](s, storeKey)}
}

func (r *RepositoryImpl) List(ctx context.Context) ([]Note, error) {
	return r.notes.Load(ctx), nil
}

func (r *RepositoryImpl) Get(ctx context.Context, id string) (Note, error) {
	for _, n := range r.notes.Load(ctx) {
		if n.Id == id {
			return n, nil
		}
	}
	return Note{}, ErrNoteNotFound
}

func (r *RepositoryImpl) Store(ctx context.Context, note Note) error {
	return r.notes.Update(ctx, func(current []Note) ([]Note, error) {
		return append([]Note{note}, current...), nil
	})
}

func (r *RepositoryImpl) Update(ctx context.Context, note Note) (bool, error) {
	updated := false
	err := r.notes.Update(ctx, func(current []Note) ([]Note, error) {
		for i, n := range current {
			if n.Id == note.Id {
				current[i] = note
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
	err := r.notes.Update(ctx, func(current []Note) ([]Note, error) {
		kept := current[:0]
		for _, n := range current {
			if n.Id == id {
				deleted = true
				continue
			}
			kept = append(kept, n)
		}
		return kept, nil
	})
	return deleted, err
}
