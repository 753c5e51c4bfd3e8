package store

import (
	"context"
	"sync"
)

// Value guards one JSON value stored under a single key. Mutations are load-modify-save
// cycles serialized by a mutex, so concurrent requests in one process cannot lose writes.
type Value[T any] struct {
	store Store
	key   string
	def   func() T
	mu    sync.Mutex
}

func NewValue[T any](s Store, key string, def func() T) *Value[T] {
	return &Value[T]{store: s, key: key, def: def}
}

func (v *Value[T]) Key() string {
	return v.key
}

// Load returns the stored value, or the default when it is missing or corrupt.
func (v *Value[T]) Load(ctx context.Context) T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return GetOr(ctx, v.store, v.key, v.def())
}

// Fetch is Load for callers that go on to write: a failed read is returned instead of
// being replaced by the default.
func (v *Value[T]) Fetch(ctx context.Context) (T, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return Fetch(ctx, v.store, v.key, v.def())
}

// Save replaces the stored value.
func (v *Value[T]) Save(ctx context.Context, value T) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return Put(ctx, v.store, v.key, value)
}

// Update applies fn to the current value and stores the result. Nothing is written when
// the current value cannot be read or fn fails.
func (v *Value[T]) Update(ctx context.Context, fn func(current T) (T, error)) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	current, err := Fetch(ctx, v.store, v.key, v.def())
	if err != nil {
		return err
	}
	next, err := fn(current)
	if err != nil {
		return err
	}
	return Put(ctx, v.store, v.key, next)
}

// NewCollection returns a Value holding a list of records, empty by default.
func NewCollection[T any](s Store, key string) *Value[[]T] {
	return NewValue(s, key, func() []T { return []T{} })
}
