// Package store is the durable key-value layer every collection is persisted through.
// Values are JSON text and every write replaces the whole value under a key.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
)

var ErrEmptyKey = errors.New("store key must not be empty")

type Store interface {
	// Get returns the raw value under key. found is false when nothing is stored.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// GetOr decodes the value stored under key into a T. A missing, unreadable or corrupt
// value yields def; the failure is logged and never returned.
func GetOr[T any](ctx context.Context, s Store, key string, def T) T {
	raw, found, err := s.Get(ctx, key)
	if err != nil {
		log.Warnf("store: could not read %q, using default: %v", key, err)
		return def
	}
	if !found || len(raw) == 0 {
		return def
	}
	var value T
	if err := json.Unmarshal(raw, &value); err != nil {
		log.Warnf("store: corrupt value under %q, using default: %v", key, err)
		return def
	}
	return value
}

// Fetch decodes the value stored under key into a T. A missing or corrupt value yields def,
// but a failed read is returned so callers never overwrite data they could not see.
func Fetch[T any](ctx context.Context, s Store, key string, def T) (T, error) {
	raw, found, err := s.Get(ctx, key)
	if err != nil {
		return def, fmt.Errorf("could not read %q: %w", key, err)
	}
	if !found || len(raw) == 0 {
		return def, nil
	}
	var value T
	if err := json.Unmarshal(raw, &value); err != nil {
		log.Warnf("store: corrupt value under %q, using default: %v", key, err)
		return def, nil
	}
	return value, nil
}

// Put encodes value as JSON and stores it under key.
func Put(ctx context.Context, s Store, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("could not encode value for %q: %w", key, err)
	}
	if err := s.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("could not store %q: %w", key, err)
	}
	return nil
}

type namespaced struct {
	inner  Store
	prefix string
}

// WithNamespace prefixes every key with "<namespace>-", mirroring the "nivora-finances" style key names.
func WithNamespace(s Store, namespace string) Store {
	if namespace == "" {
		return s
	}
	return &namespaced{inner: s, prefix: namespace + "-"}
}

func (n *namespaced) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return n.inner.Get(ctx, n.prefix+key)
}

func (n *namespaced) Set(ctx context.Context, key string, value []byte) error {
	return n.inner.Set(ctx, n.prefix+key, value)
}

func (n *namespaced) Delete(ctx context.Context, key string) error {
	return n.inner.Delete(ctx, n.prefix+key)
}
