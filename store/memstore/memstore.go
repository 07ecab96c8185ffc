// Package memstore is the documented default store.Store implementation: an
// in-process map. Values are lost on process restart; callers that need
// durability should use store/rediskv instead.
package memstore

import (
	"context"
	"sync"

	"github.com/ygrebnov/cursorflow/store"
)

// Store is an in-process, mutex-guarded map[string]T.
type Store[T any] struct {
	mu     sync.RWMutex
	values map[string]T
}

// New constructs an empty Store.
func New[T any]() *Store[T] {
	return &Store[T]{values: make(map[string]T)}
}

var _ store.Store[int] = (*Store[int])(nil)

func (s *Store[T]) Get(_ context.Context, key string) (T, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *Store[T]) Set(_ context.Context, key string, value T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *Store[T]) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}
