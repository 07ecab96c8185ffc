// Package rediskv backs store.Store with Redis GET/SET/DEL, for callers who
// want cursor durability without standing up a separate database — reusing
// the same Redis deployment the coordinator already requires.
package rediskv

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/ygrebnov/cursorflow/codec"
	"github.com/ygrebnov/cursorflow/store"
)

// Store implements store.Store[T] against a Redis deployment, serializing T
// through codec.Encode/Decode — the same canonical encoder the coordinator
// keys use, so a cursor value round-trips identically everywhere it appears.
type Store[T any] struct {
	client goredis.Cmdable
}

// New wraps an existing go-redis client.
func New[T any](client goredis.Cmdable) *Store[T] {
	return &Store[T]{client: client}
}

var _ store.Store[int] = (*Store[int])(nil)

func (s *Store[T]) Get(ctx context.Context, key string) (T, bool, error) {
	var zero T
	raw, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, goredis.Nil) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, fmt.Errorf("rediskv: get %q: %w", key, err)
	}
	v, err := codec.Decode[T](raw)
	if err != nil {
		return zero, false, fmt.Errorf("rediskv: decode %q: %w", key, err)
	}
	return v, true, nil
}

func (s *Store[T]) Set(ctx context.Context, key string, value T) error {
	raw, err := codec.Encode(value)
	if err != nil {
		return fmt.Errorf("rediskv: encode %q: %w", key, err)
	}
	if err := s.client.Set(ctx, key, raw, 0).Err(); err != nil {
		return fmt.Errorf("rediskv: set %q: %w", key, err)
	}
	return nil
}

func (s *Store[T]) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("rediskv: delete %q: %w", key, err)
	}
	return nil
}
