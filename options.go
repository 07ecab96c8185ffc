package indexer

import (
	"context"
	"time"

	"github.com/ygrebnov/cursorflow/metrics"
)

// Option configures an Indexer. Use New[T](name, coordinator, store, opts...)
// to construct one.
type Option[T any] func(*settings[T])

// settings is the options-builder state: the user-facing config plus the
// ambient-stack knobs (hooks, metrics, logger) that aren't part of the
// wire-visible configuration.
type settings[T any] struct {
	cfg    config[T]
	hooks  Hooks[T]
	metr   metrics.Provider
	logger Logger
}

// WithHooks sets every user hook at once.
func WithHooks[T any](h Hooks[T]) Option[T] {
	return func(s *settings[T]) { s.hooks = h }
}

// WithStep sets the required Step hook.
func WithStep[T any](fn func(ctx context.Context, current T) (T, error)) Option[T] {
	return func(s *settings[T]) { s.hooks.Step = fn }
}

// WithLatest sets the terminal-predicate hook.
func WithLatest[T any](fn func(ctx context.Context, current T) (bool, error)) Option[T] {
	return func(s *settings[T]) { s.hooks.Latest = fn }
}

// WithInitialFunc sets the Initial resolution hook, taking precedence over
// WithInitial's constant value.
func WithInitialFunc[T any](fn func(ctx context.Context) (T, error)) Option[T] {
	return func(s *settings[T]) { s.hooks.Initial = fn }
}

// WithOnRollback sets the rollback side-effect hook.
func WithOnRollback[T any](fn func(ctx context.Context, from, to T) error) Option[T] {
	return func(s *settings[T]) { s.hooks.OnRollback = fn }
}

// WithInitial sets the constant starting cursor value used when the store
// is empty and no Initial hook is set.
func WithInitial[T any](v T) Option[T] {
	return func(s *settings[T]) {
		s.cfg.initial = v
		s.cfg.hasInitial = true
	}
}

// WithConcurrency sets the global admission cap. Omit this option to run
// without an admission check (unbounded concurrency).
func WithConcurrency[T any](n int) Option[T] {
	return func(s *settings[T]) {
		s.cfg.concurrency = n
		s.cfg.hasConcurrency = true
	}
}

// WithRunningTimeout sets the shadow TTL governing the zombie boundary.
// Default: 60s.
func WithRunningTimeout[T any](d time.Duration) Option[T] {
	return func(s *settings[T]) { s.cfg.runningTimeout = d }
}

// WithRetryTimeout sets the retry-queue key TTL. Default: 60s.
func WithRetryTimeout[T any](d time.Duration) Option[T] {
	return func(s *settings[T]) { s.cfg.retryTimeout = d }
}

// WithConcurrencyTimeout sets the live-task list TTL. Default:
// 2 x runningTimeout, or 120s if runningTimeout is also unset.
func WithConcurrencyTimeout[T any](d time.Duration) Option[T] {
	return func(s *settings[T]) { s.cfg.concurrencyTimeout = d }
}

// WithLockTimeout sets the cursor lock's acquire-and-hold TTL. Default: 1s.
// Critical sections under this lock are coordinator reads/writes only, so
// raising it should only be necessary to tolerate a slower coordinator, not
// slower user code.
func WithLockTimeout[T any](d time.Duration) Option[T] {
	return func(s *settings[T]) { s.cfg.lockTimeout = d }
}

// WithMetrics sets the metrics.Provider instruments are recorded against.
// Default: metrics.NewNoopProvider().
func WithMetrics[T any](p metrics.Provider) Option[T] {
	return func(s *settings[T]) { s.metr = p }
}

// WithLogger sets the structured logger warnings are emitted through.
// Default: slog.Default().
func WithLogger[T any](l Logger) Option[T] {
	return func(s *settings[T]) { s.logger = l }
}
