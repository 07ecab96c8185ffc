package indexer

import "context"

// Hooks bundles the caller-provided, per-indexer user functions. Step is the
// only required hook; the rest are optional and default to the documented
// no-op behavior.
type Hooks[T any] struct {
	// Step computes the next cursor value from the current one. It must be
	// deterministic and side-effect-free: the engine may call it more than
	// once for bookkeeping (e.g. to recompute Ended for a retried start)
	// and assumes repeat calls with the same input produce the same output.
	Step func(ctx context.Context, current T) (T, error)

	// Latest reports whether current is the terminal cursor value. A nil
	// Latest is equivalent to a hook that always returns false.
	Latest func(ctx context.Context, current T) (bool, error)

	// Initial resolves the starting cursor value used when the store has
	// never been written. A nil Initial falls back to the configured
	// initial value (WithInitial); if neither is set, operations that need
	// to resolve a starting value fail with ErrMisconfigured.
	Initial func(ctx context.Context) (T, error)

	// OnRollback runs before the cursor is reset during Rollback, observing
	// the value moving from and the target it is moving to. It may fail,
	// in which case Rollback aborts and the cursor is left untouched.
	OnRollback func(ctx context.Context, from, to T) error
}
