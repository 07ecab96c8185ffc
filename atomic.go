package indexer

import (
	"context"
	"errors"
	"fmt"

	"github.com/ygrebnov/cursorflow/coordinator"
)

// Atomic claims the next interval under the cursor lock: read current,
// check the terminal predicate, compute ended, advance the cursor to ended,
// read the epoch. The lock region is read/write-bounded — no user callback
// runs inside it — so dispatch throughput stays decoupled from callback
// latency even though pre-claiming means the interval is "spent" before any
// work happens against it.
func (idx *Indexer[T]) Atomic(ctx context.Context) (start, ended T, epoch uint64, err error) {
	if idx.hooks.Step == nil {
		err = misconfigured("no Step hook configured for indexer " + idx.name)
		return
	}

	lockErr := idx.coord.WithLock(ctx, idx.lockKey(), idx.cfg.lockTimeout, func(ctx context.Context) error {
		current, e := idx.Current(ctx)
		if e != nil {
			return e
		}

		isLatest, e := idx.latestOf(ctx, current)
		if e != nil {
			return e
		}
		if isLatest {
			return &ReachedLatestError[T]{Value: current}
		}

		next, e := idx.hooks.Step(ctx, current)
		if e != nil {
			return e
		}

		if e := idx.st.Set(ctx, idx.cursorKey(), next); e != nil {
			return e
		}

		ep, e := idx.coord.GetCounter(ctx, idx.epochKey())
		if e != nil {
			return e
		}

		start, ended, epoch = current, next, uint64(ep)
		return nil
	})

	if lockErr != nil {
		var rl *ReachedLatestError[T]
		if errors.As(lockErr, &rl) {
			err = lockErr
			return
		}
		if errors.Is(lockErr, coordinator.ErrLockUnavailable) {
			err = fmt.Errorf("%w: %v", ErrLockUnavailable, lockErr)
			return
		}
		err = lockErr
		return
	}

	idx.inst.claims.Add(1)
	return
}

// latestOf invokes the Latest hook against an already-resolved current
// value, avoiding a second Current() round trip inside the lock.
func (idx *Indexer[T]) latestOf(ctx context.Context, current T) (bool, error) {
	if idx.hooks.Latest == nil {
		return false, nil
	}
	return idx.hooks.Latest(ctx, current)
}
