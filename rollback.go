package indexer

import "context"

// Rollback resets the cursor to target, invoking the OnRollback hook first
// so callers can perform business-side cleanup while the cursor still holds
// its pre-rollback value. If OnRollback fails, Rollback aborts without
// moving the cursor, wiping any queue, or bumping the epoch.
//
// On success it clears the live-task list (and, best-effort, every shadow
// key it held) and the retry queue, then increments the epoch by exactly
// one. Workers holding a pre-rollback epoch should treat Validate(epoch)
// returning false as a signal to discard their in-flight result — the
// engine does not and cannot cancel a running callback itself.
func (idx *Indexer[T]) Rollback(ctx context.Context, target T) error {
	return idx.coord.WithLock(ctx, idx.lockKey(), idx.cfg.lockTimeout, func(ctx context.Context) error {
		from, err := idx.Current(ctx)
		if err != nil {
			return err
		}

		if idx.hooks.OnRollback != nil {
			if err := idx.hooks.OnRollback(ctx, from, target); err != nil {
				return err
			}
		}

		if err := idx.st.Set(ctx, idx.cursorKey(), target); err != nil {
			return err
		}

		if err := idx.clearInFlight(ctx); err != nil {
			return err
		}

		if err := idx.coord.Del(ctx, idx.failedKey()); err != nil {
			return err
		}

		if _, err := idx.coord.Incr(ctx, idx.epochKey()); err != nil {
			return err
		}

		idx.inst.rollbacks.Add(1)
		return nil
	})
}

// clearInFlight deletes every live-task entry and its shadow key, then
// drops the live-task list key itself.
func (idx *Indexer[T]) clearInFlight(ctx context.Context) error {
	entries, err := idx.coord.LRange(ctx, idx.concurrencyKey())
	if err != nil {
		return err
	}

	shadowKeys := make([]string, 0, len(entries))
	for _, enc := range entries {
		shadowKeys = append(shadowKeys, idx.shadowKey(enc))
	}

	keys := append([]string{idx.concurrencyKey()}, shadowKeys...)
	if err := idx.coord.Del(ctx, keys...); err != nil {
		return err
	}

	idx.inst.inFlight.Add(-int64(len(entries)))
	return nil
}

// Validate reports whether epoch is still the indexer's current epoch —
// true iff no rollback has occurred since epoch was issued (by Atomic or a
// retry replay).
func (idx *Indexer[T]) Validate(ctx context.Context, epoch uint64) (bool, error) {
	current, err := idx.coord.GetCounter(ctx, idx.epochKey())
	if err != nil {
		return false, err
	}
	return uint64(current) == epoch, nil
}
