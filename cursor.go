package indexer

import "context"

// Current returns the stored cursor value, resolving the configured initial
// value if the store has never been written. Resolution order: the Initial
// hook if set, else the WithInitial constant. If neither is set and the
// store is empty, Current fails with ErrMisconfigured.
func (idx *Indexer[T]) Current(ctx context.Context) (T, error) {
	v, ok, err := idx.st.Get(ctx, idx.cursorKey())
	if err != nil {
		var zero T
		return zero, err
	}
	if ok {
		return v, nil
	}
	return idx.resolveInitial(ctx)
}

func (idx *Indexer[T]) resolveInitial(ctx context.Context) (T, error) {
	var zero T
	if idx.hooks.Initial != nil {
		return idx.hooks.Initial(ctx)
	}
	if idx.cfg.hasInitial {
		return idx.cfg.initial, nil
	}
	return zero, misconfigured("no initial value configured for indexer " + idx.name)
}

// Next advances the cursor. With v non-nil, it writes *v unconditionally.
// Without v, it computes Step(Current()) and writes that. Writes are
// last-writer-wins at the store level; callers relying on Next without v in
// a multi-instance deployment must own external mutual exclusion (Atomic
// provides that exclusion internally; Next does not).
func (idx *Indexer[T]) Next(ctx context.Context, v *T) error {
	if v != nil {
		return idx.st.Set(ctx, idx.cursorKey(), *v)
	}

	current, err := idx.Current(ctx)
	if err != nil {
		return err
	}
	next, err := idx.Step(ctx, &current)
	if err != nil {
		return err
	}
	return idx.st.Set(ctx, idx.cursorKey(), next)
}

// Step invokes the user Step hook on c, or on Current() if c is nil. Step
// must be deterministic and side-effect-free by the caller's contract;
// Step itself has no side effects of its own.
func (idx *Indexer[T]) Step(ctx context.Context, c *T) (T, error) {
	var zero T
	if idx.hooks.Step == nil {
		return zero, misconfigured("no Step hook configured for indexer " + idx.name)
	}

	var cur T
	if c != nil {
		cur = *c
	} else {
		v, err := idx.Current(ctx)
		if err != nil {
			return zero, err
		}
		cur = v
	}
	return idx.hooks.Step(ctx, cur)
}

// Latest invokes the user Latest hook against Current(). An unset hook is
// equivalent to a hook that always returns false.
func (idx *Indexer[T]) Latest(ctx context.Context) (bool, error) {
	if idx.hooks.Latest == nil {
		return false, nil
	}
	current, err := idx.Current(ctx)
	if err != nil {
		return false, err
	}
	return idx.hooks.Latest(ctx, current)
}
