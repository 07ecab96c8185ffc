package indexer

import (
	"context"

	"github.com/ygrebnov/cursorflow/codec"
)

// admitted reports whether a new task may be dispatched given the
// concurrency cap. When no cap is configured, admission is always granted.
func (idx *Indexer[T]) admitted(ctx context.Context) (bool, error) {
	if !idx.cfg.hasConcurrency {
		return true, nil
	}
	n, err := idx.coord.LLen(ctx, idx.concurrencyKey())
	if err != nil {
		return false, err
	}
	return n < int64(idx.cfg.concurrency), nil
}

// occupy records start as a live task: appends it to the live-task list,
// sets its shadow marker with a runningTimeout TTL, and refreshes the live
// list's own sliding TTL. All three happen as one pipelined round trip.
func (idx *Indexer[T]) occupy(ctx context.Context, start T) error {
	enc, err := codec.Encode(start)
	if err != nil {
		return err
	}
	err = idx.coord.Occupy(
		ctx,
		idx.concurrencyKey(), enc, idx.shadowKey(enc),
		idx.cfg.runningTimeout, idx.cfg.resolveConcurrencyTimeout(),
	)
	if err != nil {
		return err
	}
	idx.inst.inFlight.Add(1)
	return nil
}

// release removes start from the live-task list and deletes its shadow
// marker. Occupy/release must never fail loudly enough to skew accounting,
// so callers treat a release error as log-and-continue, not as masking the
// original callback error.
func (idx *Indexer[T]) release(ctx context.Context, start T) error {
	enc, err := codec.Encode(start)
	if err != nil {
		return err
	}
	if err := idx.coord.Release(ctx, idx.concurrencyKey(), enc, idx.shadowKey(enc)); err != nil {
		return err
	}
	idx.inst.inFlight.Add(-1)
	return nil
}
