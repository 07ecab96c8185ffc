package indexer

import (
	"context"
	"errors"
	"time"
)

// ConsumeOptions configures a single Consume call.
type ConsumeOptions struct {
	// Retry controls whether a callback error is enqueued to the retry
	// queue. Consume called without a ConsumeOptions uses
	// DefaultConsumeOptions (Retry: true); the zero value ConsumeOptions{}
	// has Retry false and disables it for that call.
	Retry bool
}

// DefaultConsumeOptions is what Consume uses when called without an
// explicit ConsumeOptions.
func DefaultConsumeOptions() ConsumeOptions { return ConsumeOptions{Retry: true} }

// Callback is the user-supplied unit of work Consume dispatches an interval
// to. epoch is the epoch the claim was issued under; a long-running
// callback can call Validate(ctx, epoch) mid-flight to check whether a
// rollback has since invalidated its work.
type Callback[T any] func(ctx context.Context, start, ended T, epoch uint64) error

// Consume orchestrates one dispatch attempt:
//  1. Admission: if a concurrency cap is configured and the live-task list
//     is already at capacity, Consume returns immediately without error —
//     this is backpressure, not a failure.
//  2. Retry-first: if the retry queue has an entry, it is claimed and the
//     terminal predicate (Latest) is deliberately *not* consulted — a
//     previously-failed interval is retried even if the cursor has since
//     passed it. Otherwise Atomic claims a fresh
//     interval, failing with ErrReachedLatest (swallowed here, returned as
//     nil) if the terminal predicate fires.
//  3. Occupy records the claimed interval as in-flight.
//  4. The callback runs.
//  5. On success, Release and return.
//  6. On error: Release always runs. If the current epoch no longer
//     matches the epoch the claim was issued under, the failure is not
//     enqueued to retry (a rollback already invalidated this work) and a
//     warning is logged; otherwise, if opts.Retry is true, the start value
//     is enqueued to the retry queue. Either way the callback's error is
//     returned, wrapped in *CallbackError[T].
func (idx *Indexer[T]) Consume(ctx context.Context, cb Callback[T], opts ...ConsumeOptions) error {
	if idx.hooks.Step == nil {
		return misconfigured("no Step hook configured for indexer " + idx.name)
	}

	o := DefaultConsumeOptions()
	if len(opts) > 0 {
		o = opts[0]
	}

	ok, err := idx.admitted(ctx)
	if err != nil {
		return err
	}
	if !ok {
		idx.inst.rejected.Add(1)
		return nil
	}

	start, ended, epoch, err := idx.claim(ctx)
	if err != nil {
		if errors.Is(err, ErrReachedLatest) {
			return nil
		}
		return err
	}

	idx.inst.admitted.Add(1)

	if err := idx.occupy(ctx, start); err != nil {
		return err
	}

	cbStart := time.Now()
	cbErr := cb(ctx, start, ended, epoch)
	idx.inst.callbackSecs.Record(time.Since(cbStart).Seconds())

	if releaseErr := idx.release(ctx, start); releaseErr != nil {
		idx.logger.WarnContext(ctx, "indexer: release failed after consume",
			"indexer", idx.name, "start", start, "error", releaseErr)
	}

	if cbErr == nil {
		return nil
	}

	currentEpoch, validateErr := idx.Validate(ctx, epoch)
	if validateErr != nil {
		return &CallbackError[T]{Start: start, Ended: ended, Epoch: epoch, Err: errors.Join(cbErr, validateErr)}
	}

	switch {
	case !currentEpoch:
		idx.logger.WarnContext(ctx, "indexer: callback failed under a stale epoch, not retrying",
			"indexer", idx.name, "start", start, "epoch", epoch)
	case o.Retry:
		if failErr := idx.fail(ctx, start); failErr != nil {
			return &CallbackError[T]{Start: start, Ended: ended, Epoch: epoch, Err: errors.Join(cbErr, failErr)}
		}
	}

	return &CallbackError[T]{Start: start, Ended: ended, Epoch: epoch, Err: cbErr}
}

// claim implements the retry-first-else-atomic claim rule: a retried start
// bypasses the terminal predicate entirely (see Consume's doc comment).
func (idx *Indexer[T]) claim(ctx context.Context) (start, ended T, epoch uint64, err error) {
	s, ok, ferr := idx.failed(ctx)
	if ferr != nil {
		err = ferr
		return
	}
	if ok {
		start = s

		e, serr := idx.Step(ctx, &start)
		if serr != nil {
			err = serr
			return
		}
		ended = e

		ep, cerr := idx.coord.GetCounter(ctx, idx.epochKey())
		if cerr != nil {
			err = cerr
			return
		}
		epoch = uint64(ep)
		return
	}

	start, ended, epoch, err = idx.Atomic(ctx)
	return
}
