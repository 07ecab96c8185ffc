package indexer

import (
	"context"

	"github.com/ygrebnov/cursorflow/codec"
)

// fail enqueues start onto the retry queue (FIFO, TTL-bounded by
// retryTimeout) as a single pipelined round trip.
func (idx *Indexer[T]) fail(ctx context.Context, start T) error {
	enc, err := codec.Encode(start)
	if err != nil {
		return err
	}
	if err := idx.coord.EnqueueFailed(ctx, idx.failedKey(), enc, idx.cfg.retryTimeout); err != nil {
		return err
	}
	idx.inst.retries.Add(1)
	return nil
}

// failed dequeues the oldest entry on the retry queue, if any. ok is false
// when the queue is empty.
func (idx *Indexer[T]) failed(ctx context.Context) (start T, ok bool, err error) {
	enc, ok, err := idx.coord.LPop(ctx, idx.failedKey())
	if err != nil || !ok {
		return
	}
	start, err = codec.Decode[T](enc)
	return
}
