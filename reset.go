package indexer

import "context"

// Reset is an administrative escape hatch: it deletes the cursor, the lock
// key, the live-task list, the retry queue, and the epoch counter. It does
// not exhaustively clear shadow keys — they expire by their own TTL — so
// callers must ensure no instance is concurrently running against this
// indexer before calling Reset.
func (idx *Indexer[T]) Reset(ctx context.Context) error {
	if err := idx.st.Delete(ctx, idx.cursorKey()); err != nil {
		return err
	}
	return idx.coord.Del(
		ctx,
		idx.lockKey(),
		idx.concurrencyKey(),
		idx.failedKey(),
		idx.epochKey(),
	)
}
