package indexer

import (
	"context"

	"github.com/ygrebnov/cursorflow/codec"
)

// Cleanup scans the live-task list and migrates any zombie entries — those
// whose shadow marker has expired — to the retry queue. It is driven by an
// external timer; the engine never spawns its own ticking goroutine for it.
//
// Running Cleanup concurrently from multiple instances is safe: LRem and
// RPush both operate on exact-match values, so a duplicate LRem on an
// already-removed element is a no-op, and the worst outcome of a race is one
// extra RPush of the same start value onto the retry queue — tolerable
// because retry is only idempotent from the engine's perspective when the
// caller's callback is itself idempotent at the interval granularity.
func (idx *Indexer[T]) Cleanup(ctx context.Context) error {
	entries, err := idx.coord.LRange(ctx, idx.concurrencyKey())
	if err != nil {
		return err
	}

	for _, enc := range entries {
		alive, err := idx.coord.Exists(ctx, idx.shadowKey(enc))
		if err != nil {
			return err
		}
		if alive {
			continue
		}

		start, decodeErr := codec.Decode[T](enc)
		if decodeErr != nil {
			start = *new(T)
		}

		idx.logger.WarnContext(ctx, "indexer: migrating zombie task to retry queue",
			"indexer", idx.name, "start", start)

		if err := idx.coord.MigrateZombie(ctx, idx.concurrencyKey(), idx.failedKey(), enc); err != nil {
			return err
		}
		idx.inst.zombies.Add(1)
		idx.inst.inFlight.Add(-1)
	}

	return nil
}
