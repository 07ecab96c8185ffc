package indexer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ygrebnov/cursorflow/codec"
	"github.com/ygrebnov/cursorflow/coordinator/memcoord"
	"github.com/ygrebnov/cursorflow/metrics"
	"github.com/ygrebnov/cursorflow/store/memstore"
)

func stepBy(n int) func(context.Context, int) (int, error) {
	return func(_ context.Context, c int) (int, error) { return c + n, nil }
}

func newIntIndexer(t *testing.T, opts ...Option[int]) (*Indexer[int], *memcoord.Coordinator) {
	t.Helper()
	coord := memcoord.New()
	st := memstore.New[int]()
	base := append([]Option[int]{WithInitial[int](0), WithStep[int](stepBy(1))}, opts...)
	idx, err := New[int]("scenario", coord, st, base...)
	require.NoError(t, err)
	return idx, coord
}

// Scenario 1: sequential Atomic calls from a fresh indexer.
func TestAtomic_SequentialClaims(t *testing.T) {
	ctx := context.Background()
	idx, _ := newIntIndexer(t)

	s0, e0, ep0, err := idx.Atomic(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, s0)
	require.Equal(t, 1, e0)
	require.Equal(t, uint64(0), ep0)

	s1, e1, _, err := idx.Atomic(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, s1)
	require.Equal(t, 2, e1)

	s2, e2, _, err := idx.Atomic(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, s2)
	require.Equal(t, 3, e2)

	current, err := idx.Current(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, current)
}

// Scenario 2: Atomic fails with ErrReachedLatest and does not mutate the
// cursor.
func TestAtomic_ReachedLatest_DoesNotMutateCursor(t *testing.T) {
	ctx := context.Background()
	idx, _ := newIntIndexer(t, WithLatest[int](func(_ context.Context, c int) (bool, error) {
		return c >= 5, nil
	}))

	require.NoError(t, idx.Next(ctx, ptr(5)))

	_, _, _, err := idx.Atomic(ctx)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrReachedLatest))

	current, err := idx.Current(ctx)
	require.NoError(t, err)
	require.Equal(t, 5, current)
}

// Scenario 3: two parallel Consume callers, no concurrency cap, step by 10.
func TestConsume_ParallelCallers_NoOverlap(t *testing.T) {
	ctx := context.Background()
	idx, coord := newIntIndexer(t, WithStep[int](stepBy(10)))

	type pair struct{ start, ended int }
	results := make(chan pair, 2)
	errs := make(chan error, 2)

	var wg sync.WaitGroup
	wg.Add(2)
	for i := 0; i < 2; i++ {
		go func() {
			defer wg.Done()
			errs <- idx.Consume(ctx, func(_ context.Context, start, ended int, _ uint64) error {
				results <- pair{start, ended}
				return nil
			})
		}()
	}
	wg.Wait()
	close(results)
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	got := map[pair]bool{}
	for p := range results {
		got[p] = true
	}
	require.Len(t, got, 2)
	require.True(t, got[pair{0, 10}])
	require.True(t, got[pair{10, 20}])

	current, err := idx.Current(ctx)
	require.NoError(t, err)
	require.Equal(t, 20, current)

	n, err := coord.LLen(ctx, idx.concurrencyKey())
	require.NoError(t, err)
	require.Zero(t, n)
}

// Scenario 4: a zombie task is reaped by Cleanup and replayed via retry.
func TestCleanup_MigratesZombieToRetry_ThenConsumeReplaysIt(t *testing.T) {
	ctx := context.Background()
	idx, coord := newIntIndexer(t, WithRunningTimeout[int](time.Second))

	start, ended, _, err := idx.Atomic(ctx)
	require.NoError(t, err)
	require.NoError(t, idx.occupy(ctx, start))

	// Simulate the shadow TTL expiring without a real sleep.
	enc, err := codec.Encode(start)
	require.NoError(t, err)
	coord.ExpireShadow(idx.shadowKey(enc))

	require.NoError(t, idx.Cleanup(ctx))

	n, err := coord.LLen(ctx, idx.concurrencyKey())
	require.NoError(t, err)
	require.Zero(t, n)

	var gotStart, gotEnded int
	err = idx.Consume(ctx, func(_ context.Context, s, e int, _ uint64) error {
		gotStart, gotEnded = s, e
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, start, gotStart)
	require.Equal(t, ended, gotEnded)
}

// Scenario 5: concurrency=1 backpressure.
func TestConsume_ConcurrencyCap_RejectsWithoutDispatch(t *testing.T) {
	ctx := context.Background()
	idx, _ := newIntIndexer(t, WithConcurrency[int](1))

	holding := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		done <- idx.Consume(ctx, func(_ context.Context, _, _ int, _ uint64) error {
			close(holding)
			<-release
			return nil
		})
	}()
	<-holding

	called := false
	err := idx.Consume(ctx, func(_ context.Context, _, _ int, _ uint64) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	require.False(t, called)

	close(release)
	require.NoError(t, <-done)
}

// Scenario 6: Rollback resets the cursor, invokes OnRollback, and bumps the
// epoch so a pre-rollback Validate fails while a post-rollback one passes.
func TestRollback_InvokesHook_BumpsEpoch(t *testing.T) {
	ctx := context.Background()

	var observedFrom, observedTo int
	idx, coord := newIntIndexer(t, WithOnRollback[int](func(_ context.Context, from, to int) error {
		observedFrom, observedTo = from, to
		return nil
	}))

	require.NoError(t, idx.Next(ctx, ptr(10)))

	preEpoch, err := coord.GetCounter(ctx, idx.epochKey())
	require.NoError(t, err)

	require.NoError(t, idx.Rollback(ctx, 5))

	require.Equal(t, 10, observedFrom)
	require.Equal(t, 5, observedTo)

	current, err := idx.Current(ctx)
	require.NoError(t, err)
	require.Equal(t, 5, current)

	validPre, err := idx.Validate(ctx, uint64(preEpoch))
	require.NoError(t, err)
	require.False(t, validPre)

	postEpoch, err := coord.GetCounter(ctx, idx.epochKey())
	require.NoError(t, err)
	validPost, err := idx.Validate(ctx, uint64(postEpoch))
	require.NoError(t, err)
	require.True(t, validPost)
}

// A retry enqueued before rollback is wiped by it.
func TestRollback_WipesRetryQueue(t *testing.T) {
	ctx := context.Background()
	idx, coord := newIntIndexer(t)

	start, _, _, err := idx.Atomic(ctx)
	require.NoError(t, err)
	require.NoError(t, idx.fail(ctx, start))

	n, err := coord.LLen(ctx, idx.failedKey())
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	require.NoError(t, idx.Rollback(ctx, 0))

	n, err = coord.LLen(ctx, idx.failedKey())
	require.NoError(t, err)
	require.Zero(t, n)
}

// consume with retry=false leaves the retry queue unchanged on error.
func TestConsume_NoRetry_LeavesRetryQueueEmpty(t *testing.T) {
	ctx := context.Background()
	idx, coord := newIntIndexer(t)

	boom := errors.New("boom")
	err := idx.Consume(ctx, func(_ context.Context, _, _ int, _ uint64) error {
		return boom
	}, ConsumeOptions{Retry: false})

	require.Error(t, err)
	require.True(t, errors.Is(err, boom))

	n, lerr := coord.LLen(ctx, idx.failedKey())
	require.NoError(t, lerr)
	require.Zero(t, n)
}

// consume with retry=true (default) enqueues the failed start for replay.
func TestConsume_Retry_EnqueuesFailedStart(t *testing.T) {
	ctx := context.Background()
	idx, coord := newIntIndexer(t)

	boom := errors.New("boom")
	err := idx.Consume(ctx, func(_ context.Context, _, _ int, _ uint64) error {
		return boom
	})
	require.Error(t, err)
	require.True(t, errors.Is(err, boom))

	n, lerr := coord.LLen(ctx, idx.failedKey())
	require.NoError(t, lerr)
	require.Equal(t, int64(1), n)
}

// A callback error under a stale epoch (rollback raced the callback) is not
// enqueued to retry, even with retry=true.
func TestConsume_StaleEpoch_DoesNotRetry(t *testing.T) {
	ctx := context.Background()
	idx, coord := newIntIndexer(t)

	boom := errors.New("boom")
	var epoch uint64
	err := idx.Consume(ctx, func(ctx context.Context, _, _ int, ep uint64) error {
		epoch = ep
		// Simulate a rollback racing the in-flight callback.
		require.NoError(t, idx.Rollback(ctx, 0))
		return boom
	})
	require.Error(t, err)
	require.True(t, errors.Is(err, boom))

	var cbErr *CallbackError[int]
	require.True(t, errors.As(err, &cbErr))
	require.Equal(t, epoch, cbErr.Epoch)

	validNow, err := idx.Validate(ctx, epoch)
	require.NoError(t, err)
	require.False(t, validNow)

	n, lerr := coord.LLen(ctx, idx.failedKey())
	require.NoError(t, lerr)
	require.Zero(t, n)
}

func TestReset_ClearsCoordinatorState(t *testing.T) {
	ctx := context.Background()
	idx, coord := newIntIndexer(t)

	_, _, _, err := idx.Atomic(ctx)
	require.NoError(t, err)
	require.NoError(t, idx.fail(ctx, 0))
	require.NoError(t, idx.Reset(ctx))

	_, ok, err := idx.st.Get(ctx, idx.cursorKey())
	require.NoError(t, err)
	require.False(t, ok)

	n, err := coord.LLen(ctx, idx.failedKey())
	require.NoError(t, err)
	require.Zero(t, n)

	ep, err := coord.GetCounter(ctx, idx.epochKey())
	require.NoError(t, err)
	require.Zero(t, ep)
}

func TestNew_RejectsMisconfiguration(t *testing.T) {
	coord := memcoord.New()
	st := memstore.New[int]()

	_, err := New[int]("", coord, st)
	require.Error(t, err)

	_, err = New[int]("name", nil, st)
	require.Error(t, err)

	_, err = New[int]("name", coord, nil)
	require.Error(t, err)
}

// Atomic and Rollback record real counts against a BasicProvider, the
// in-memory Provider implementation callers can wire in with WithMetrics
// instead of the default NoopProvider.
func TestMetrics_BasicProviderRecordsClaimsAndRollbacks(t *testing.T) {
	ctx := context.Background()
	provider := metrics.NewBasicProvider()
	coord := memcoord.New()
	st := memstore.New[int]()

	idx, err := New[int](
		"metrics-scenario", coord, st,
		WithInitial[int](0), WithStep[int](stepBy(1)), WithMetrics[int](provider),
	)
	require.NoError(t, err)

	_, _, _, err = idx.Atomic(ctx)
	require.NoError(t, err)
	require.NoError(t, idx.Rollback(ctx, 0))

	attrs := metrics.WithAttributes(map[string]string{"indexer": idx.Name()})

	claims, ok := provider.Counter(metricClaims, attrs).(*metrics.BasicCounter)
	require.True(t, ok)
	require.Equal(t, int64(1), claims.Snapshot())

	rollbacks, ok := provider.Counter(metricRollbacks, attrs).(*metrics.BasicCounter)
	require.True(t, ok)
	require.Equal(t, int64(1), rollbacks.Snapshot())
}

func TestCurrent_WithoutInitial_Misconfigured(t *testing.T) {
	ctx := context.Background()
	coord := memcoord.New()
	st := memstore.New[int]()
	idx, err := New[int]("no-initial", coord, st, WithStep[int](stepBy(1)))
	require.NoError(t, err)

	_, cerr := idx.Current(ctx)
	require.Error(t, cerr)
	require.True(t, errors.Is(cerr, ErrMisconfigured))
}

func ptr[T any](v T) *T { return &v }
