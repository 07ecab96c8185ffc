// Package indexer provides a distributed cursor-indexing scheduler: a
// coordination primitive for advancing a named monotonic cursor across a
// cluster of worker processes so that each half-open interval [start, ended)
// along the cursor's value domain is dispatched exactly once, modulo explicit
// retry, under a global concurrency cap, and surviving worker crashes.
//
// Construction
//   - New[T](name, coordinator, store, opts...): builds one Indexer value.
//     Indexers are plain values; there is no package-level registry or
//     decorator-based registration. Callers that want a shared name->indexer
//     map construct a Registry explicitly and pass it around.
//
// Collaborators
// An Indexer depends on two abstract collaborators, both supplied by the
// caller:
//   - store.Store[T]: durable get/set/delete of the current cursor value.
//   - coordinator.Coordinator: mutexes, atomic counters, lists, and TTL'd
//     keys, canonically backed by Redis (see coordinator/redis).
//
// Core operations
// Current, Next, Step, and Latest resolve and advance the cursor. Atomic
// performs a lock-protected claim of the next interval. Consume orchestrates
// admission control, retry-first dispatch, atomic claiming, and the caller's
// callback. Cleanup reaps zombie tasks whose liveness markers expired.
// Rollback resets the cursor and invalidates in-flight work via an
// epoch counter; Validate lets a caller check whether its epoch is still
// current.
//
// None of these operations block an OS thread for longer than a single
// coordinator round trip or a user hook invocation; every one of them takes
// a context.Context and returns an explicit error.
package indexer
