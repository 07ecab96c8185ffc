// Package coordinator defines the shared-coordinator capability the engine
// needs: mutual exclusion, atomic counters, lists, and TTL'd keys. Any
// implementation providing these primitives is compatible — canonically
// Redis (see the redis subpackage), with an in-process fake (memcoord) for
// single-instance callers and tests.
package coordinator

import (
	"context"
	"errors"
	"time"
)

// ErrLockUnavailable is returned by WithLock implementations when the lock
// could not be acquired within its wait budget (ttl, or ctx cancellation).
var ErrLockUnavailable = errors.New("coordinator: lock unavailable")

// Coordinator is the capability set the engine consumes from the shared
// coordinator. Every method may suspend on a network round trip; all take a
// context.Context for cancellation.
type Coordinator interface {
	// WithLock acquires the mutex at key for at most ttl, blocking (subject
	// to ctx) until it is acquired or ErrLockUnavailable is returned, runs
	// fn, then releases the lock — on success, on error, and on panic.
	WithLock(ctx context.Context, key string, ttl time.Duration, fn func(ctx context.Context) error) error

	// Incr atomically increments the counter at key and returns its new
	// value. A counter absent at first use starts at 0 before the
	// increment, so the first call returns 1.
	Incr(ctx context.Context, key string) (int64, error)

	// GetCounter reads the counter at key without mutating it. A missing
	// counter reads as (0, nil) — counters are defined to start at 0.
	GetCounter(ctx context.Context, key string) (int64, error)

	// RPush appends value to the end of the list at key.
	RPush(ctx context.Context, key string, value string) error

	// LPop removes and returns the first element of the list at key. ok is
	// false when the list is empty or absent.
	LPop(ctx context.Context, key string) (value string, ok bool, err error)

	// LRem removes up to count occurrences of value from the list at key,
	// scanning head to tail. A count of 0 would remove every occurrence;
	// the engine always passes 1 to preserve the at-most-once list
	// invariant.
	LRem(ctx context.Context, key string, count int64, value string) error

	// LRange returns every element currently in the list at key, head to
	// tail.
	LRange(ctx context.Context, key string) ([]string, error)

	// LLen returns the number of elements in the list at key.
	LLen(ctx context.Context, key string) (int64, error)

	// SetEX sets key to value with an expiry of ttl.
	SetEX(ctx context.Context, key string, value string, ttl time.Duration) error

	// Expire sets (or refreshes) the TTL on an existing key. It is a no-op
	// if the key does not exist.
	Expire(ctx context.Context, key string, ttl time.Duration) error

	// Exists reports whether key is currently set.
	Exists(ctx context.Context, key string) (bool, error)

	// Del deletes the given keys. Missing keys are ignored.
	Del(ctx context.Context, keys ...string) error

	// Occupy performs, as a single pipelined round trip: RPUSH value onto
	// listKey; SET shadowKey "1" EX shadowTTL; EXPIRE listKey listTTL.
	Occupy(ctx context.Context, listKey, value, shadowKey string, shadowTTL, listTTL time.Duration) error

	// Release performs, as a single pipelined round trip: LREM listKey 1
	// value; DEL shadowKey.
	Release(ctx context.Context, listKey, value, shadowKey string) error

	// EnqueueFailed performs, as a single pipelined round trip: RPUSH value
	// onto failedKey; EXPIRE failedKey ttl.
	EnqueueFailed(ctx context.Context, failedKey, value string, ttl time.Duration) error

	// MigrateZombie performs, as a single pipelined round trip: LREM
	// listKey 1 value; RPUSH value onto failedKey.
	MigrateZombie(ctx context.Context, listKey, failedKey, value string) error
}
