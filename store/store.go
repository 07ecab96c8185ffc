// Package store defines the minimal KV capability the engine needs to
// persist a cursor value: get, set, delete over a key shared by all
// indexers of one Registry. The default implementation (memstore) is an
// in-process map; persistence across restarts is optional, and callers who
// want durability without standing up a separate database can use rediskv
// instead, backed by the same coordinator-adjacent Redis deployment.
package store

import "context"

// Store persists the current cursor value for one or more named indexers,
// keyed by an opaque string built by the caller (the engine uses
// "indexer:<name>").
type Store[T any] interface {
	// Get returns the value stored at key. ok is false when key has never
	// been set (or was deleted/reset).
	Get(ctx context.Context, key string) (value T, ok bool, err error)

	// Set stores value at key, replacing any prior value. Writes are
	// last-writer-wins.
	Set(ctx context.Context, key string, value T) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
