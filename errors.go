package indexer

import (
	"errors"
	"fmt"
)

// Namespace prefixes every sentinel error message.
const Namespace = "indexer"

var (
	// ErrMisconfigured is returned when an operation is invoked without a
	// collaborator or hook it requires (empty name, missing coordinator or
	// store, missing Step hook, missing initial value resolution).
	ErrMisconfigured = errors.New(Namespace + ": misconfigured")

	// ErrReachedLatest is returned by Atomic when the terminal predicate is
	// true for the current cursor value.
	ErrReachedLatest = errors.New(Namespace + ": reached latest")

	// ErrLockUnavailable is returned when the cursor lock could not be
	// acquired within its wait budget.
	ErrLockUnavailable = errors.New(Namespace + ": lock unavailable")
)

// MisconfigurationError carries the reason ErrMisconfigured was returned.
type MisconfigurationError struct {
	Reason string
}

func (e *MisconfigurationError) Error() string {
	return fmt.Sprintf("%s: misconfigured: %s", Namespace, e.Reason)
}

func (e *MisconfigurationError) Unwrap() error { return ErrMisconfigured }

func misconfigured(reason string) error { return &MisconfigurationError{Reason: reason} }

// ReachedLatestError carries the cursor value the terminal predicate fired
// on.
type ReachedLatestError[T any] struct {
	Value T
}

func (e *ReachedLatestError[T]) Error() string {
	return fmt.Sprintf("%s: reached latest at %v", Namespace, e.Value)
}

func (e *ReachedLatestError[T]) Unwrap() error { return ErrReachedLatest }

// CallbackError wraps an error returned by a Consume callback together with
// the interval and epoch it ran under. Callers can use errors.As to recover
// the epoch a failure occurred at, e.g. to decide whether a rollback raced
// the callback.
type CallbackError[T any] struct {
	Start, Ended T
	Epoch        uint64
	Err          error
}

func (e *CallbackError[T]) Error() string {
	return fmt.Sprintf(
		"%s: callback failed for interval [%v, %v) at epoch %d: %v",
		Namespace, e.Start, e.Ended, e.Epoch, e.Err,
	)
}

func (e *CallbackError[T]) Unwrap() error { return e.Err }
