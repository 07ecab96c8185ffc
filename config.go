package indexer

import "time"

// config holds Indexer configuration. Unexported: callers configure an
// Indexer through Option[T] values.
type config[T any] struct {
	initial        T
	hasInitial     bool
	concurrency    int
	hasConcurrency bool

	runningTimeout     time.Duration
	retryTimeout       time.Duration
	concurrencyTimeout time.Duration
	lockTimeout        time.Duration
}

// defaultConfig centralizes default values, applied before options run.
func defaultConfig[T any]() config[T] {
	return config[T]{
		runningTimeout: 60 * time.Second,
		retryTimeout:   60 * time.Second,
		lockTimeout:    1 * time.Second,
	}
}

// resolveConcurrencyTimeout defaults to 2 x runningTimeout, or 120s if
// runningTimeout is also unset.
func (c *config[T]) resolveConcurrencyTimeout() time.Duration {
	if c.concurrencyTimeout > 0 {
		return c.concurrencyTimeout
	}
	if c.runningTimeout > 0 {
		return 2 * c.runningTimeout
	}
	return 120 * time.Second
}
