package indexer

import (
	"fmt"

	"github.com/ygrebnov/cursorflow/coordinator"
	"github.com/ygrebnov/cursorflow/metrics"
	"github.com/ygrebnov/cursorflow/store"
)

// Indexer is one named cursor-coordination engine. It is a plain value: all
// state lives in the caller-supplied Store and Coordinator, keyed by Name.
// Construct one with New; share it across goroutines freely, every method
// is safe for concurrent use.
type Indexer[T any] struct {
	name  string
	coord coordinator.Coordinator
	st    store.Store[T]

	cfg   config[T]
	hooks Hooks[T]

	inst   *instruments
	logger Logger
}

// New constructs an Indexer named name, backed by coord and st, configured
// by opts. Step is the only required hook (via WithStep or WithHooks); its
// absence is not validated here since a caller may still use Current/Next
// directly without ever calling Step-dependent operations, but Atomic and
// Consume return ErrMisconfigured if it's missing.
func New[T any](name string, coord coordinator.Coordinator, st store.Store[T], opts ...Option[T]) (*Indexer[T], error) {
	if name == "" {
		return nil, misconfigured("name must not be empty")
	}
	if coord == nil {
		return nil, misconfigured("coordinator must not be nil")
	}
	if st == nil {
		return nil, misconfigured("store must not be nil")
	}

	s := settings[T]{cfg: defaultConfig[T]()}
	for _, opt := range opts {
		if opt == nil {
			return nil, misconfigured("nil option")
		}
		opt(&s)
	}

	if s.metr == nil {
		s.metr = metrics.NewNoopProvider()
	}
	if s.logger == nil {
		s.logger = defaultLogger()
	}

	idx := &Indexer[T]{
		name:   name,
		coord:  coord,
		st:     st,
		cfg:    s.cfg,
		hooks:  s.hooks,
		inst:   newInstruments(s.metr, name),
		logger: s.logger,
	}
	return idx, nil
}

// Name returns the indexer's configured name.
func (idx *Indexer[T]) Name() string { return idx.name }

// Key builders. indexer:<name> variants, centralized here so every other
// file references one canonical layout.

func (idx *Indexer[T]) cursorKey() string { return fmt.Sprintf("indexer:%s", idx.name) }
func (idx *Indexer[T]) lockKey() string   { return fmt.Sprintf("indexer:%s:current", idx.name) }
func (idx *Indexer[T]) concurrencyKey() string {
	return fmt.Sprintf("indexer:%s:concurrency", idx.name)
}
func (idx *Indexer[T]) shadowKey(startEnc string) string {
	return fmt.Sprintf("indexer:%s:concurrency:shadow:%s", idx.name, startEnc)
}
func (idx *Indexer[T]) failedKey() string { return fmt.Sprintf("indexer:%s:failed", idx.name) }
func (idx *Indexer[T]) epochKey() string  { return fmt.Sprintf("indexer:%s:epoch", idx.name) }
