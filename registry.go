package indexer

import "sync"

// Registry is an explicit name -> *Indexer[T] map. Callers construct one
// Registry per cursor type at startup and pass it through their own
// dependency graph — there is no package-level global.
type Registry[T any] struct {
	mu    sync.RWMutex
	items map[string]*Indexer[T]
}

// NewRegistry constructs an empty Registry.
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{items: make(map[string]*Indexer[T])}
}

// Register adds idx under its own Name, replacing any prior entry of the
// same name.
func (r *Registry[T]) Register(idx *Indexer[T]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[idx.Name()] = idx
}

// Get returns the indexer registered under name, if any.
func (r *Registry[T]) Get(name string) (*Indexer[T], bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx, ok := r.items[name]
	return idx, ok
}

// MustGet returns the indexer registered under name, panicking if absent.
// Intended for startup wiring where a missing entry is a programmer error.
func (r *Registry[T]) MustGet(name string) *Indexer[T] {
	idx, ok := r.Get(name)
	if !ok {
		panic(Namespace + ": no indexer registered under name " + name)
	}
	return idx
}

// Names returns every registered indexer name, in no particular order.
func (r *Registry[T]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.items))
	for n := range r.items {
		names = append(names, n)
	}
	return names
}
