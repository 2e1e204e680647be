package psf

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Pool is a small supplement beyond spec.md: a bounded in-process cache of
// already-assembled Datasets keyed by the path string as passed to Load
// (paths are not made absolute), so a long-lived process (a GUI or
// server, for example) does not pay even the
// on-disk cache file's deserialization cost on repeat loads within one
// run. hashicorp/golang-lru/v2's Cache is not safe for concurrent use on
// its own, so Pool guards it with a mutex, matching spec.md §5's note that
// any addition beyond the immutable Dataset carries explicit
// synchronization.
type Pool struct {
	mu    sync.Mutex
	cache *lru.Cache[string, *Dataset]
}

// NewPool creates a Pool holding at most size datasets.
func NewPool(size int) (*Pool, error) {
	c, err := lru.New[string, *Dataset](size)
	if err != nil {
		return nil, err
	}

	return &Pool{cache: c}, nil
}

// Load returns the pooled Dataset for path if present, otherwise delegates
// to Load and caches the result.
func (p *Pool) Load(path string, opts ...Option) (*Dataset, error) {
	p.mu.Lock()
	if ds, ok := p.cache.Get(path); ok {
		p.mu.Unlock()
		return ds, nil
	}
	p.mu.Unlock()

	ds, err := Load(path, opts...)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.cache.Add(path, ds)
	p.mu.Unlock()

	return ds, nil
}

// Invalidate drops path from the pool, if present.
func (p *Pool) Invalidate(path string) {
	p.mu.Lock()
	p.cache.Remove(path)
	p.mu.Unlock()
}
