// Package fastcheck implements the fast-check cache contract (spec
// §6): file-content-hash keyed storage of serialized analyzer output,
// with at-most-one concurrent build per key and LRU eviction under a
// capacity cap. Grounded on the teacher's use of an in-process cache
// for repeated lookups, rebuilt here on hashicorp/golang-lru/v2 (the
// pack's LRU of choice) plus golang.org/x/sync/singleflight-style
// dedup via a plain mutex-guarded in-flight map, since no build
// coalescing primitive ships in golang-lru itself.
package fastcheck

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/funxylang/semcore/internal/diagnostics"
	"github.com/funxylang/semcore/internal/symbols"
)

// Result is one cached analyzer outcome (spec §6 "symbol table
// snapshot and diagnostics").
type Result struct {
	Hash        string
	Success     bool
	Diagnostics []*diagnostics.SemanticError
	Symbols     *symbols.Table
	Stats       symbols.Stats
}

// Cache is a bounded LRU keyed by file-content hash. The zero value is
// not usable; build one with New.
type Cache struct {
	lru *lru.Cache[string, *Result]

	mu       sync.Mutex
	inFlight map[string]*buildGroup
}

// buildGroup coalesces concurrent callers racing to build the same
// key, so at most one Build runs per key at a time (spec §6
// "guarantees at-most-one concurrent build per key").
type buildGroup struct {
	done   chan struct{}
	result *Result
}

// New creates a Cache holding at most capacity entries, evicting least
// recently used on overflow.
func New(capacity int) (*Cache, error) {
	l, err := lru.New[string, *Result](capacity)
	if err != nil {
		return nil, err
	}
	return &Cache{lru: l, inFlight: make(map[string]*buildGroup)}, nil
}

// Lookup returns the cached Result for hash, if present.
func (c *Cache) Lookup(hash string) (*Result, bool) {
	return c.lru.Get(hash)
}

// Store inserts or replaces the cached Result for hash.
func (c *Cache) Store(hash string, result *Result) {
	c.lru.Add(hash, result)
}

// Invalidate removes hash from the cache, forcing the next lookup to
// miss and rebuild.
func (c *Cache) Invalidate(hash string) {
	c.lru.Remove(hash)
}

// Len reports the number of entries currently cached.
func (c *Cache) Len() int {
	return c.lru.Len()
}

// GetOrBuild returns the cached Result for hash if present; otherwise
// it runs build exactly once even under concurrent callers racing on
// the same hash, caching and returning its result to all of them.
func (c *Cache) GetOrBuild(hash string, build func() *Result) *Result {
	if r, ok := c.Lookup(hash); ok {
		return r
	}

	c.mu.Lock()
	if r, ok := c.Lookup(hash); ok {
		c.mu.Unlock()
		return r
	}
	if g, building := c.inFlight[hash]; building {
		c.mu.Unlock()
		<-g.done
		return g.result
	}
	g := &buildGroup{done: make(chan struct{})}
	c.inFlight[hash] = g
	c.mu.Unlock()

	result := build()
	c.Store(hash, result)

	c.mu.Lock()
	delete(c.inFlight, hash)
	c.mu.Unlock()

	g.result = result
	close(g.done)
	return result
}
