//-------------------------------------------------------------------------
//
// Product Query RAG Server
//
// Copyright (c) 2026, ProdQuery, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package cache provides a bounded LRU cache for generated responses.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// Default sizing for response caches. The source system cached responses
// without bound; a capped LRU with TTL keeps memory predictable under
// production load.
const (
	DefaultCapacity = 512
	DefaultTTL      = 15 * time.Minute
)

type entry struct {
	key     string
	value   string
	expires time.Time
	element *list.Element
}

// LRU is a thread-safe, bounded, TTL-aware LRU cache mapping string keys
// to response text. Safe for concurrent use; duplicate concurrent misses
// are allowed (no single-flight deduplication).
type LRU struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	items    map[string]*entry
	order    *list.List
}

// NewLRU creates an LRU cache. Non-positive capacity or TTL fall back to
// the package defaults.
func NewLRU(capacity int, ttl time.Duration) *LRU {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &LRU{
		capacity: capacity,
		ttl:      ttl,
		items:    make(map[string]*entry, capacity),
		order:    list.New(),
	}
}

// Get returns the cached value for key, if present and unexpired.
func (c *LRU) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ent, ok := c.items[key]
	if !ok {
		return "", false
	}
	if time.Now().After(ent.expires) {
		c.removeEntry(ent)
		return "", false
	}
	c.order.MoveToFront(ent.element)
	return ent.value, true
}

// Set stores value under key, evicting the least recently used entry when
// the cache is full.
func (c *LRU) Set(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.items[key]; ok {
		ent.value = value
		ent.expires = time.Now().Add(c.ttl)
		c.order.MoveToFront(ent.element)
		return
	}

	if len(c.items) >= c.capacity {
		c.evictOldest()
	}

	elem := c.order.PushFront(key)
	c.items[key] = &entry{
		key:     key,
		value:   value,
		expires: time.Now().Add(c.ttl),
		element: elem,
	}
}

// Len returns the number of entries currently held.
func (c *LRU) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Purge removes all entries.
func (c *LRU) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*entry, c.capacity)
	c.order.Init()
}

func (c *LRU) evictOldest() {
	elem := c.order.Back()
	if elem == nil {
		return
	}
	key := elem.Value.(string)
	if ent, ok := c.items[key]; ok {
		c.removeEntry(ent)
	}
}

func (c *LRU) removeEntry(ent *entry) {
	if ent.element != nil {
		c.order.Remove(ent.element)
	}
	delete(c.items, ent.key)
}
