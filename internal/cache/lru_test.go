//-------------------------------------------------------------------------
//
// Product Query RAG Server
//
// Copyright (c) 2026, ProdQuery, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestGetSet(t *testing.T) {
	c := NewLRU(4, time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Error("expected miss for absent key")
	}

	c.Set("k1", "answer one")
	got, ok := c.Get("k1")
	if !ok {
		t.Fatal("expected hit for k1")
	}
	if got != "answer one" {
		t.Errorf("expected 'answer one', got %q", got)
	}
}

func TestSetOverwrite(t *testing.T) {
	c := NewLRU(4, time.Minute)

	c.Set("k1", "first")
	c.Set("k1", "second")

	got, _ := c.Get("k1")
	if got != "second" {
		t.Errorf("expected overwrite to win, got %q", got)
	}
	if c.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", c.Len())
	}
}

func TestEviction(t *testing.T) {
	c := NewLRU(2, time.Minute)

	c.Set("a", "1")
	c.Set("b", "2")

	// Touch "a" so "b" becomes the eviction candidate.
	if _, ok := c.Get("a"); !ok {
		t.Fatal("expected hit for a")
	}

	c.Set("c", "3")

	if _, ok := c.Get("b"); ok {
		t.Error("expected b to be evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("expected a to survive eviction")
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("expected c to be present")
	}
}

func TestExpiry(t *testing.T) {
	c := NewLRU(4, 10*time.Millisecond)

	c.Set("k1", "value")
	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("k1"); ok {
		t.Error("expected expired entry to miss")
	}
	if c.Len() != 0 {
		t.Errorf("expected expired entry to be removed, len=%d", c.Len())
	}
}

func TestPurge(t *testing.T) {
	c := NewLRU(4, time.Minute)

	c.Set("a", "1")
	c.Set("b", "2")
	c.Purge()

	if c.Len() != 0 {
		t.Errorf("expected empty cache after purge, len=%d", c.Len())
	}
	if _, ok := c.Get("a"); ok {
		t.Error("expected miss after purge")
	}
}

func TestDefaults(t *testing.T) {
	c := NewLRU(0, 0)

	if c.capacity != DefaultCapacity {
		t.Errorf("expected default capacity %d, got %d", DefaultCapacity, c.capacity)
	}
	if c.ttl != DefaultTTL {
		t.Errorf("expected default TTL %v, got %v", DefaultTTL, c.ttl)
	}
}

func TestConcurrentAccess(t *testing.T) {
	c := NewLRU(64, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("key-%d", j%16)
				c.Set(key, "value")
				c.Get(key)
			}
		}(i)
	}
	wg.Wait()

	if c.Len() > 16 {
		t.Errorf("expected at most 16 distinct keys, got %d", c.Len())
	}
}
