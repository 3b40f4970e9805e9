// Wayfinder - Embedded Travel Recommendation Learner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

package cache

import (
	"sync"
	"testing"
	"time"
)

func TestCacheSetGet(t *testing.T) {
	c := New(time.Minute)

	c.Set("k", "v")
	got, ok := c.Get("k")
	if !ok || got != "v" {
		t.Fatalf("Get = %v, %v; want v, true", got, ok)
	}
}

func TestCacheMiss(t *testing.T) {
	c := New(time.Minute)
	if _, ok := c.Get("absent"); ok {
		t.Fatal("expected miss for absent key")
	}
	if s := c.GetStats(); s.Misses != 1 {
		t.Errorf("misses = %d, want 1", s.Misses)
	}
}

func TestCacheExpiration(t *testing.T) {
	c := New(time.Minute)
	c.SetWithTTL("k", "v", 10*time.Millisecond)

	time.Sleep(20 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Fatal("expected expired entry to miss")
	}
	if s := c.GetStats(); s.Evictions != 1 {
		t.Errorf("evictions = %d, want 1", s.Evictions)
	}
}

func TestCacheDeleteAndClear(t *testing.T) {
	c := New(time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)

	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Error("deleted key still present")
	}

	c.Clear()
	if _, ok := c.Get("b"); ok {
		t.Error("cleared key still present")
	}
}

func TestCacheHitRate(t *testing.T) {
	c := New(time.Minute)
	if c.HitRate() != 0 {
		t.Errorf("hit rate = %v before lookups, want 0", c.HitRate())
	}

	c.Set("k", "v")
	c.Get("k")
	c.Get("missing")
	if c.HitRate() != 50 {
		t.Errorf("hit rate = %v, want 50", c.HitRate())
	}
}

func TestCacheConcurrentAccess(t *testing.T) {
	c := New(time.Minute)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Set("shared", n)
				c.Get("shared")
			}
		}(i)
	}
	wg.Wait()

	if _, ok := c.Get("shared"); !ok {
		t.Fatal("shared key missing after concurrent writes")
	}
}
