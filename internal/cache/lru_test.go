// Bookwheel - Catalog Browsing and Book Recommendation Carousel
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookwheel

package cache

import (
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func TestLRU_BasicOperations(t *testing.T) {
	cache := NewLRU[int](3, time.Minute)

	cache.Add("a", 1)
	cache.Add("b", 2)
	cache.Add("c", 3)

	for key, want := range map[string]int{"a": 1, "b": 2, "c": 3} {
		got, found := cache.Get(key)
		if !found {
			t.Errorf("Expected to find key %q", key)
			continue
		}
		if got != want {
			t.Errorf("Get(%q) = %d, want %d", key, got, want)
		}
	}

	if cache.Len() != 3 {
		t.Errorf("Expected len 3, got %d", cache.Len())
	}
}

func TestLRU_Eviction(t *testing.T) {
	cache := NewLRU[string](3, time.Minute)

	cache.Add("a", "A")
	cache.Add("b", "B")
	cache.Add("c", "C")

	// Access 'a' to make it most recently used
	cache.Get("a")

	// Add new item, should evict 'b' (least recently used)
	cache.Add("d", "D")

	if _, found := cache.Get("b"); found {
		t.Error("Expected 'b' to be evicted")
	}
	for _, key := range []string{"a", "c", "d"} {
		if _, found := cache.Get(key); !found {
			t.Errorf("Expected %q to be present", key)
		}
	}
}

func TestLRU_TTLExpiration(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	cache := NewLRU[int](10, 50*time.Millisecond).WithClock(clock.Now)

	cache.Add("a", 1)
	if _, found := cache.Get("a"); !found {
		t.Error("Expected to find key 'a' immediately")
	}

	clock.Advance(60 * time.Millisecond)

	if _, found := cache.Get("a"); found {
		t.Error("Expected key 'a' to be expired")
	}
	if cache.Len() != 0 {
		t.Errorf("Expected expired entry to be removed, len = %d", cache.Len())
	}
}

func TestLRU_IsDuplicate(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	cache := NewLRU[struct{}](10, time.Second).WithClock(clock.Now)

	if cache.IsDuplicate("client:book-1") {
		t.Error("First occurrence should not be a duplicate")
	}
	if !cache.IsDuplicate("client:book-1") {
		t.Error("Second occurrence within TTL should be a duplicate")
	}
	if cache.IsDuplicate("client:book-2") {
		t.Error("Different key should not be a duplicate")
	}

	clock.Advance(2 * time.Second)
	if cache.IsDuplicate("client:book-1") {
		t.Error("Occurrence after TTL should not be a duplicate")
	}
}

func TestLRU_RemoveAndClear(t *testing.T) {
	cache := NewLRU[int](10, time.Minute)
	cache.Add("a", 1)
	cache.Add("b", 2)

	if !cache.Remove("a") {
		t.Error("Remove(a) = false, want true")
	}
	if cache.Remove("a") {
		t.Error("second Remove(a) = true, want false")
	}

	cache.Clear()
	if cache.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", cache.Len())
	}
}

func TestLRU_Stats(t *testing.T) {
	cache := NewLRU[int](10, time.Minute)
	cache.Add("a", 1)
	cache.Get("a")
	cache.Get("missing")

	hits, misses, size := cache.Stats()
	if hits != 1 || misses != 1 || size != 1 {
		t.Errorf("Stats() = (%d, %d, %d), want (1, 1, 1)", hits, misses, size)
	}
}

func TestLRU_Concurrent(t *testing.T) {
	cache := NewLRU[int](100, time.Minute)
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := string(rune('a' + (id+j)%26))
				cache.Add(key, j)
				cache.Get(key)
			}
		}(i)
	}
	wg.Wait()

	if cache.Len() > 26 {
		t.Errorf("Len() = %d, want <= 26", cache.Len())
	}
}
