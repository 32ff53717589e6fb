package cadence

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestDerivedCacheComputesOnce(t *testing.T) {
	var cache DerivedCache[int]
	var calls int32

	compute := func() int {
		atomic.AddInt32(&calls, 1)
		return 42
	}

	if v := cache.Get(compute); v != 42 {
		t.Fatalf("got %d, want 42", v)
	}
	if v := cache.Get(compute); v != 42 {
		t.Fatalf("got %d, want 42", v)
	}
	if calls != 1 {
		t.Fatalf("compute called %d times, want 1", calls)
	}
}

func TestDerivedCacheInvalidateForcesRecompute(t *testing.T) {
	var cache DerivedCache[int]
	n := 0
	compute := func() int {
		n++
		return n
	}

	if v := cache.Get(compute); v != 1 {
		t.Fatalf("got %d, want 1", v)
	}
	cache.Invalidate()
	if v := cache.Get(compute); v != 2 {
		t.Fatalf("got %d, want 2", v)
	}
}

func TestDerivedCachePeekReportsValidity(t *testing.T) {
	var cache DerivedCache[string]
	if _, ok := cache.Peek(); ok {
		t.Fatalf("fresh cache should not be valid")
	}
	cache.Get(func() string { return "x" })
	if v, ok := cache.Peek(); !ok || v != "x" {
		t.Fatalf("got (%q, %v), want (\"x\", true)", v, ok)
	}
}

func TestDerivedCacheConcurrentGetAgrees(t *testing.T) {
	var cache DerivedCache[int]
	var calls int32
	compute := func() int {
		atomic.AddInt32(&calls, 1)
		return 7
	}

	var wg sync.WaitGroup
	results := make([]int, 64)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = cache.Get(compute)
		}(i)
	}
	wg.Wait()

	for i, v := range results {
		if v != 7 {
			t.Fatalf("result[%d] = %d, want 7", i, v)
		}
	}
}
