package cache

import (
	"fmt"
	"sync"
	"testing"
)

func TestMemoryTier_GetPut(t *testing.T) {
	m := newMemoryTier[string, int](3)

	if _, ok := m.get("a"); ok {
		t.Fatal("expected miss on empty tier")
	}

	m.put("a", 1)
	m.put("b", 2)
	m.put("c", 3)
	if m.len() != 3 {
		t.Fatalf("expected len 3, got %d", m.len())
	}
	for k, want := range map[string]int{"a": 1, "b": 2, "c": 3} {
		v, ok := m.get(k)
		if !ok || v != want {
			t.Fatalf("key %q: want %d got %d (ok=%v)", k, want, v, ok)
		}
	}
}

func TestMemoryTier_EvictsLeastRecent(t *testing.T) {
	m := newMemoryTier[string, int](2)
	m.put("a", 1)
	m.put("b", 2)
	m.get("a")
	m.put("c", 3)

	if _, ok := m.get("b"); ok {
		t.Fatal("expected 'b' to be evicted")
	}
	if _, ok := m.get("a"); !ok {
		t.Fatal("expected 'a' to remain")
	}
	if _, ok := m.get("c"); !ok {
		t.Fatal("expected 'c' to be present")
	}
}

func TestMemoryTier_UpdateAndClear(t *testing.T) {
	m := newMemoryTier[string, int](0)
	m.put("a", 1)
	m.put("a", 2)
	if v, _ := m.get("a"); v != 2 {
		t.Fatalf("expected updated value 2, got %d", v)
	}
	m.put("b", 3)
	if m.len() != 1 {
		t.Fatalf("capacity normalises to 1, got len %d", m.len())
	}
	m.clear()
	if m.len() != 0 {
		t.Fatalf("expected empty tier after clear, got %d", m.len())
	}
}

func TestMemoryTier_Concurrent(t *testing.T) {
	m := newMemoryTier[string, int](16)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("k%d", (i+j)%32)
				m.put(key, j)
				m.get(key)
			}
		}(i)
	}
	wg.Wait()
	if m.len() > 16 {
		t.Fatalf("tier grew past capacity: %d", m.len())
	}
}
