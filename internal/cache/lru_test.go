package cache

import (
	"strconv"
	"testing"
	"time"
)

func TestLRUCache_SetGet(t *testing.T) {
	c := NewLRUCache[string](3, time.Minute)

	c.Set("a", "alpha")
	got, ok := c.Get("a")
	if !ok {
		t.Fatal("expected hit for key a")
	}
	if got != "alpha" {
		t.Errorf("got %q, want %q", got, "alpha")
	}

	if _, ok := c.Get("missing"); ok {
		t.Error("expected miss for unknown key")
	}
}

func TestLRUCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRUCache[int](3, time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	// Touch a so b becomes the oldest.
	c.Get("a")

	c.Set("d", 4)

	if _, ok := c.Get("b"); ok {
		t.Error("expected b to be evicted")
	}
	for _, key := range []string{"a", "c", "d"} {
		if _, ok := c.Get(key); !ok {
			t.Errorf("expected %s to survive eviction", key)
		}
	}
	if c.Size() != 3 {
		t.Errorf("size = %d, want 3", c.Size())
	}
}

func TestLRUCache_Expiry(t *testing.T) {
	c := NewLRUCache[int](10, 10*time.Millisecond)

	c.Set("a", 1)
	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("a"); ok {
		t.Error("expected expired entry to miss")
	}
	if c.Size() != 0 {
		t.Errorf("size = %d, want 0 after expiry eviction", c.Size())
	}
}

func TestLRUCache_OverwriteKeepsSingleEntry(t *testing.T) {
	c := NewLRUCache[int](2, time.Minute)

	c.Set("a", 1)
	c.Set("a", 2)

	got, ok := c.Get("a")
	if !ok || got != 2 {
		t.Fatalf("got %d, %v; want 2, true", got, ok)
	}
	if c.Size() != 1 {
		t.Errorf("size = %d, want 1", c.Size())
	}
}

func TestLRUCache_Delete(t *testing.T) {
	c := NewLRUCache[int](10, time.Minute)

	for i := 0; i < 5; i++ {
		c.Set(strconv.Itoa(i), i)
	}
	c.Delete("3")

	if _, ok := c.Get("3"); ok {
		t.Error("expected deleted key to miss")
	}
	if c.Size() != 4 {
		t.Errorf("size = %d, want 4", c.Size())
	}
}
