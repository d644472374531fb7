package cache

import (
	"testing"
	"time"
)

func TestLRUGetSetDelete(t *testing.T) {
	c := NewLRUCache[int](10, time.Hour)

	if _, found := c.Get("missing"); found {
		t.Fatal("empty cache must miss")
	}

	c.Set("a", 1)
	c.Set("a", 2)
	if got, found := c.Get("a"); !found || got != 2 {
		t.Fatalf("Get(a) = %d, %v", got, found)
	}
	if c.Size() != 1 {
		t.Fatalf("size = %d, want 1", c.Size())
	}

	c.Delete("a")
	if _, found := c.Get("a"); found {
		t.Fatal("deleted key must miss")
	}
}

func TestLRUEvictsOldest(t *testing.T) {
	c := NewLRUCache[string](2, time.Hour)

	c.Set("a", "1")
	c.Set("b", "2")
	c.Get("a") // refresh a so b becomes oldest
	c.Set("c", "3")

	if _, found := c.Get("b"); found {
		t.Fatal("expected b to be evicted")
	}
	if _, found := c.Get("a"); !found {
		t.Fatal("expected a to survive")
	}
	if _, found := c.Get("c"); !found {
		t.Fatal("expected c to be present")
	}
}

func TestLRUTTL(t *testing.T) {
	c := NewLRUCache[int](10, 10*time.Millisecond)

	c.Set("a", 1)
	time.Sleep(20 * time.Millisecond)

	if _, found := c.Get("a"); found {
		t.Fatal("expired entry must miss")
	}

	c.Set("b", 2)
	time.Sleep(20 * time.Millisecond)
	if removed := c.CleanExpired(); removed != 1 {
		t.Fatalf("CleanExpired = %d, want 1", removed)
	}
	if c.Size() != 0 {
		t.Fatalf("size = %d, want 0", c.Size())
	}
}

func TestManagerCleansRegisteredCaches(t *testing.T) {
	c := NewLRUCache[int](10, time.Millisecond)
	c.Set("a", 1)

	m := NewManager()
	m.Register(c)
	m.StartCleanup(5 * time.Millisecond)

	deadline := time.After(time.Second)
	for c.Size() > 0 {
		select {
		case <-deadline:
			t.Fatal("manager never cleaned the cache")
		default:
			time.Sleep(5 * time.Millisecond)
		}
	}
	m.Stop()
}
