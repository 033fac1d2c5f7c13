package orchestrator

import (
	"fmt"
	"testing"

	"soultalk-backend/internal/models"
)

func TestCachePutGet(t *testing.T) {
	cache := NewResponseCache(50)

	key := CacheKey("  How Are You? ", models.EmotionSad)
	if key != "how are you?|sad" {
		t.Fatalf("unexpected cache key: %q", key)
	}

	cache.Put(key, "I'm here with you.")
	got, ok := cache.Get(key)
	if !ok || got != "I'm here with you." {
		t.Fatalf("expected cached value, got %q (ok=%v)", got, ok)
	}
}

func TestCacheMiss(t *testing.T) {
	cache := NewResponseCache(50)
	if _, ok := cache.Get("nope|neutral"); ok {
		t.Fatal("expected miss for unknown key")
	}
}

func TestCacheEvictsOldestInsertedAtCapacity(t *testing.T) {
	cache := NewResponseCache(50)

	for i := 0; i < 51; i++ {
		cache.Put(fmt.Sprintf("msg-%d|neutral", i), fmt.Sprintf("reply-%d", i))
	}

	if cache.Len() != 50 {
		t.Fatalf("expected 50 entries after 51 inserts, got %d", cache.Len())
	}

	if _, ok := cache.Get("msg-0|neutral"); ok {
		t.Fatal("expected first-inserted key to be evicted")
	}

	for i := 1; i <= 50; i++ {
		key := fmt.Sprintf("msg-%d|neutral", i)
		if _, ok := cache.Get(key); !ok {
			t.Fatalf("expected key %q to survive eviction", key)
		}
	}
}

func TestCacheReadsDoNotRefreshRecency(t *testing.T) {
	cache := NewResponseCache(2)

	cache.Put("a|neutral", "1")
	cache.Put("b|neutral", "2")

	// A read of the oldest key must not save it from eviction (FIFO, not LRU).
	cache.Get("a|neutral")
	cache.Put("c|neutral", "3")

	if _, ok := cache.Get("a|neutral"); ok {
		t.Fatal("expected oldest-inserted key to be evicted despite recent read")
	}
	if _, ok := cache.Get("b|neutral"); !ok {
		t.Fatal("expected second key to remain")
	}
	if _, ok := cache.Get("c|neutral"); !ok {
		t.Fatal("expected newest key to remain")
	}
}

func TestCacheOverwriteDoesNotGrow(t *testing.T) {
	cache := NewResponseCache(3)

	cache.Put("a|neutral", "1")
	cache.Put("a|neutral", "updated")

	if cache.Len() != 1 {
		t.Fatalf("expected 1 entry after overwrite, got %d", cache.Len())
	}
	got, _ := cache.Get("a|neutral")
	if got != "updated" {
		t.Fatalf("expected overwritten value, got %q", got)
	}
}
