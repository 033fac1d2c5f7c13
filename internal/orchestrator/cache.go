package orchestrator

import (
	"strings"
	"sync"

	"soultalk-backend/internal/models"
)

// ResponseCache is a bounded FIFO map of (message, emotion) keys to reply
// text. Eviction is oldest-inserted-first; reads never refresh recency.
// Guarded by a mutex so concurrent turns (multiple tabs) keep the capacity
// invariant.
type ResponseCache struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]string
	order    []string
}

func NewResponseCache(capacity int) *ResponseCache {
	if capacity <= 0 {
		capacity = 50
	}
	return &ResponseCache{
		capacity: capacity,
		entries:  make(map[string]string, capacity),
		order:    make([]string, 0, capacity),
	}
}

// CacheKey derives the lookup key from normalized message text and the
// current emotion label.
func CacheKey(message string, emotion models.Emotion) string {
	return strings.ToLower(strings.TrimSpace(message)) + "|" + string(emotion)
}

func (c *ResponseCache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	value, ok := c.entries[key]
	return value, ok
}

// Put inserts a reply, evicting the single oldest key when at capacity.
// Overwriting an existing key keeps its original insertion position.
func (c *ResponseCache) Put(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; exists {
		c.entries[key] = value
		return
	}

	if len(c.order) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}

	c.entries[key] = value
	c.order = append(c.order, key)
}

func (c *ResponseCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
