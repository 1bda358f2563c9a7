package homewizard

import (
	"sync"
	"time"
)

type cacheEntry struct {
	body     string
	storedAt time.Time
}

// ResponseCache stores raw response bodies by URL. Validity is decided per
// lookup from the max-age the caller supplies; entries are only ever
// overwritten, never purged, since the set of device endpoints is small.
type ResponseCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	now     func() time.Time
}

// NewResponseCache creates an empty cache. A nil clock means time.Now.
func NewResponseCache(now func() time.Time) *ResponseCache {
	if now == nil {
		now = time.Now
	}
	return &ResponseCache{
		entries: make(map[string]cacheEntry),
		now:     now,
	}
}

// Put stores body for url with the current time, replacing any older entry.
func (c *ResponseCache) Put(url, body string) {
	c.mu.Lock()
	c.entries[url] = cacheEntry{body: body, storedAt: c.now()}
	c.mu.Unlock()
}

// Get returns the stored body without checking its age.
func (c *ResponseCache) Get(url string) (string, bool) {
	c.mu.RLock()
	e, ok := c.entries[url]
	c.mu.RUnlock()
	return e.body, ok
}

// IsValid reports whether an entry exists for url and is at most maxAge old.
func (c *ResponseCache) IsValid(url string, maxAge time.Duration) bool {
	_, ok := c.Fresh(url, maxAge)
	return ok
}

// Fresh returns the body for url when it is at most maxAge old.
func (c *ResponseCache) Fresh(url string, maxAge time.Duration) (string, bool) {
	c.mu.RLock()
	e, ok := c.entries[url]
	c.mu.RUnlock()
	if !ok || c.now().Sub(e.storedAt) > maxAge {
		return "", false
	}
	return e.body, true
}

func (c *ResponseCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
