// Package cache provides a small in-memory cache for scraped pages, so
// repeated content-scrape calls for the same URL don't re-fetch and
// re-extract on every request.
package cache

import (
	"sync"
	"time"

	"github.com/use-agent/ragforge/models"
)

// entry holds a cached page with its creation timestamp.
type entry struct {
	page      models.ScrapedPage
	createdAt time.Time
}

// Cache is a simple in-memory cache for scraped pages, keyed by URL.
// It is safe for concurrent use.
type Cache struct {
	mu         sync.RWMutex
	store      map[string]*entry
	maxEntries int
}

// New creates a new Cache with the given maximum number of entries.
// A background goroutine runs every 5 minutes to evict entries older
// than 1 hour.
func New(maxEntries int) *Cache {
	c := &Cache{
		store:      make(map[string]*entry),
		maxEntries: maxEntries,
	}

	go c.cleanupLoop()
	return c
}

// Get retrieves a cached page if it exists and is younger than maxAge.
// If maxAge <= 0, no cache lookup is performed.
func (c *Cache) Get(url string, maxAge time.Duration) (models.ScrapedPage, bool) {
	if maxAge <= 0 {
		return models.ScrapedPage{}, false
	}

	c.mu.RLock()
	e, ok := c.store[url]
	c.mu.RUnlock()

	if !ok {
		return models.ScrapedPage{}, false
	}
	if time.Since(e.createdAt) > maxAge {
		return models.ScrapedPage{}, false
	}
	return e.page, true
}

// Set stores a page in the cache. If the cache is at capacity, a random
// entry is evicted to make room (map iteration order is random in Go).
func (c *Cache) Set(url string, page models.ScrapedPage) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.store) >= c.maxEntries {
		for k := range c.store {
			delete(c.store, k)
			break
		}
	}

	c.store[url] = &entry{page: page, createdAt: time.Now()}
}

// cleanupLoop evicts entries older than 1 hour every 5 minutes.
func (c *Cache) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		cutoff := time.Now().Add(-1 * time.Hour)
		c.mu.Lock()
		for k, e := range c.store {
			if e.createdAt.Before(cutoff) {
				delete(c.store, k)
			}
		}
		c.mu.Unlock()
	}
}
