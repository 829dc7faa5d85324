package canvas

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// defaultCacheSize bounds how many GET responses a ResponseCache holds.
const defaultCacheSize = 512

// CacheEntry is one cached GET: the raw (decoded) body and its next-page link.
type CacheEntry struct {
	Body []byte
	Next string
}

// ResponseCache is an in-memory LRU of GET responses keyed by request URL. Entries expire
// after the cache TTL and are dropped in the background.
type ResponseCache struct {
	lru *expirable.LRU[string, CacheEntry]
}

// NewResponseCache returns a cache whose entries expire after ttl. ttl <= 0 disables expiry.
func NewResponseCache(ttl time.Duration) *ResponseCache {
	return newResponseCache(defaultCacheSize, ttl)
}

func newResponseCache(size int, ttl time.Duration) *ResponseCache {
	return &ResponseCache{lru: expirable.NewLRU[string, CacheEntry](size, nil, ttl)}
}

func (c *ResponseCache) Get(key string) (CacheEntry, bool) {
	return c.lru.Get(key)
}

func (c *ResponseCache) Put(key string, e CacheEntry) {
	c.lru.Add(key, e)
}

func (c *ResponseCache) Len() int {
	return c.lru.Len()
}

// Purge drops everything.
func (c *ResponseCache) Purge() {
	c.lru.Purge()
}
