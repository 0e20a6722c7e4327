// internal/cache/memory.go
package cache

import (
	"container/list"
	"slices"
	"sync"
	"time"

	"zonewarden.io/internal/models"
)

// Cache holds zone record snapshots keyed by string
type Cache interface {
	Get(key string) ([]models.Record, bool)
	Set(key string, records []models.Record, ttl time.Duration)
	Delete(key string)
	Clear()

	Size() int
	Stats() Stats
	Close() error
}

// SnapshotKey returns the cache key for a zone's record snapshot
func SnapshotKey(zoneID string) string {
	return "records:" + zoneID
}

// Stats is a point-in-time view of cache effectiveness. HitRate is a percentage.
type Stats struct {
	Hits        int64     `json:"hits"`
	Misses      int64     `json:"misses"`
	Entries     int       `json:"entries"`
	Evictions   int64     `json:"evictions"`
	LastCleanup time.Time `json:"last_cleanup"`
	HitRate     float64   `json:"hit_rate"`
}

func hitRate(hits, misses int64) float64 {
	if hits+misses == 0 {
		return 0
	}
	return float64(hits) * 100 / float64(hits+misses)
}

type cacheEntry struct {
	key       string
	records   []models.Record
	expiresAt time.Time
}

// MemoryCache is an in-process LRU cache with per-entry TTL. Snapshots are copied
// on the way in and out so callers never share a backing array with the cache.
type MemoryCache struct {
	mu         sync.Mutex
	items      map[string]*list.Element
	order      *list.List // front is most recently used
	maxEntries int
	stats      Stats
	now        func() time.Time

	cleanupInterval time.Duration
	cleanupStop     chan struct{}
	cleanupDone     chan struct{}
}

// Config sizes the cache. MaxEntries <= 0 means unbounded; CleanupInterval <= 0
// disables the background sweep and leaves expiry to Get.
type Config struct {
	MaxEntries      int
	CleanupInterval time.Duration
}

func DefaultConfig() *Config {
	return &Config{
		MaxEntries:      10000,
		CleanupInterval: 60 * time.Second,
	}
}

// NewMemoryCache starts the sweep goroutine when cfg asks for one; Close stops it
func NewMemoryCache(cfg *Config) *MemoryCache {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	c := &MemoryCache{
		items:           make(map[string]*list.Element),
		order:           list.New(),
		maxEntries:      cfg.MaxEntries,
		now:             time.Now,
		cleanupInterval: cfg.CleanupInterval,
	}

	if cfg.CleanupInterval > 0 {
		c.cleanupStop = make(chan struct{})
		c.cleanupDone = make(chan struct{})
		go c.cleanupLoop()
	}

	return c
}

// Get returns a copy of the snapshot stored under key
func (c *MemoryCache) Get(key string) ([]models.Record, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		c.stats.Misses++
		return nil, false
	}

	entry := elem.Value.(*cacheEntry)
	if c.now().After(entry.expiresAt) {
		c.removeElement(elem)
		c.stats.Misses++
		return nil, false
	}

	c.order.MoveToFront(elem)
	c.stats.Hits++
	return slices.Clone(entry.records), true
}

// Set stores a copy of records under key for ttl
func (c *MemoryCache) Set(key string, records []models.Record, ttl time.Duration) {
	if ttl <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	entry := &cacheEntry{
		key:       key,
		records:   slices.Clone(records),
		expiresAt: c.now().Add(ttl),
	}

	if elem, ok := c.items[key]; ok {
		elem.Value = entry
		c.order.MoveToFront(elem)
		return
	}

	for c.maxEntries > 0 && c.order.Len() >= c.maxEntries {
		c.removeElement(c.order.Back())
		c.stats.Evictions++
	}

	c.items[key] = c.order.PushFront(entry)
}

func (c *MemoryCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.removeElement(elem)
	}
}

func (c *MemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*list.Element)
	c.order.Init()
}

func (c *MemoryCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *MemoryCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := c.stats
	stats.Entries = len(c.items)
	stats.HitRate = hitRate(stats.Hits, stats.Misses)
	return stats
}

// Close stops the background cleanup
func (c *MemoryCache) Close() error {
	if c.cleanupStop != nil {
		close(c.cleanupStop)
		<-c.cleanupDone
		c.cleanupStop = nil
	}
	return nil
}

func (c *MemoryCache) cleanupLoop() {
	defer close(c.cleanupDone)

	ticker := time.NewTicker(c.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanupExpired()
		case <-c.cleanupStop:
			return
		}
	}
}

// cleanupExpired sweeps every expired snapshot in one pass
func (c *MemoryCache) cleanupExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for _, elem := range c.items {
		if now.After(elem.Value.(*cacheEntry).expiresAt) {
			c.removeElement(elem)
		}
	}
	c.stats.LastCleanup = now
}

// removeElement must be called with the mutex held
func (c *MemoryCache) removeElement(elem *list.Element) {
	entry := c.order.Remove(elem).(*cacheEntry)
	delete(c.items, entry.key)
}
