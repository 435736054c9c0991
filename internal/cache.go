package internal

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/geekboywoot/umjammer/internal/lcdui"
	"github.com/go-co-op/gocron/v2"
)

type cacheEntry struct {
	img      *lcdui.Image
	lastUsed time.Time
}

// ImageCache holds decoded immutable images by content id. Entries unused
// for longer than the TTL are dropped by Sweep.
type ImageCache struct {
	mu        sync.Mutex
	ttl       time.Duration
	entries   map[string]*cacheEntry
	lastSweep time.Time
	now       func() time.Time
}

func NewImageCache(ttl time.Duration) *ImageCache {
	return &ImageCache{
		ttl:       ttl,
		entries:   make(map[string]*cacheEntry),
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

// ContentID is the hex SHA-256 of data.
func ContentID(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func (c *ImageCache) Put(id string, img *lcdui.Image) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[id] = &cacheEntry{img: img, lastUsed: c.now()}
}

func (c *ImageCache) Get(id string) (*lcdui.Image, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[id]
	if !ok {
		return nil, false
	}
	e.lastUsed = c.now()
	return e.img, true
}

func (c *ImageCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Sweep removes expired entries and returns how many were dropped.
func (c *ImageCache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	removed := 0
	for id, e := range c.entries {
		if now.Sub(e.lastUsed) > c.ttl {
			delete(c.entries, id)
			removed++
		}
	}
	c.lastSweep = now
	return removed
}

func (c *ImageCache) sinceLastSweep() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now().Sub(c.lastSweep)
}

// NewSweeper starts a scheduler that sweeps cache every interval.
func NewSweeper(cache *ImageCache, interval time.Duration) (gocron.Scheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if n := cache.Sweep(); n > 0 {
				log.Printf("Evicted %d images from cache (remaining=%d)", n, cache.Len())
			}
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	scheduler.Start()
	return scheduler, nil
}

// CacheCheck is a health check that fails once the sweeper has stopped
// running.
type CacheCheck struct {
	cache    *ImageCache
	interval time.Duration
}

func NewCacheCheck(cache *ImageCache, interval time.Duration) *CacheCheck {
	return &CacheCheck{cache: cache, interval: interval}
}

func (c *CacheCheck) Pass() bool {
	return c.cache.sinceLastSweep() <= 2*c.interval
}

func (c *CacheCheck) Name() string {
	return "image-cache"
}
