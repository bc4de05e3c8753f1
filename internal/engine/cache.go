package engine

import (
	"sync"
	"time"
)

// MoodCache memoizes classification results by normalized artist name.
// It is shared across requests, so all access is locked; entries
// expire after the TTL and the entry count is bounded.
type MoodCache struct {
	mu         sync.Mutex
	entries    map[string]moodCacheEntry
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

type moodCacheEntry struct {
	moods     []Mood
	expiresAt time.Time
}

const (
	defaultCacheTTL     = 24 * time.Hour
	defaultCacheEntries = 10000
)

func NewMoodCache() *MoodCache {
	return &MoodCache{
		entries:    make(map[string]moodCacheEntry),
		ttl:        defaultCacheTTL,
		maxEntries: defaultCacheEntries,
		now:        time.Now,
	}
}

func (c *MoodCache) Get(name string) ([]Mood, bool) {
	key := normalizeName(name)
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().After(entry.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return entry.moods, true
}

func (c *MoodCache) Put(name string, moods []Mood) {
	key := normalizeName(name)
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= c.maxEntries {
		c.evictLocked()
	}
	c.entries[key] = moodCacheEntry{
		moods:     moods,
		expiresAt: c.now().Add(c.ttl),
	}
}

// evictLocked drops expired entries, and if nothing has expired yet,
// the entry closest to expiry.
func (c *MoodCache) evictLocked() {
	now := c.now()
	dropped := false
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
			dropped = true
		}
	}
	if dropped {
		return
	}

	var oldestKey string
	var oldest time.Time
	for key, entry := range c.entries {
		if oldestKey == "" || entry.expiresAt.Before(oldest) {
			oldestKey = key
			oldest = entry.expiresAt
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}

func (c *MoodCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
