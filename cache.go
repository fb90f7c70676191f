package asciify

import "sync"

// DefaultCacheCapacity is the advisory capacity target for a new cache.
const DefaultCacheCapacity = 128

// Cache maps cache keys to previously computed artifacts.
// It is an explicit object rather than process-wide state; a Converter owns
// one by default, and WithCache lets several converters share one.
//
// The capacity is advisory only: no eviction policy is defined, entries live
// until Clear is called or the process exits.
//
// Cache is safe for concurrent lookup, insert and clear.
type Cache struct {
	mu       sync.RWMutex
	capacity int
	entries  map[string]*Artifact
	hits     uint64
	misses   uint64
}

// NewCache creates an empty cache with the given advisory capacity.
// A capacity <= 0 falls back to DefaultCacheCapacity.
func NewCache(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	return &Cache{
		capacity: capacity,
		entries:  make(map[string]*Artifact),
	}
}

// Lookup returns the artifact stored under key, if any.
// An absent key is a normal outcome, not an error.
func (c *Cache) Lookup(key string) (*Artifact, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	art, ok := c.entries[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return art, ok
}

// Insert stores artifact under key if the key is absent and returns whatever
// ends up stored. If the key is already present the call is a no-op and the
// existing artifact is returned, not the supplied one; callers must not
// assume their value was stored. This insert-if-absent semantic keeps the
// first answer computed for a key even when a second computation produced a
// different result.
func (c *Cache) Insert(key string, artifact *Artifact) *Artifact {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.entries[key]; ok {
		return existing
	}
	c.entries[key] = artifact
	return artifact
}

// Clear empties the cache. Safe to call concurrently with in-flight lookups.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*Artifact)
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// CacheStats represents cache statistics.
type CacheStats struct {
	Entries  int    // Current number of entries
	Capacity int    // Advisory capacity target
	Hits     uint64 // Lookup hits since creation
	Misses   uint64 // Lookup misses since creation
}

// Stats returns statistics about the cache.
func (c *Cache) Stats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return CacheStats{
		Entries:  len(c.entries),
		Capacity: c.capacity,
		Hits:     c.hits,
		Misses:   c.misses,
	}
}
