package upstream

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// DefaultCacheTTL bounds how long an upstream answer is reused.
const DefaultCacheTTL = time.Hour

// CacheEntry is one remembered upstream lookup.
type CacheEntry struct {
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
}

// fresh reports whether the entry is still within the TTL at the given time.
func (e CacheEntry) fresh(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.Timestamp) < ttl
}

// Cache remembers upstream version lookups per tool, persisted as a JSON
// file so repeated checks stay within the unauthenticated API quota.
type Cache struct {
	// Entries holds all cached lookups, keyed by tool name
	Entries map[string]CacheEntry
	// TTL is the time-to-live for cache entries
	TTL time.Duration

	path    string
	mu      sync.RWMutex
	nowFunc func() time.Time
}

// CacheOption is a functional option for configuring Cache
type CacheOption func(*Cache)

// WithTTL sets a custom TTL for the cache
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *Cache) { c.TTL = ttl }
}

// WithNowFunc sets a custom time function for testing
func WithNowFunc(fn func() time.Time) CacheOption {
	return func(c *Cache) { c.nowFunc = fn }
}

// NewCache opens the cache file under stateDir, creating the directory
// when needed. A missing or corrupted file yields an empty cache; a
// corrupted file is replaced on the next write.
func NewCache(stateDir string, opts ...CacheOption) (*Cache, error) {
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	cache := &Cache{
		Entries: make(map[string]CacheEntry),
		TTL:     DefaultCacheTTL,
		path:    filepath.Join(stateDir, "cache.json"),
		nowFunc: time.Now,
	}
	for _, opt := range opts {
		opt(cache)
	}

	data, err := os.ReadFile(cache.path)
	if err != nil {
		return cache, nil
	}

	var stored struct {
		Entries map[string]CacheEntry `json:"entries"`
	}
	if err := json.Unmarshal(data, &stored); err == nil && stored.Entries != nil {
		cache.Entries = stored.Entries
	}

	return cache, nil
}

// Get returns a cached version when present and still fresh.
func (c *Cache) Get(tool string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.Entries[tool]
	if !ok || !entry.fresh(c.nowFunc(), c.TTL) {
		return "", false
	}
	return entry.Version, true
}

// GetWithForce is Get, except force always reports a miss.
func (c *Cache) GetWithForce(tool string, force bool) (string, bool) {
	if force {
		return "", false
	}
	return c.Get(tool)
}

// Set records a lookup under the current timestamp and writes the cache
// out.
func (c *Cache) Set(tool, version, source string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.Entries[tool] = CacheEntry{
		Version:   version,
		Timestamp: c.nowFunc(),
		Source:    source,
	}
	return c.write()
}

// Delete drops a tool from the cache and writes the cache out.
func (c *Cache) Delete(tool string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.Entries, tool)
	return c.write()
}

// Save persists the cache to disk.
func (c *Cache) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.write()
}

// write persists the cache; the caller holds the write lock. The file is
// written to a temp path and renamed so readers never see a partial file.
func (c *Cache) write() error {
	payload := struct {
		Entries map[string]CacheEntry `json:"entries"`
	}{Entries: c.Entries}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache: %w", err)
	}

	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to rename cache file: %w", err)
	}
	return nil
}
