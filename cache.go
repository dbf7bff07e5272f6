package petsite

import (
	"slices"
	"strconv"
	"strings"
	"sync"
)

// ImageCache memoises optimiser results for the lifetime of one build, so a
// photo used on several pages is only processed once.
type ImageCache struct {
	mu      sync.RWMutex
	entries map[string]ImageMetadata
}

// NewImageCache creates an empty ImageCache.
func NewImageCache() *ImageCache {
	return &ImageCache{entries: make(map[string]ImageMetadata)}
}

// Get returns the cached metadata for key, calling load to fill it on a miss.
// It tries a read lock first; only takes the write lock if load is needed.
// Failed loads are not cached.
func (c *ImageCache) Get(key string, load func() (ImageMetadata, error)) (ImageMetadata, error) {
	c.mu.RLock()
	if m, ok := c.entries[key]; ok {
		c.mu.RUnlock()
		return m, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if m, ok := c.entries[key]; ok {
		return m, nil
	}
	m, err := load()
	if err != nil {
		return nil, err
	}
	c.entries[key] = m
	return m, nil
}

// Len returns the number of cached entries.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Invalidate clears the cache so the next read reprocesses.
func (c *ImageCache) Invalidate() {
	c.mu.Lock()
	c.entries = make(map[string]ImageMetadata)
	c.mu.Unlock()
}

func cacheKey(src string, widths []int, formats []string) string {
	ws := slices.Clone(widths)
	slices.Sort(ws)
	parts := make([]string, 0, len(ws))
	for _, w := range ws {
		parts = append(parts, strconv.Itoa(w))
	}
	return src + "|" + strings.Join(parts, ",") + "|" + strings.Join(formats, ",")
}
