// Package cache holds the process-wide dataset cache. Entries are keyed by
// source URL, never expire, and are immutable once published.
package cache

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/singleflight"

	"titanicdash/domain/dataset"
	"titanicdash/internal"
	"titanicdash/ports"
)

// DatasetCache implements ports.DatasetCache. Concurrent first requests for
// the same key share one load; failed loads are not cached.
type DatasetCache struct {
	mu      sync.RWMutex
	entries map[string]*dataset.Dataset
	group   singleflight.Group
	logger  *internal.Logger
}

var _ ports.DatasetCache = (*DatasetCache)(nil)

// New creates an empty cache
func New(logger *internal.Logger) *DatasetCache {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &DatasetCache{
		entries: make(map[string]*dataset.Dataset),
		logger:  logger.With("DatasetCache"),
	}
}

// GetOrLoad returns the cached dataset for key, running loader at most once
// per key among concurrent callers.
func (c *DatasetCache) GetOrLoad(ctx context.Context, key string, loader ports.DatasetLoader) (*dataset.Dataset, error) {
	if ds, ok := c.Get(key); ok {
		return ds, nil
	}

	v, err, shared := c.group.Do(key, func() (interface{}, error) {
		// A caller that lost the race to a finished load lands here after
		// the entry was published.
		if ds, ok := c.Get(key); ok {
			return ds, nil
		}

		c.logger.Info("cache miss for %s, loading", key)
		ds, err := loader(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.entries[key] = ds
		c.mu.Unlock()
		return ds, nil
	})
	if err != nil {
		c.logger.Warn("load of %s failed: %v", key, err)
		return nil, err
	}
	if shared {
		c.logger.Debug("shared in-flight load for %s", key)
	}
	return v.(*dataset.Dataset), nil
}

// Get returns a published entry
func (c *DatasetCache) Get(key string) (*dataset.Dataset, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ds, ok := c.entries[key]
	return ds, ok
}

// Len returns the number of published entries
func (c *DatasetCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Keys returns the published keys in sorted order
func (c *DatasetCache) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
