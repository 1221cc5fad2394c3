// Package services holds the outbound integrations: the SRD stat API
// client, the narrative agent backends and their test doubles.
package services

import (
	"context"
	"sync"
)

// Cache defines the interface for caching SRD lookups
type Cache interface {
	// Get retrieves a value by key; ok is false on miss
	Get(ctx context.Context, key string) (string, bool)

	// Set stores a key-value pair
	Set(ctx context.Context, key, value string)
}

// MemoryCache is a process-local cache. SRD records are static
// reference data, so entries never expire.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]string
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]string),
	}
}

func (c *MemoryCache) Get(ctx context.Context, key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[key]
	return v, ok
}

func (c *MemoryCache) Set(ctx context.Context, key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
}
