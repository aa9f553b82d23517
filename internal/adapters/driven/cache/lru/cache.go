// Package lru provides an expiring LRU cache for presigned URLs.
package lru

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/custodia-labs/kbhub-cli/internal/core/ports/driven"
)

// Ensure Cache implements the interface.
var _ driven.URLCache = (*Cache)(nil)

// Cache holds presigned URLs for less than their signature lifetime.
type Cache struct {
	lru *expirable.LRU[string, string]
}

// New creates a cache of at most size entries, each living for ttl.
func New(size int, ttl time.Duration) *Cache {
	return &Cache{lru: expirable.NewLRU[string, string](size, nil, ttl)}
}

// Get returns the cached URL for key.
func (c *Cache) Get(key string) (string, bool) {
	return c.lru.Get(key)
}

// Add stores url under key.
func (c *Cache) Add(key, url string) {
	c.lru.Add(key, url)
}

// Remove drops key.
func (c *Cache) Remove(key string) {
	c.lru.Remove(key)
}

// Purge drops every entry.
func (c *Cache) Purge() {
	c.lru.Purge()
}

// Len returns the number of live entries.
func (c *Cache) Len() int {
	return c.lru.Len()
}
