// Package services: services/cache.go
// Local Resource Cache: the in-memory mirror of one fetched collection. The
// cache exclusively owns the in-memory sequence; the filtered view the
// console renders is always derived from a fresh Items() snapshot after one
// of the four mutation primitives completes, never speculatively.
package services

import (
	"sync"

	"go-footy-trivia/logger"
	"go-footy-trivia/models"
)

// ResourceCache mirrors one remote collection in memory. All operations are
// synchronous and O(n), which is fine at the expected collection sizes
// (hundreds of rows).
type ResourceCache struct {
	mu    sync.Mutex
	items []models.Doc
}

// NewResourceCache creates an empty cache.
func NewResourceCache() *ResourceCache {
	return &ResourceCache{}
}

// ReplaceAll swaps the cache contents for a freshly fetched collection.
// Documents are cloned so later remote decodes cannot alias cached state.
func (c *ResourceCache) ReplaceAll(items []models.Doc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make([]models.Doc, 0, len(items))
	for _, d := range items {
		c.items = append(c.items, d.Clone())
	}
	logger.Debug.Printf("cache: replaced with %d items", len(c.items))
}

// ApplyUpdate merges the patch onto the cached document with the given id.
// Returns false when no such document is cached. Untargeted documents are
// never touched.
func (c *ResourceCache) ApplyUpdate(id string, patch models.Doc) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, d := range c.items {
		if d.ID() == id {
			for k, v := range patch {
				if k == "id" {
					continue
				}
				d[k] = v
			}
			return true
		}
	}
	logger.Warn.Printf("cache: ApplyUpdate for unknown id %q", id)
	return false
}

// ApplyInsert appends a new document to the cache.
func (c *ResourceCache) ApplyInsert(doc models.Doc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, doc.Clone())
}

// ApplyRemove deletes the document with the given id. Returns false when it
// was not cached.
func (c *ResourceCache) ApplyRemove(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, d := range c.items {
		if d.ID() == id {
			c.items = append(c.items[:i:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

// Items returns a snapshot of the cache in cache order. Each document is
// cloned, so callers can hand snapshots to templates without locking.
func (c *ResourceCache) Items() []models.Doc {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Doc, 0, len(c.items))
	for _, d := range c.items {
		out = append(out, d.Clone())
	}
	return out
}

// Get returns a clone of the cached document with the given id.
func (c *ResourceCache) Get(id string) (models.Doc, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, d := range c.items {
		if d.ID() == id {
			return d.Clone(), true
		}
	}
	return nil, false
}

// Len returns the number of cached documents.
func (c *ResourceCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
