// Package buffer mediates between durable page storage and the in-memory
// pages that higher layers mutate. The cache maps page ids to resident
// pages, materializing each page lazily from its backing bytes on first
// load. Residency is what makes mutations visible across loads; nothing is
// persisted until the caller flushes.
package buffer

import (
	"errors"
	"fmt"
	"os"

	"gondor/storage/page"
)

// PageSource resolves a page id to a raw page image of exactly
// page.PAGE_SIZE bytes. The default source reads one file per page; the
// disk package's single-file manager is the other implementation, and any
// addressable blob store satisfies the contract.
type PageSource interface {
	ReadPage(pageId uint32) ([]byte, error)
	WritePage(pageId uint32, data []byte) error
}

// NewPageCache returns an unbounded, path-backed cache: each page id is
// registered against its own backing file before first load.
func NewPageCache() *PageCache {
	return &PageCache{
		pagePaths: map[uint32]string{},
		pages:     map[uint32]*page.Page{},
		replacer:  newLruReplacer(),
	}
}

// NewPageCacheWithSource returns a cache that materializes pages from source
// instead of per-page files. RegisterPath has no effect on such a cache.
func NewPageCacheWithSource(source PageSource) *PageCache {
	c := NewPageCache()
	c.source = source
	return c
}

// WithCapacity bounds the cache to capacity resident pages. Loading past the
// bound flushes and evicts the least recently used page first.
func (c *PageCache) WithCapacity(capacity int) *PageCache {
	c.capacity = capacity
	return c
}

// RegisterPath maps a page id to its backing file. Idempotent, last write
// wins; an already resident page keeps its in-memory instance.
func (c *PageCache) RegisterPath(pageId uint32, path string) {
	c.pagePaths[pageId] = path
}

// Load returns the resident page for pageId, materializing it from the
// backing bytes on first access. A resident page is returned as-is, so
// mutations through the returned reference stay visible to later loads.
// Returns ErrPageNotFound for an unregistered id and a *CacheError wrapping
// the cause when the bytes cannot be read or decoded.
func (c *PageCache) Load(pageId uint32) (*page.Page, error) {
	if p, ok := c.pages[pageId]; ok {
		c.replacer.recordAccess(pageId)
		return p, nil
	}

	raw, err := c.readRaw(pageId)
	if err != nil {
		if errors.Is(err, ErrPageNotFound) {
			return nil, err
		}
		return nil, &CacheError{Message: fmt.Sprintf("reading page %d", pageId), Err: err}
	}

	p, err := page.FromBytes(raw)
	if err != nil {
		return nil, &CacheError{Message: fmt.Sprintf("decoding page %d", pageId), Err: err}
	}

	if c.capacity > 0 && len(c.pages) >= c.capacity {
		if err := c.evictOne(); err != nil {
			return nil, err
		}
	}

	c.pages[pageId] = p
	c.replacer.recordAccess(pageId)

	return p, nil
}

// Flush writes the resident page's image back through its source. Fails
// with ErrPageNotFound when the page is not resident.
func (c *PageCache) Flush(pageId uint32) error {
	p, ok := c.pages[pageId]
	if !ok {
		return ErrPageNotFound
	}

	if err := c.writeRaw(pageId, p.Bytes()); err != nil {
		return &CacheError{Message: fmt.Sprintf("flushing page %d", pageId), Err: err}
	}

	return nil
}

// Forget drops a resident page without writing it back. Unflushed mutations
// are lost; the next Load materializes the page from its backing bytes again.
func (c *PageCache) Forget(pageId uint32) {
	delete(c.pages, pageId)
	c.replacer.remove(pageId)
}

// Resident reports whether the page is currently materialized in memory.
func (c *PageCache) Resident(pageId uint32) bool {
	_, ok := c.pages[pageId]
	return ok
}

// evictOne flushes and drops the least recently used resident page. There
// is no dirty tracking at this layer, so every victim is written back.
func (c *PageCache) evictOne() error {
	victimId, ok := c.replacer.evict()
	if !ok {
		return nil
	}

	victim := c.pages[victimId]
	if err := c.writeRaw(victimId, victim.Bytes()); err != nil {
		return &CacheError{Message: fmt.Sprintf("flushing page %d before eviction", victimId), Err: err}
	}
	delete(c.pages, victimId)

	return nil
}

func (c *PageCache) readRaw(pageId uint32) ([]byte, error) {
	if c.source != nil {
		return c.source.ReadPage(pageId)
	}

	path, ok := c.pagePaths[pageId]
	if !ok {
		return nil, ErrPageNotFound
	}

	return os.ReadFile(path)
}

func (c *PageCache) writeRaw(pageId uint32, data []byte) error {
	if c.source != nil {
		return c.source.WritePage(pageId, data)
	}

	path, ok := c.pagePaths[pageId]
	if !ok {
		return ErrPageNotFound
	}

	return os.WriteFile(path, data, 0644)
}

// PageCache is not safe for concurrent use; callers that share one across
// goroutines wrap it in their own mutual exclusion.
type PageCache struct {
	pagePaths map[uint32]string
	pages     map[uint32]*page.Page
	source    PageSource
	replacer  *lruReplacer
	capacity  int
}
