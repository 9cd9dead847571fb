package buffer

import (
	"fmt"
	"os"

	"github.com/vmihailenco/msgpack"
)

// SaveRegistry snapshots the page id to path table to a msgpack blob, so a
// later process can reopen the same set of pages without re-registering
// each one. Resident pages are not persisted, only the mapping.
func (c *PageCache) SaveRegistry(path string) error {
	data, err := msgpack.Marshal(c.pagePaths)
	if err != nil {
		return &CacheError{Message: "encoding page registry", Err: err}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return &CacheError{Message: fmt.Sprintf("writing page registry to %s", path), Err: err}
	}

	return nil
}

// LoadRegistry merges a saved snapshot into the path table. Entries in the
// snapshot win over existing registrations, matching RegisterPath's last
// write wins rule; already resident pages are untouched.
func (c *PageCache) LoadRegistry(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &CacheError{Message: fmt.Sprintf("reading page registry from %s", path), Err: err}
	}

	paths := map[uint32]string{}
	if err := msgpack.Unmarshal(data, &paths); err != nil {
		return &CacheError{Message: "decoding page registry", Err: err}
	}

	for pageId, pagePath := range paths {
		c.pagePaths[pageId] = pagePath
	}

	return nil
}
