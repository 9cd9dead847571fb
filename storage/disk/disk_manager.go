// Package disk stores pages in a single database file. Page ids map to byte
// offsets inside the file; offsets freed by deletion are recycled before the
// file grows. The manager is a page source for the buffer layer and does no
// caching of its own.
package disk

import (
	"fmt"
	"os"

	"gondor/storage/page"
)

// DEFAULT_PAGE_CAPACITY is the number of pages a fresh database file can
// hold before it has to grow.
const DEFAULT_PAGE_CAPACITY = 64

func NewManager(file *os.File) *Manager {
	return &Manager{
		dbFile:       file,
		pageCapacity: DEFAULT_PAGE_CAPACITY,
		freeSlots:    []int{},
		pages:        map[uint32]int{},
	}
}

// WritePage stores a full page image at the page's file offset, allocating
// an offset on first write. The image must be exactly one page.
func (dm *Manager) WritePage(pageId uint32, data []byte) error {
	if len(data) != page.PAGE_SIZE {
		return fmt.Errorf("page %d: image is %d bytes, want %d", pageId, len(data), page.PAGE_SIZE)
	}

	offset, pageFound := dm.pages[pageId]
	if !pageFound {
		var err error
		offset, err = dm.allocatePage()
		if err != nil {
			return err
		}
		dm.pages[pageId] = offset
	}

	if _, err := dm.dbFile.WriteAt(data, int64(offset)); err != nil {
		return fmt.Errorf("error writing page %d at offset %d: %v", pageId, offset, err)
	}

	return nil
}

// ReadPage returns the raw image of a previously written page. Unlike the
// write path, reading never allocates; an id with no offset is an error so
// the cache layer can tell "never stored" apart from a failed read.
func (dm *Manager) ReadPage(pageId uint32) ([]byte, error) {
	offset, pageFound := dm.pages[pageId]
	if !pageFound {
		return nil, fmt.Errorf("page %d has no offset in db file", pageId)
	}

	buf := make([]byte, page.PAGE_SIZE)
	if _, err := dm.dbFile.ReadAt(buf, int64(offset)); err != nil {
		return nil, fmt.Errorf("error reading page %d from offset %d: %v", pageId, offset, err)
	}

	return buf, nil
}

// DeletePage recycles the page's file offset. The bytes stay in the file
// until a later write claims the slot.
func (dm *Manager) DeletePage(pageId uint32) {
	if offset, ok := dm.pages[pageId]; ok {
		dm.freeSlots = append(dm.freeSlots, offset)
		delete(dm.pages, pageId)
	}
}

func (dm *Manager) allocatePage() (int, error) {
	if len(dm.freeSlots) > 0 {
		offset := dm.freeSlots[0]
		dm.freeSlots = dm.freeSlots[1:]

		return offset, nil
	}

	if len(dm.pages)+1 > dm.pageCapacity {
		dm.pageCapacity *= 2
		if err := os.Truncate(dm.dbFile.Name(), int64(dm.pageCapacity)*page.PAGE_SIZE); err != nil {
			return -1, fmt.Errorf("error resizing db file: %v", err)
		}
	}

	return dm.getNextOffset(), nil
}

func (dm *Manager) getNextOffset() int {
	return len(dm.pages) * page.PAGE_SIZE
}

// Manager is not safe for concurrent use; callers serialize access.
type Manager struct {
	dbFile       *os.File
	pages        map[uint32]int
	freeSlots    []int
	pageCapacity int
}
