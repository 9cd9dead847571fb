// Package page implements the slotted page, the fixed-size unit of tuple
// storage that everything above the disk sits on.
//
// A page is a 4096 byte buffer split into three regions that never overlap:
// a 16 byte header, a slot directory growing forward from byte 16, and a
// tuple data region growing backward from byte 4096. The directory and the
// data grow toward each other; the header tracks the free gap between them.
// Every slot is a 4 byte entry holding the tuple's absolute offset and its
// length, so a slot id is just the entry's index into the directory.
package page

import (
	"encoding/binary"
	"fmt"
	"slices"
)

// PAGE_SIZE is the fixed size of a page in bytes; a page is never resized
// or reallocated.
const PAGE_SIZE = 4096

// HEADER_SIZE is the size of the page header in bytes.
const HEADER_SIZE = 16

// SLOT_SIZE is the size of one slot directory entry: a 2 byte tuple offset
// followed by a 2 byte tuple length, both little-endian.
const SLOT_SIZE = 4

func New(pageId uint32) *Page {
	p := &Page{}
	p.writeHeader(newHeader(pageId))
	return p
}

// FromBytes reinterprets a raw 4096 byte image as a page. It rejects images
// whose header cannot describe a page: the free region must sit between the
// header and the page end, the directory must hold whole slots, and the free
// space counter can never be smaller than the physical gap it describes.
func FromBytes(data []byte) (*Page, error) {
	if len(data) != PAGE_SIZE {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidPage, len(data), PAGE_SIZE)
	}

	h := decodeHeader(data)
	begin, end := int(h.OffsetBeginFreeSpace), int(h.OffsetEndFreeSpace)

	if begin < HEADER_SIZE || begin > end || end > PAGE_SIZE {
		return nil, fmt.Errorf("%w: free region [%d, %d) out of bounds", ErrInvalidPage, begin, end)
	}
	if (begin-HEADER_SIZE)%SLOT_SIZE != 0 {
		return nil, fmt.Errorf("%w: slot directory ends mid-slot at %d", ErrInvalidPage, begin)
	}
	if int(h.FreeSpaceTotal) < end-begin {
		return nil, fmt.Errorf("%w: free space %d smaller than free region", ErrInvalidPage, h.FreeSpaceTotal)
	}

	p := &Page{}
	copy(p.contents[:], data)
	return p, nil
}

func (p *Page) Header() Header {
	return decodeHeader(p.contents[:HEADER_SIZE])
}

// SlotCount returns the number of allocated slots, live and deleted alike.
func (p *Page) SlotCount() uint16 {
	h := p.Header()
	return (h.OffsetBeginFreeSpace - HEADER_SIZE) / SLOT_SIZE
}

// FreeSpace returns the bytes available for new slot entries and tuple data.
// After grow or shrink updates this includes bytes stranded in the data
// region that only Compact can make contiguous again.
func (p *Page) FreeSpace() uint16 {
	return p.Header().FreeSpaceTotal
}

// Bytes returns the full raw image of the page for write-back. The slice
// aliases the page; the caller must not hold it across mutations.
func (p *Page) Bytes() []byte {
	return p.contents[:]
}

// InsertTuple places tuple in the data region, allocates the next sequential
// slot id for it and returns that id. Slot ids are never reused; the new
// tuple lands immediately before the current free region end.
func (p *Page) InsertTuple(tuple []byte) (uint16, error) {
	h := p.Header()
	need := len(tuple) + SLOT_SIZE

	if need > int(h.FreeSpaceTotal) {
		return 0, ErrNotEnoughSpace
	}
	// The counter may include stranded bytes; the tuple still has to fit in
	// the physical gap between the directory and the data region.
	if need > int(h.OffsetEndFreeSpace)-int(h.OffsetBeginFreeSpace) {
		return 0, ErrNotEnoughSpace
	}

	slotOffset := int(h.OffsetBeginFreeSpace)
	slotId := uint16((slotOffset - HEADER_SIZE) / SLOT_SIZE)
	tupleOffset := int(h.OffsetEndFreeSpace) - len(tuple)

	copy(p.contents[tupleOffset:h.OffsetEndFreeSpace], tuple)
	p.writeSlot(slotId, uint16(tupleOffset), uint16(len(tuple)))

	h.FreeSpaceTotal -= uint16(need)
	h.OffsetBeginFreeSpace += SLOT_SIZE
	h.OffsetEndFreeSpace = uint16(tupleOffset)
	p.writeHeader(h)

	return slotId, nil
}

// GetData returns a read-only view into the tuple stored at slotId. The
// slice aliases the page buffer; callers that keep it across mutations must
// copy it first.
func (p *Page) GetData(slotId uint16) ([]byte, error) {
	offset, length, err := p.liveSlot(slotId)
	if err != nil {
		return nil, err
	}
	return p.contents[offset : offset+length], nil
}

// UpdateTuple replaces the tuple at slotId with tuple. A tuple that fits its
// old spot is overwritten in place; a longer one is relocated to a freshly
// carved region at the free space end and its old bytes are stranded until
// Compact reclaims them. Either way the slot id is stable and returned.
func (p *Page) UpdateTuple(slotId uint16, tuple []byte) (uint16, error) {
	h := p.Header()
	oldOffset, oldLength, err := p.liveSlot(slotId)
	if err != nil {
		return 0, err
	}

	if len(tuple) > oldLength {
		if len(tuple) > int(h.FreeSpaceTotal) {
			return 0, ErrNotEnoughSpace
		}
		newOffset := int(h.OffsetEndFreeSpace) - len(tuple)
		if newOffset < int(h.OffsetBeginFreeSpace) {
			return 0, ErrNotEnoughSpace
		}

		copy(p.contents[newOffset:h.OffsetEndFreeSpace], tuple)
		p.writeSlot(slotId, uint16(newOffset), uint16(len(tuple)))
		h.OffsetEndFreeSpace = uint16(newOffset)
	} else {
		copy(p.contents[oldOffset:oldOffset+len(tuple)], tuple)
		p.writeSlot(slotId, uint16(oldOffset), uint16(len(tuple)))
	}

	// The old bytes are handed back whether the tuple grew or shrank, so the
	// counter moves by the signed delta only.
	h.FreeSpaceTotal = uint16(int(h.FreeSpaceTotal) - (len(tuple) - oldLength))
	p.writeHeader(h)

	return slotId, nil
}

// DeleteTuple marks slotId as deleted by pointing its slot at offset 0,
// which can never be a valid tuple start. The tuple bytes stay behind and
// the slot is never reused; reads and updates against the id fail with
// ErrTupleNotFound from here on.
func (p *Page) DeleteTuple(slotId uint16) error {
	if _, _, err := p.liveSlot(slotId); err != nil {
		return err
	}
	p.writeSlot(slotId, 0, 0)
	return nil
}

// Compact rewrites all live tuples contiguously against the page end,
// reclaiming bytes stranded by deletes and grow updates. Slot ids and the
// relative order of tuples are preserved; deleted slots stay deleted.
// Returns the number of bytes the contiguous free region grew by.
func (p *Page) Compact() uint16 {
	h := p.Header()

	type liveTuple struct {
		slotId uint16
		offset int
		length int
	}

	live := []liveTuple{}
	for slotId := uint16(0); slotId < p.SlotCount(); slotId++ {
		offset, length, err := p.liveSlot(slotId)
		if err != nil {
			continue
		}
		live = append(live, liveTuple{slotId, offset, length})
	}

	// Pack from the page end down. Walking tuples by decreasing offset means
	// every move shifts bytes toward the end, so an overlapping copy can
	// never clobber a tuple that has not moved yet.
	slices.SortFunc(live, func(a, b liveTuple) int { return b.offset - a.offset })

	newEnd := PAGE_SIZE
	for _, t := range live {
		newOffset := newEnd - t.length
		copy(p.contents[newOffset:newEnd], p.contents[t.offset:t.offset+t.length])
		p.writeSlot(t.slotId, uint16(newOffset), uint16(t.length))
		newEnd = newOffset
	}

	reclaimed := uint16(newEnd) - h.OffsetEndFreeSpace

	h.OffsetEndFreeSpace = uint16(newEnd)
	h.FreeSpaceTotal = uint16(newEnd - int(h.OffsetBeginFreeSpace))
	p.writeHeader(h)

	return reclaimed
}

// liveSlot validates slotId and returns the offset and length of the live
// tuple it points at. A slot past the directory is ErrInvalidSlot; an
// allocated slot that is deleted or describes a range outside the live data
// region is ErrTupleNotFound.
func (p *Page) liveSlot(slotId uint16) (int, int, error) {
	h := p.Header()

	slotOffset := HEADER_SIZE + int(slotId)*SLOT_SIZE
	if slotOffset+SLOT_SIZE > int(h.OffsetBeginFreeSpace) {
		return 0, 0, ErrInvalidSlot
	}

	offset, length := p.readSlot(slotId)
	if offset == 0 {
		return 0, 0, ErrTupleNotFound
	}
	if offset+length > PAGE_SIZE || offset+length < int(h.OffsetBeginFreeSpace) {
		return 0, 0, ErrTupleNotFound
	}

	return offset, length, nil
}

func (p *Page) readSlot(slotId uint16) (offset, length int) {
	slotOffset := HEADER_SIZE + int(slotId)*SLOT_SIZE
	entry := p.contents[slotOffset : slotOffset+SLOT_SIZE]
	return int(binary.LittleEndian.Uint16(entry[0:2])), int(binary.LittleEndian.Uint16(entry[2:4]))
}

func (p *Page) writeSlot(slotId, offset, length uint16) {
	slotOffset := HEADER_SIZE + int(slotId)*SLOT_SIZE
	entry := p.contents[slotOffset : slotOffset+SLOT_SIZE]
	binary.LittleEndian.PutUint16(entry[0:2], offset)
	binary.LittleEndian.PutUint16(entry[2:4], length)
}

func (p *Page) writeHeader(h Header) {
	encodeHeader(p.contents[:HEADER_SIZE], h)
}

// Page is a fixed 4096 byte buffer. All structure lives in the bytes
// themselves; nothing about the regions is cached in Go fields, so the raw
// image is always the single source of truth.
type Page struct {
	contents [PAGE_SIZE]byte
}
