package page

import "encoding/binary"

// Header is the logical view of the first 16 bytes of a page.
//
// On disk the layout is, in order and little-endian:
//
//	[0,4)   pageId
//	[4,6)   freeSpaceTotal
//	[6,8)   offsetBeginFreeSpace
//	[8,10)  offsetEndFreeSpace
//	[10,16) reserved
type Header struct {
	PageId               uint32
	FreeSpaceTotal       uint16
	OffsetBeginFreeSpace uint16
	OffsetEndFreeSpace   uint16
}

func newHeader(pageId uint32) Header {
	return Header{
		PageId:               pageId,
		FreeSpaceTotal:       PAGE_SIZE - HEADER_SIZE,
		OffsetBeginFreeSpace: HEADER_SIZE,
		OffsetEndFreeSpace:   PAGE_SIZE,
	}
}

// encodeHeader writes h into dst, which must hold at least HEADER_SIZE bytes.
// The reserved tail bytes are left untouched.
func encodeHeader(dst []byte, h Header) {
	binary.LittleEndian.PutUint32(dst[0:4], h.PageId)
	binary.LittleEndian.PutUint16(dst[4:6], h.FreeSpaceTotal)
	binary.LittleEndian.PutUint16(dst[6:8], h.OffsetBeginFreeSpace)
	binary.LittleEndian.PutUint16(dst[8:10], h.OffsetEndFreeSpace)
}

// decodeHeader reads a Header from src, which must hold at least HEADER_SIZE
// bytes. No interpretation happens here; the page is responsible for deciding
// whether the fields make sense together.
func decodeHeader(src []byte) Header {
	return Header{
		PageId:               binary.LittleEndian.Uint32(src[0:4]),
		FreeSpaceTotal:       binary.LittleEndian.Uint16(src[4:6]),
		OffsetBeginFreeSpace: binary.LittleEndian.Uint16(src[6:8]),
		OffsetEndFreeSpace:   binary.LittleEndian.Uint16(src[8:10]),
	}
}
