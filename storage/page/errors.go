package page

import "errors"

var (
	// ErrInvalidSlot means the slot id points past the allocated slot directory.
	ErrInvalidSlot = errors.New("invalid slot")

	// ErrTupleNotFound means the slot is allocated but holds no live tuple,
	// either because it was deleted or because its recorded range is
	// inconsistent with the data region.
	ErrTupleNotFound = errors.New("tuple not found")

	// ErrNotEnoughSpace means the page cannot fit the requested tuple. The
	// caller can retry on a different page.
	ErrNotEnoughSpace = errors.New("not enough space")

	// ErrInvalidPage means raw bytes could not be interpreted as a page.
	ErrInvalidPage = errors.New("invalid page contents")
)
