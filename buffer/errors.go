package buffer

import "errors"

// ErrPageNotFound means the cache has no way to materialize the page: no
// path was registered for the id and no source knows it.
var ErrPageNotFound = errors.New("page not found")

// CacheError wraps an I/O or decode failure from the page source. The
// underlying cause is reachable through Unwrap.
type CacheError struct {
	Message string
	Err     error
}

func (e *CacheError) Error() string {
	return e.Message
}

func (e *CacheError) Unwrap() error {
	return e.Err
}
