package kvstore

import "errors"

// Sentinel kinds for storage errors.
var (
	ErrNotFound       = errors.New("key not found")
	ErrCorrupt        = errors.New("stored value is corrupt")
	ErrUnavailable    = errors.New("backing store unavailable")
	ErrUnknownBackend = errors.New("unknown storage backend")
)
