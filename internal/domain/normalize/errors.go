package normalize

import "errors"

// Sentinel kinds for normalization errors.
var (
	ErrUnknownKind = errors.New("unknown collection kind")
)
