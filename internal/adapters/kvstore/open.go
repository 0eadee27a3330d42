package kvstore

import (
	"context"
	"fmt"
	"strings"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Options selects and configures a backend.
type Options struct {
	Backend string
	// Path is the directory for "file" and the database file for "sqlite".
	Path  string
	Redis RedisConfig
}

// Open builds the backend named by opts.Backend.
func Open(ctx context.Context, opts Options) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case BackendMemory, "":
		return NewMemoryBackend(), nil
	case BackendFile:
		return NewFileBackend(opts.Path)
	case BackendSQLite:
		return OpenSQLite(ctx, opts.Path)
	case BackendRedis:
		return NewRedisBackend(opts.Redis), nil
	}
	return nil, fmt.Errorf("open %q: %w", opts.Backend, ErrUnknownBackend)
}
