// Package dedupe tracks identifiers already in use within one collection.
package dedupe

import (
	"context"
	"sync"
)

// Deduper records seen identifiers so a collection never holds two records
// with the same id.
type Deduper interface {
	// SeenAndRecord atomically checks if id was seen and records it if not.
	// Returns true if id was already seen, false if it was newly recorded.
	SeenAndRecord(ctx context.Context, id string) bool

	// Contains reports whether id is recorded without recording it.
	Contains(ctx context.Context, id string) bool

	// Unrecord forgets id, e.g. after the record holding it is removed.
	Unrecord(ctx context.Context, id string)

	// Reset replaces the recorded set with ids.
	Reset(ctx context.Context, ids []string)

	Size() int64
}

// inMemoryDeduper implements Deduper with a map guarded by a mutex.
type inMemoryDeduper struct {
	mu       sync.RWMutex
	seen     map[string]struct{}
	capacity int
}

// NewInMemoryDeduper creates an empty in-memory deduper.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]struct{}, d.capacity)
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.seen[id]; exists {
		return true
	}
	d.seen[id] = struct{}{}
	return false
}

func (d *inMemoryDeduper) Contains(_ context.Context, id string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, exists := d.seen[id]
	return exists
}

func (d *inMemoryDeduper) Unrecord(_ context.Context, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.seen, id)
}

func (d *inMemoryDeduper) Reset(_ context.Context, ids []string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	size := len(ids)
	if d.capacity > size {
		size = d.capacity
	}
	d.seen = make(map[string]struct{}, size)
	for _, id := range ids {
		d.seen[id] = struct{}{}
	}
}

// Size returns the current number of recorded ids.
func (d *inMemoryDeduper) Size() int64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return int64(len(d.seen))
}
