// Package repository holds the in-memory collections of records and writes
// every change through to a kvstore backend.
package repository

import (
	"context"
	"errors"
	"sync"

	"github.com/okian/agentdesk/internal/adapters/kvstore"
	"github.com/okian/agentdesk/internal/domain/dedupe"
	"github.com/okian/agentdesk/internal/domain/model"
	"github.com/okian/agentdesk/internal/domain/query"
	"github.com/okian/agentdesk/pkg/logger"
	"github.com/okian/agentdesk/pkg/metrics"
)

// IDGenerator issues identifiers not yet present in seen.
type IDGenerator interface {
	Fresh(ctx context.Context, seen dedupe.Deduper) string
}

// Collection is an ordered sequence of records of one kind, newest first.
// Every mutation rewrites the whole sequence under its storage key.
type Collection[T model.Entity[T]] struct {
	mu      sync.RWMutex
	key     string
	backend kvstore.Backend
	rows    []T
	ids     dedupe.Deduper

	name    string
	idGen   IDGenerator
	logger  logger.Logger
	metrics *metrics.Manager
}

// NewCollection loads the sequence stored under key. When nothing usable is
// stored, the collection starts from a copy of seed and writes it back.
func NewCollection[T model.Entity[T]](ctx context.Context, backend kvstore.Backend, key string, seed []T, opts ...Option) *Collection[T] {
	s := defaultSettings(key)
	for _, opt := range opts {
		opt(&s)
	}
	if s.logger == nil {
		s.logger = logger.Nop()
	}

	c := &Collection[T]{
		key:     key,
		backend: backend,
		ids:     dedupe.NewInMemoryDeduper(dedupe.WithCapacity(len(seed))),
		name:    s.name,
		idGen:   s.ids,
		logger:  s.logger,
		metrics: s.metrics,
	}

	loaded := kvstore.Load[[]T](ctx, backend, key)
	if loaded.IsOk() {
		c.rows = append(make([]T, 0, len(loaded.Value())), loaded.Value()...)
		c.reindex(ctx)
		c.metrics.UpdateCollectionSize(c.name, len(c.rows))
		c.logger.Debug(ctx, "collection loaded", logger.String("collection", c.name), logger.Int("rows", len(c.rows)))
		return c
	}

	c.rows = append(make([]T, 0, len(seed)), seed...)
	c.reindex(ctx)
	if errors.Is(loaded.Err(), kvstore.ErrNotFound) {
		c.persist(ctx)
		return c
	}
	// Unreadable data stays in the store until the next mutation replaces it.
	c.metrics.RecordPersistenceFailure(key, "load")
	c.logger.Warn(ctx, "stored collection unreadable; using defaults",
		logger.String("collection", c.name), logger.Error(loaded.Err()))
	return c
}

// Key returns the storage key.
func (c *Collection[T]) Key() string { return c.key }

// Upsert replaces the record with the same id in place, or prepends it when
// the id is unknown. A record without an id gets a fresh one.
func (c *Collection[T]) Upsert(ctx context.Context, record T) []T {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := record.RecordID()
	if id == "" {
		record = record.WithID(c.idGen.Fresh(ctx, c.ids))
		c.rows = prepend(c.rows, record)
		c.mutated(ctx, "insert", record.RecordID())
		return c.snapshot()
	}

	if c.ids.Contains(ctx, id) {
		if i := c.indexOf(id); i >= 0 {
			c.rows[i] = record
			c.mutated(ctx, "update", id)
			return c.snapshot()
		}
	}

	c.ids.SeenAndRecord(ctx, id)
	c.rows = prepend(c.rows, record)
	c.mutated(ctx, "insert", id)
	return c.snapshot()
}

// Remove deletes the record with id. An unknown id leaves the sequence as is.
func (c *Collection[T]) Remove(ctx context.Context, id string) []T {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexOf(id); i >= 0 {
		c.rows = append(c.rows[:i:i], c.rows[i+1:]...)
		if c.indexOf(id) < 0 {
			c.ids.Unrecord(ctx, id)
		}
	}
	c.mutated(ctx, "remove", id)
	return c.snapshot()
}

// BulkPrepend puts records ahead of the existing sequence, keeping their
// relative order. Records whose id is empty or already taken get a fresh id.
func (c *Collection[T]) BulkPrepend(ctx context.Context, records []T) []T {
	c.mu.Lock()
	defer c.mu.Unlock()

	incoming := make([]T, 0, len(records))
	for _, r := range records {
		incoming = append(incoming, c.claim(ctx, r))
	}
	c.rows = append(incoming, c.rows...)
	c.mutated(ctx, "bulk_prepend", "")
	return c.snapshot()
}

// ReplaceAll swaps the whole sequence for records. Incoming ids are kept
// unless empty or repeated.
func (c *Collection[T]) ReplaceAll(ctx context.Context, records []T) []T {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ids.Reset(ctx, nil)
	rows := make([]T, 0, len(records))
	for _, r := range records {
		rows = append(rows, c.claim(ctx, r))
	}
	c.rows = rows
	c.mutated(ctx, "replace_all", "")
	return c.snapshot()
}

// All returns a copy of the sequence.
func (c *Collection[T]) All() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot()
}

// Get returns the record with id, or ErrNotFound.
func (c *Collection[T]) Get(id string) (T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i := c.indexOf(id); i >= 0 {
		return c.rows[i], nil
	}
	var zero T
	return zero, ErrNotFound
}

// Len returns the number of records.
func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.rows)
}

// Filter returns the records matching q in sequence order.
func (c *Collection[T]) Filter(q query.Query) []T {
	return query.Filter(c.All(), q)
}

// Facets returns the distinct values of field across the current sequence.
func (c *Collection[T]) Facets(field string) []string {
	return query.Facets(c.All(), field)
}

// claim returns r with an id not yet used in this collection and records it.
func (c *Collection[T]) claim(ctx context.Context, r T) T {
	id := r.RecordID()
	if id != "" && !c.ids.SeenAndRecord(ctx, id) {
		return r
	}
	return r.WithID(c.idGen.Fresh(ctx, c.ids))
}

func (c *Collection[T]) reindex(ctx context.Context) {
	ids := make([]string, 0, len(c.rows))
	for _, r := range c.rows {
		ids = append(ids, r.RecordID())
	}
	c.ids.Reset(ctx, ids)
}

func (c *Collection[T]) indexOf(id string) int {
	for i, r := range c.rows {
		if r.RecordID() == id {
			return i
		}
	}
	return -1
}

func (c *Collection[T]) snapshot() []T {
	out := make([]T, len(c.rows))
	copy(out, c.rows)
	return out
}

func (c *Collection[T]) mutated(ctx context.Context, op, id string) {
	c.metrics.RecordMutation(c.name, op)
	c.metrics.UpdateCollectionSize(c.name, len(c.rows))
	c.logger.Debug(ctx, "collection mutated",
		logger.String("collection", c.name),
		logger.String("op", op),
		logger.String("id", id),
		logger.Int("rows", len(c.rows)),
	)
	c.persist(ctx)
}

// persist writes the sequence through. A failed write is dropped: the
// in-memory state stays authoritative and the loss shows up only in logs
// and metrics.
func (c *Collection[T]) persist(ctx context.Context) {
	res := kvstore.Save(ctx, c.backend, c.key, c.rows)
	if !res.IsOk() {
		c.metrics.RecordPersistenceFailure(c.key, "save")
		c.logger.Warn(ctx, "collection not persisted",
			logger.String("collection", c.name), logger.Error(res.Err()))
		return
	}
	c.metrics.RecordPersistenceWrite(c.key)
}

func prepend[T any](rows []T, r T) []T {
	out := make([]T, 0, len(rows)+1)
	out = append(out, r)
	return append(out, rows...)
}
