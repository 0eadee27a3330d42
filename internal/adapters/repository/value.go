package repository

import (
	"context"
	"errors"
	"sync"

	"github.com/okian/agentdesk/internal/adapters/kvstore"
	"github.com/okian/agentdesk/pkg/logger"
	"github.com/okian/agentdesk/pkg/metrics"
)

// Value is a single persisted value such as the branding map or the session.
type Value[T any] struct {
	mu      sync.RWMutex
	key     string
	backend kvstore.Backend
	value   T

	name    string
	logger  logger.Logger
	metrics *metrics.Manager
}

// NewValue loads the value stored under key, falling back to def.
func NewValue[T any](ctx context.Context, backend kvstore.Backend, key string, def T, opts ...Option) *Value[T] {
	s := defaultSettings(key)
	for _, opt := range opts {
		opt(&s)
	}
	if s.logger == nil {
		s.logger = logger.Nop()
	}

	v := &Value[T]{
		key:     key,
		backend: backend,
		name:    s.name,
		logger:  s.logger,
		metrics: s.metrics,
	}
	loaded := kvstore.Load[T](ctx, backend, key)
	if loaded.IsOk() {
		v.value = loaded.Value()
		return v
	}
	if !errors.Is(loaded.Err(), kvstore.ErrNotFound) {
		v.metrics.RecordPersistenceFailure(key, "load")
		v.logger.Warn(ctx, "stored value unreadable; using default",
			logger.String("key", key), logger.Error(loaded.Err()))
	}
	v.value = def
	return v
}

// Get returns the current value.
func (v *Value[T]) Get() T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.value
}

// Set replaces the value and writes it through.
func (v *Value[T]) Set(ctx context.Context, value T) T {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.value = value
	v.persist(ctx)
	return v.value
}

// Clear resets the value to its zero value and writes it through.
func (v *Value[T]) Clear(ctx context.Context) {
	var zero T
	v.Set(ctx, zero)
}

func (v *Value[T]) persist(ctx context.Context) {
	v.metrics.RecordMutation(v.name, "set")
	res := kvstore.Save(ctx, v.backend, v.key, v.value)
	if !res.IsOk() {
		v.metrics.RecordPersistenceFailure(v.key, "save")
		v.logger.Warn(ctx, "value not persisted", logger.String("key", v.key), logger.Error(res.Err()))
		return
	}
	v.metrics.RecordPersistenceWrite(v.key)
}
