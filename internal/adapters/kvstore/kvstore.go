// Package kvstore persists whole JSON-serialized values under string keys.
//
// Backends only move bytes. Load and Save add the JSON encoding and report
// every outcome as a Result; they never panic and never return a bare error,
// so callers decide explicitly what a failure means to them.
package kvstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

// Backend is a durable key-value store.
type Backend interface {
	// Get returns the bytes stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set replaces the bytes stored under key.
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// Result is either a value or the reason there is none.
type Result[T any] struct {
	value T
	err   error
}

// Ok wraps a successful value.
func Ok[T any](v T) Result[T] { return Result[T]{value: v} }

// Err wraps a failure.
func Err[T any](err error) Result[T] { return Result[T]{err: err} }

// IsOk reports whether the result holds a value.
func (r Result[T]) IsOk() bool { return r.err == nil }

// Err returns the failure, or nil.
func (r Result[T]) Err() error { return r.err }

// Value returns the value; it is the zero value on failure.
func (r Result[T]) Value() T { return r.value }

// Or returns the value, or def on failure.
func (r Result[T]) Or(def T) T {
	if r.err != nil {
		return def
	}
	return r.value
}

var jsonNull = []byte("null")

// Load reads and decodes the value stored under key. Absence, a stored JSON
// null, undecodable bytes, and backend failures all produce an Err result.
func Load[T any](ctx context.Context, b Backend, key string) Result[T] {
	if b == nil {
		return Err[T](fmt.Errorf("load %s: %w", key, ErrUnavailable))
	}
	raw, err := b.Get(ctx, key)
	if err != nil {
		return Err[T](fmt.Errorf("load %s: %w", key, err))
	}
	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), jsonNull) {
		return Err[T](fmt.Errorf("load %s: %w", key, ErrNotFound))
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return Err[T](fmt.Errorf("load %s: %w: %v", key, ErrCorrupt, err))
	}
	return Ok(v)
}

// LoadOr returns the value under key, or def when it cannot be loaded.
func LoadOr[T any](ctx context.Context, b Backend, key string, def T) T {
	return Load[T](ctx, b, key).Or(def)
}

// Save encodes value and writes it under key. The Ok result carries the
// number of bytes written.
func Save[T any](ctx context.Context, b Backend, key string, value T) Result[int] {
	if b == nil {
		return Err[int](fmt.Errorf("save %s: %w", key, ErrUnavailable))
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return Err[int](fmt.Errorf("save %s: encode: %w", key, err))
	}
	if err := b.Set(ctx, key, raw); err != nil {
		return Err[int](fmt.Errorf("save %s: %w", key, err))
	}
	return Ok(len(raw))
}
