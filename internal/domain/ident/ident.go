// Package ident generates opaque record identifiers.
//
// An id is a random base-36 fragment followed by the base-36 millisecond
// timestamp of its creation, e.g. "3k9x0c1tq2bfmeg2lq4a". Ids carry no meaning
// and are compared only for equality.
package ident

import (
	"context"
	"encoding/binary"
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/okian/agentdesk/internal/domain/dedupe"
)

// Generator produces identifiers. It never blocks and never fails.
type Generator struct {
	clock  clockwork.Clock
	random func() uint64
	seq    atomic.Uint64
}

// freshAttempts bounds the plain retries in Fresh before a sequence
// fragment is appended.
const freshAttempts = 4

// Option applies a configuration option to the Generator.
type Option func(*Generator)

// WithClock sets the clock supplying the time fragment.
func WithClock(clock clockwork.Clock) Option {
	return func(g *Generator) {
		if clock != nil {
			g.clock = clock
		}
	}
}

// WithRandom sets the source of the random fragment.
func WithRandom(random func() uint64) Option {
	return func(g *Generator) {
		if random != nil {
			g.random = random
		}
	}
}

// New creates a Generator backed by the wall clock and uuid randomness.
func New(opts ...Option) *Generator {
	g := &Generator{
		clock:  clockwork.NewRealClock(),
		random: uuidRandom,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// NewID returns a fresh identifier.
func (g *Generator) NewID() string {
	return strconv.FormatUint(g.random(), 36) + strconv.FormatInt(g.clock.Now().UnixMilli(), 36)
}

// Fresh returns an identifier not yet recorded in seen and records it.
// After freshAttempts collisions a per-generator sequence number is
// appended, so Fresh returns even when the clock and randomness repeat.
func (g *Generator) Fresh(ctx context.Context, seen dedupe.Deduper) string {
	for i := 0; i < freshAttempts; i++ {
		id := g.NewID()
		if !seen.SeenAndRecord(ctx, id) {
			return id
		}
	}
	base := g.NewID()
	for {
		id := base + "-" + strconv.FormatUint(g.seq.Add(1), 36)
		if !seen.SeenAndRecord(ctx, id) {
			return id
		}
	}
}

// uuidRandom takes 64 random bits from a version 4 uuid.
func uuidRandom() uint64 {
	u := uuid.New()
	return binary.BigEndian.Uint64(u[8:])
}

var defaultGenerator = New()

// NewID returns a fresh identifier from the default generator.
func NewID() string { return defaultGenerator.NewID() }
