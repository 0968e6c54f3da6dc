// Package ident generates identifiers for tracked objects and journal
// sessions, and the logical sequence numbers journal entries are stamped
// with.
package ident

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Generator produces identifiers.
type Generator interface {
	Generate() string
}

// UUIDv7 generates time-sortable UUIDv7 identifiers.
//
// Format: "0190f0a4-7c2e-7d43-9a51-2f7b6c1e8d00" (36 characters)
//
// Thread-safety: UUIDv7 is stateless and safe for concurrent use.
type UUIDv7 struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
// Panics if UUID generation fails (should never happen in practice).
func (UUIDv7) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Fixed returns predetermined identifiers in order, for tests.
//
// Thread-safety: Fixed is safe for concurrent use via internal mutex.
type Fixed struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixed creates a generator that returns ids in order.
//
//	gen := NewFixed("obj-1", "obj-2")
//	gen.Generate() // "obj-1"
//	gen.Generate() // "obj-2"
//	gen.Generate() // panic: all ids exhausted
func NewFixed(ids ...string) *Fixed {
	return &Fixed{ids: ids}
}

// Generate returns the next predetermined id.
//
// Panics if all ids have been consumed, which signals a test that created
// more objects than it declared.
func (g *Fixed) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.ids) {
		panic("ident.Fixed: all ids exhausted")
	}
	id := g.ids[g.idx]
	g.idx++
	return id
}

// Remaining returns how many ids are left.
func (g *Fixed) Remaining() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.ids) - g.idx
}

// Constant returns the same identifier every time.
type Constant string

// Generate returns the constant. An empty Constant yields "test-id-default".
func (c Constant) Generate() string {
	if c == "" {
		return "test-id-default"
	}
	return string(c)
}

// Clock is a monotonic logical clock. The first Next returns start+1.
//
// Thread-safety: Clock is safe for concurrent use (atomic operations).
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a clock that resumes after start.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next returns the next sequence number.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the last issued sequence number.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
