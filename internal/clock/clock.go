// Package clock supplies the logical height consumed by the mutation
// engine.
//
// Height is the only notion of time in the ledger: a monotonically
// non-decreasing unsigned integer standing in for wall-clock time. It is
// always supplied externally, never read from the system clock, so the same
// ordered sequence of operations replays to an identical ledger.
package clock

import "sync/atomic"

// Source yields the current logical height. The engine snapshots the height
// exactly once per operation; monotonicity is the source's contract.
type Source interface {
	Height() uint64
}

// Fixed is a Source pinned to a single height. Used when the height for an
// invocation is supplied up front, such as a CLI flag.
type Fixed uint64

// Height returns the pinned height.
func (f Fixed) Height() uint64 {
	return uint64(f)
}

// Manual is a mutable Source for long-lived processes and tests.
//
// Thread-safety: all methods are safe for concurrent use (atomic
// operations).
type Manual struct {
	h atomic.Uint64
}

// NewManual creates a Manual source starting at the given height.
func NewManual(start uint64) *Manual {
	m := &Manual{}
	m.h.Store(start)
	return m
}

// Height returns the current height.
func (m *Manual) Height() uint64 {
	return m.h.Load()
}

// Advance moves the height forward by delta and returns the new height.
func (m *Manual) Advance(delta uint64) uint64 {
	return m.h.Add(delta)
}

// Set pins the height to h. Callers keeping the source aligned with a
// persisted height scalar must never move it backwards; Set does not guard
// against that so tests can rewind freely.
func (m *Manual) Set(h uint64) {
	m.h.Store(h)
}
