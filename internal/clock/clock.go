// Package clock provides the monotonic millisecond counter the controller
// reads to measure dwell time.
//
// The counter is 32 bits wide and wraps around after roughly 49.7 days, just
// like a microcontroller millis() counter. Consumers must compare readings
// with unsigned subtraction, which stays correct across one wraparound.
package clock

import (
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
)

// Source is a monotonic millisecond counter. It is never set or reset by
// its readers.
type Source interface {
	Millis() uint32
}

// Elapsed returns now-since with wraparound-safe unsigned arithmetic.
func Elapsed(now, since uint32) uint32 {
	return now - since
}

// Monotonic counts milliseconds since it was created on top of a clockwork clock.
type Monotonic struct {
	// clock supplies the time; the real clock carries a monotonic reading.
	clock clockwork.Clock
	// origin is the instant the counter reads zero.
	origin time.Time
	// offset shifts the counter, used to start close to a wraparound.
	offset uint32
}

// NewMonotonic creates a counter that reads zero now.
// A nil clock selects the real clock.
func NewMonotonic(c clockwork.Clock) *Monotonic {
	if c == nil {
		c = clockwork.NewRealClock()
	}

	return &Monotonic{
		clock:  c,
		origin: c.Now(),
	}
}

// withOffset returns a counter that reads offset at creation time.
func (m *Monotonic) withOffset(offset uint32) *Monotonic {
	return &Monotonic{
		clock:  m.clock,
		origin: m.origin,
		offset: offset,
	}
}

// Millis returns milliseconds since creation, truncated to 32 bits.
func (m *Monotonic) Millis() uint32 {
	//nolint:gosec // Truncation to 32 bits is the counter's wraparound.
	return uint32(m.clock.Since(m.origin).Milliseconds()) + m.offset
}

// Manual is a counter moved only by its owner. It is safe for concurrent use.
type Manual struct {
	now atomic.Uint32
}

// NewManual creates a counter reading start.
func NewManual(start uint32) *Manual {
	m := new(Manual)
	m.now.Store(start)

	return m
}

// Millis returns the current reading.
func (m *Manual) Millis() uint32 {
	return m.now.Load()
}

// Set moves the counter to value.
func (m *Manual) Set(value uint32) {
	m.now.Store(value)
}

// Advance moves the counter forward by delta, wrapping around on overflow.
func (m *Manual) Advance(delta uint32) {
	m.now.Add(delta)
}
