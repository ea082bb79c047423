package clock

import (
	"math"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
)

// TestMonotonic_FollowsClock verifies the counter tracks the underlying clock in milliseconds.
func TestMonotonic_FollowsClock(t *testing.T) {
	t.Parallel()

	fake := clockwork.NewFakeClock()
	counter := NewMonotonic(fake)

	require.Equal(t, uint32(0), counter.Millis())

	fake.Advance(3001 * time.Millisecond)
	require.Equal(t, uint32(3001), counter.Millis())

	fake.Advance(999 * time.Microsecond)
	require.Equal(t, uint32(3001), counter.Millis())
}

// TestMonotonic_Wraparound checks the offset counter wraps and Elapsed stays correct.
func TestMonotonic_Wraparound(t *testing.T) {
	t.Parallel()

	fake := clockwork.NewFakeClock()
	counter := NewMonotonic(fake).withOffset(math.MaxUint32 - 99)

	before := counter.Millis()

	fake.Advance(250 * time.Millisecond)

	after := counter.Millis()
	require.Less(t, after, before)
	require.Equal(t, uint32(250), Elapsed(after, before))
}

// TestManual_Advance verifies Set, Advance and wraparound of the manual counter.
func TestManual_Advance(t *testing.T) {
	t.Parallel()

	m := NewManual(10)
	m.Advance(5)
	require.Equal(t, uint32(15), m.Millis())

	m.Set(math.MaxUint32)
	m.Advance(2)
	require.Equal(t, uint32(1), m.Millis())
	require.Equal(t, uint32(2), Elapsed(m.Millis(), math.MaxUint32))
}
