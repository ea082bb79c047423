package button

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/traffic-light/internal/gpio"
)

// scriptedLine returns the scripted samples in order and then holds the last one.
type scriptedLine struct {
	samples []bool
	last    bool
}

func (l *scriptedLine) Read() bool {
	if len(l.samples) > 0 {
		l.last = l.samples[0]
		l.samples = l.samples[1:]
	}

	return l.last
}

// TestPushButton_Released reports only high to low edges.
func TestPushButton_Released(t *testing.T) {
	t.Parallel()

	b := New(&scriptedLine{samples: []bool{false, true, true, false, false, true, false}})

	got := make([]bool, 0, 7)
	for range 7 {
		got = append(got, b.Released())
	}

	require.Equal(t, []bool{false, false, false, true, false, false, true}, got)
}

// TestPushButton_Pressed reports only low to high edges.
func TestPushButton_Pressed(t *testing.T) {
	t.Parallel()

	b := New(&scriptedLine{samples: []bool{true, true, false, true}})

	require.True(t, b.Pressed())
	require.False(t, b.Pressed())
	require.False(t, b.Pressed())
	require.True(t, b.Pressed())
}

// TestPushButton_QueriesShareSamples verifies both queries consume the same sample stream.
func TestPushButton_QueriesShareSamples(t *testing.T) {
	t.Parallel()

	line := gpio.NewSimulatedInput()
	line.Pulse()

	b := New(line)

	require.True(t, b.Pressed())
	require.True(t, b.Released())
	require.False(t, b.Released())
}
