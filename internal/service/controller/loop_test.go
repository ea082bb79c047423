package controller

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/traffic-light/internal/button"
	"github.com/oshokin/traffic-light/internal/clock"
	"github.com/oshokin/traffic-light/internal/domain/trafficlight"
	"github.com/oshokin/traffic-light/internal/gpio"
)

// newTestLoop builds a started light on simulated hardware driven by source.
func newTestLoop(t *testing.T, source clock.Source) (*Loop, *gpio.SimulatedInput) {
	t.Helper()

	ctx := context.Background()
	panel := gpio.Panel{
		Red:    gpio.NewSimulatedOutput(ctx, "red"),
		Yellow: gpio.NewSimulatedOutput(ctx, "yellow"),
		Green:  gpio.NewSimulatedOutput(ctx, "green"),
	}

	light, err := trafficlight.New(panel, source, trafficlight.DefaultTiming)
	require.NoError(t, err)

	light.Start()

	input := gpio.NewSimulatedInput()

	return NewLoop(light, button.New(input)), input
}

// TestLoop_Step verifies ticks drive the light and the snapshot follows.
func TestLoop_Step(t *testing.T) {
	t.Parallel()

	counter := clock.NewManual(0)
	loop, _ := newTestLoop(t, counter)

	status := loop.Status()
	require.Equal(t, trafficlight.Red, status.Light)
	require.True(t, status.Red)
	require.Zero(t, status.Transitions)

	counter.Set(3000)
	loop.Step(context.Background())
	require.Equal(t, trafficlight.Red, loop.Status().Light)

	counter.Set(3001)
	loop.Step(context.Background())

	status = loop.Status()
	require.Equal(t, trafficlight.Yellow, status.Light)
	require.True(t, status.Red)
	require.True(t, status.Yellow)
	require.EqualValues(t, 1, status.Transitions)
	require.EqualValues(t, 3001, status.EnteredAt)
}

// TestLoop_ButtonRelease checks a pulse toggles maintenance on its release edge.
func TestLoop_ButtonRelease(t *testing.T) {
	t.Parallel()

	loop, input := newTestLoop(t, clock.NewManual(0))

	input.Pulse()

	// Press edge only.
	loop.Step(context.Background())
	require.Equal(t, trafficlight.Red, loop.Status().Light)

	// Release edge.
	loop.Step(context.Background())
	require.Equal(t, trafficlight.Maintenance, loop.Status().Light)

	status := loop.Status()
	require.True(t, status.Red)
	require.True(t, status.Yellow)
	require.True(t, status.Green)

	input.Pulse()
	loop.Step(context.Background())
	loop.Step(context.Background())

	status = loop.Status()
	require.Equal(t, trafficlight.Red, status.Light)
	require.True(t, status.Red)
	require.False(t, status.Yellow)
	require.False(t, status.Green)
}

// TestLoop_UpdateTiming verifies timing updates wait for the next iteration.
func TestLoop_UpdateTiming(t *testing.T) {
	t.Parallel()

	counter := clock.NewManual(0)
	loop, _ := newTestLoop(t, counter)

	require.ErrorIs(t, loop.UpdateTiming(trafficlight.Timing{}), trafficlight.ErrInvalidTiming)

	timing := trafficlight.Timing{Red: 10, Yellow: 5, Green: 8}
	require.NoError(t, loop.UpdateTiming(timing))
	require.Equal(t, trafficlight.DefaultTiming, loop.Status().Timing)

	counter.Set(5)
	loop.Step(context.Background())
	require.Equal(t, timing, loop.Status().Timing)
	require.Equal(t, trafficlight.Red, loop.Status().Light)

	counter.Set(11)
	loop.Step(context.Background())
	require.Equal(t, trafficlight.Yellow, loop.Status().Light)
}

// TestLoop_Run drives the loop with a fake clock until the first transition.
func TestLoop_Run(t *testing.T) {
	t.Parallel()

	fake := clockwork.NewFakeClock()
	loop, _ := newTestLoop(t, clock.NewMonotonic(fake))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() {
		done <- loop.Run(ctx, fake, time.Millisecond)
	}()

	require.NoError(t, fake.BlockUntilContext(ctx, 1))
	require.Eventually(t, loop.Running, time.Second, time.Millisecond)

	fake.Advance(3001 * time.Millisecond)

	require.Eventually(t, func() bool {
		return loop.Status().Light == trafficlight.Yellow
	}, time.Second, time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	require.False(t, loop.Running())
}
