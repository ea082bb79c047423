package controller

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/traffic-light/internal/clock"
	"github.com/oshokin/traffic-light/internal/domain/trafficlight"
)

// TestPanelService_SwitchMode checks requests are rejected without a loop and
// queued as a button pulse otherwise.
func TestPanelService_SwitchMode(t *testing.T) {
	t.Parallel()

	loop, input := newTestLoop(t, clock.NewManual(0))
	svc := newPanelService(loop, input)

	_, err := svc.SwitchMode(context.Background())
	require.ErrorIs(t, err, errLoopStopped)

	loop.running.Store(true)

	status, err := svc.SwitchMode(context.Background())
	require.NoError(t, err)
	require.Equal(t, trafficlight.Red, status.Light)

	// Only one switch may wait for the loop.
	_, err = svc.SwitchMode(context.Background())
	require.ErrorIs(t, err, errSwitchPending)

	loop.Step(context.Background())
	loop.Step(context.Background())

	require.Equal(t, trafficlight.Maintenance, svc.Status(context.Background()).Light)
}

// TestPanelService_SwitchModeAfterDrain accepts a new switch once the loop has
// read the previous one.
func TestPanelService_SwitchModeAfterDrain(t *testing.T) {
	t.Parallel()

	loop, input := newTestLoop(t, clock.NewManual(0))
	svc := newPanelService(loop, input)

	loop.running.Store(true)

	for range 3 {
		_, err := svc.SwitchMode(context.Background())
		require.NoError(t, err)

		loop.Step(context.Background())
		loop.Step(context.Background())
	}

	require.Equal(t, trafficlight.Maintenance, svc.Status(context.Background()).Light)
}
