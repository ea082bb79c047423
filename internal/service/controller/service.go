package controller

import (
	"context"
	"errors"

	"github.com/oshokin/traffic-light/internal/domain/trafficlight"
	"github.com/oshokin/traffic-light/internal/gpio"
	"github.com/oshokin/traffic-light/internal/metrics"
)

// errSwitchPending is returned while the previous mode switch is still being read by the loop.
var errSwitchPending = errors.New("previous mode switch is still pending")

// panelService serves remote requests without touching the traffic light.
// It is unexported to keep the transport decoupled from the implementation.
type panelService struct {
	// loop publishes the status.
	loop *Loop
	// input is the mode button line.
	input *gpio.SimulatedInput
}

// newPanelService creates a service over loop and the button line it samples.
func newPanelService(loop *Loop, input *gpio.SimulatedInput) *panelService {
	return &panelService{
		loop:  loop,
		input: input,
	}
}

// Status returns the last published snapshot.
func (s *panelService) Status(context.Context) trafficlight.Status {
	return s.loop.Status()
}

// SwitchMode presses and releases the mode button. The loop sees the release
// within two iterations; the returned snapshot predates the switch.
func (s *panelService) SwitchMode(context.Context) (trafficlight.Status, error) {
	if !s.loop.Running() {
		return trafficlight.Status{}, errLoopStopped
	}

	if !s.input.Pulse() {
		return trafficlight.Status{}, errSwitchPending
	}

	metrics.IncSwitchRequests()

	return s.loop.Status(), nil
}
