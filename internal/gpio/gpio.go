// Package gpio models the binary lines the controller drives and samples.
//
// Output and Input are the only hardware-facing contracts. The simulated
// implementations back the host build: outputs keep their level and report
// changes, the input replays queued samples so that a short press issued from
// another goroutine is seen by the control loop as two distinct edges.
package gpio

import (
	"context"
	"sync/atomic"

	"github.com/oshokin/traffic-light/internal/logger"
)

// Output is a binary output line.
type Output interface {
	// Set drives the line high (on) or low.
	Set(on bool)
	// Level returns the last driven level.
	Level() bool
}

// Input is a binary input line.
type Input interface {
	// Read returns the latest sample.
	Read() bool
}

// Panel groups the three signal lamps of a traffic light.
type Panel struct {
	Red    Output
	Yellow Output
	Green  Output
}

// SetAll drives every lamp to the same level.
func (p Panel) SetAll(on bool) {
	p.Red.Set(on)
	p.Yellow.Set(on)
	p.Green.Set(on)
}

// Levels returns the current level of every lamp.
func (p Panel) Levels() (red, yellow, green bool) {
	return p.Red.Level(), p.Yellow.Level(), p.Green.Level()
}

// Listener is notified when a simulated output changes its level.
type Listener func(name string, on bool)

// SimulatedOutput keeps the level in memory and logs every change.
type SimulatedOutput struct {
	// ctx carries the logger used for change reports.
	ctx context.Context //nolint:containedctx // Outputs log from the control loop without a call context.
	// name identifies the lamp in logs and metrics.
	name string
	// level is the driven level.
	level atomic.Bool
	// listeners observe level changes.
	listeners []Listener
}

// NewSimulatedOutput creates a low output line named name.
func NewSimulatedOutput(ctx context.Context, name string, listeners ...Listener) *SimulatedOutput {
	return &SimulatedOutput{
		ctx:       ctx,
		name:      name,
		listeners: listeners,
	}
}

// Set drives the line. Setting the current level again is silent.
func (o *SimulatedOutput) Set(on bool) {
	if o.level.Swap(on) == on {
		return
	}

	logger.DebugKV(o.ctx, "Lamp switched", "lamp", o.name, "on", on)

	for _, listener := range o.listeners {
		listener(o.name, on)
	}
}

// Level returns the driven level.
func (o *SimulatedOutput) Level() bool {
	return o.level.Load()
}

// Phases of a pending pulse on a SimulatedInput.
const (
	pulseIdle int32 = iota
	pulseRelease
	pulsePress
)

// SimulatedInput is a button line pressed from other goroutines.
// It holds at most one pending pulse, read back as a high sample followed by
// a low one. Read must be called from a single goroutine.
type SimulatedInput struct {
	// phase is the next sample of the pending pulse.
	phase atomic.Int32
}

// NewSimulatedInput creates a low input line.
func NewSimulatedInput() *SimulatedInput {
	return new(SimulatedInput)
}

// Read returns the next sample of the pending pulse, low when there is none.
func (i *SimulatedInput) Read() bool {
	switch i.phase.Load() {
	case pulsePress:
		i.phase.Store(pulseRelease)

		return true
	case pulseRelease:
		i.phase.Store(pulseIdle)
	}

	return false
}

// Pulse queues a press followed by a release. It reports false, queuing
// nothing, while a previous pulse has not been read back yet.
func (i *SimulatedInput) Pulse() bool {
	return i.phase.CompareAndSwap(pulseIdle, pulsePress)
}
