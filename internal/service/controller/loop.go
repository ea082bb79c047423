package controller

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/oshokin/traffic-light/internal/button"
	"github.com/oshokin/traffic-light/internal/domain/trafficlight"
	"github.com/oshokin/traffic-light/internal/logger"
	"github.com/oshokin/traffic-light/internal/metrics"
)

// errLoopStopped is returned to remote callers when no loop consumes requests.
var errLoopStopped = errors.New("control loop is not running")

// Loop polls the mode button and forwards ticks to the traffic light.
type Loop struct {
	// light is driven only from the goroutine calling Step.
	light *trafficlight.TrafficLight
	// button synthesizes SwitchMode on release.
	button *button.PushButton

	// pendingTiming holds dwell periods waiting to be applied.
	pendingTiming atomic.Pointer[trafficlight.Timing]
	// snapshot is the last published status.
	snapshot atomic.Pointer[trafficlight.Status]
	// running is set while Run is active.
	running atomic.Bool

	// published is the transition count of the current snapshot.
	published uint64
}

// NewLoop creates a loop over a started traffic light.
func NewLoop(light *trafficlight.TrafficLight, btn *button.PushButton) *Loop {
	l := &Loop{
		light:  light,
		button: btn,
	}

	l.publish()

	return l
}

// Step runs one iteration: apply pending timing, check the button, tick.
// It never blocks.
func (l *Loop) Step(ctx context.Context) {
	dirty := false

	if timing := l.pendingTiming.Swap(nil); timing != nil {
		if err := l.light.SetTiming(*timing); err != nil {
			logger.WarnKV(ctx, "Timing update rejected", "error", err)
		} else {
			logger.InfoKV(ctx, "Timing updated", "red_ms", timing.Red, "yellow_ms", timing.Yellow, "green_ms", timing.Green)
			metrics.IncTimingReloads()

			dirty = true
		}
	}

	if l.button.Released() {
		l.light.Emit(trafficlight.SwitchMode{})
	}

	l.light.Emit(trafficlight.Tick{})

	if dirty || l.light.Transitions() != l.published {
		l.publish()
	}
}

// Run calls Step on every tick of clk until ctx is done.
func (l *Loop) Run(ctx context.Context, clk clockwork.Clock, interval time.Duration) error {
	ticker := clk.NewTicker(interval)
	defer ticker.Stop()

	l.running.Store(true)
	defer l.running.Store(false)

	logger.InfoKV(ctx, "Control loop started", "interval", interval.String())

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Control loop stopped")
			return nil
		case <-ticker.Chan():
			l.Step(ctx)
		}
	}
}

// Running reports whether Run is active.
func (l *Loop) Running() bool {
	return l.running.Load()
}

// UpdateTiming queues new dwell periods. They are applied by the next Step;
// a later call replaces a value that was not applied yet.
// It is safe to call from any goroutine.
func (l *Loop) UpdateTiming(timing trafficlight.Timing) error {
	if err := timing.Validate(); err != nil {
		return err
	}

	l.pendingTiming.Store(&timing)

	return nil
}

// Status returns the last published snapshot.
// It is safe to call from any goroutine.
func (l *Loop) Status() trafficlight.Status {
	return *l.snapshot.Load()
}

func (l *Loop) publish() {
	status := l.light.Status()

	l.published = status.Transitions
	l.snapshot.Store(&status)
}
