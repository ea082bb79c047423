package trafficlight

import (
	"github.com/oshokin/traffic-light/internal/clock"
	"github.com/oshokin/traffic-light/internal/fsm"
	"github.com/oshokin/traffic-light/internal/gpio"
)

// TrafficLight drives a lamp panel through the traffic-light cycle.
// It is not safe for concurrent use: one goroutine owns it.
type TrafficLight struct {
	// env is shared with every state.
	env *env
	// machine holds the current state.
	machine *fsm.Machine[Light, state, Event]
	// transitions counts completed transitions.
	transitions uint64
}

// New creates a traffic light on panel that measures dwell time with source.
// Observers passed in opts are notified about every transition.
func New(panel gpio.Panel, source clock.Source, timing Timing, opts ...fsm.Option[Light]) (*TrafficLight, error) {
	if err := timing.Validate(); err != nil {
		return nil, err
	}

	t := &TrafficLight{
		env: &env{
			panel:  panel,
			clock:  source,
			timing: timing,
		},
	}

	registry := fsm.NewRegistry[Light, state]()
	registry.Register(Red, func() state { return &redState{base: base{env: t.env}} })
	registry.Register(Yellow, func() state { return &yellowState{base: base{env: t.env}} })
	registry.Register(Green, func() state { return &greenState{base: base{env: t.env}} })
	registry.Register(Maintenance, func() state { return &maintenanceState{base: base{env: t.env}} })

	observers := make([]fsm.Option[Light], 0, len(opts)+1)
	observers = append(observers, fsm.WithObserver(t.countTransition))
	observers = append(observers, opts...)

	t.machine = fsm.New[Light, state, Event](registry, dispatch, observers...)

	return t, nil
}

func (t *TrafficLight) countTransition(_, _ Light) {
	t.transitions++
}

// Start enters Red. It must be called once, before the first Emit.
func (t *TrafficLight) Start() {
	t.machine.Start(Red)
}

// Emit delivers event to the current state.
func (t *TrafficLight) Emit(event Event) {
	t.machine.Emit(event)
}

// Current returns the current light.
func (t *TrafficLight) Current() Light {
	return t.machine.Current()
}

// Transitions returns the number of completed transitions.
func (t *TrafficLight) Transitions() uint64 {
	return t.transitions
}

// Timing returns the dwell periods in effect.
func (t *TrafficLight) Timing() Timing {
	return t.env.timing
}

// SetTiming replaces the dwell periods. The current state keeps its entry
// time, so the new period applies to the running dwell.
func (t *TrafficLight) SetTiming(timing Timing) error {
	if err := timing.Validate(); err != nil {
		return err
	}

	t.env.timing = timing

	return nil
}

// Status returns a snapshot of the light.
func (t *TrafficLight) Status() Status {
	red, yellow, green := t.env.panel.Levels()

	status := Status{
		Light:       t.machine.Current(),
		Red:         red,
		Yellow:      yellow,
		Green:       green,
		Transitions: t.transitions,
		Timing:      t.env.timing,
	}

	if t.machine.Started() {
		status.EnteredAt = t.machine.State().EnteredAt()
	}

	return status
}
