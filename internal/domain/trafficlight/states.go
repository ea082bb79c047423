package trafficlight

import (
	"github.com/oshokin/traffic-light/internal/clock"
	"github.com/oshokin/traffic-light/internal/fsm"
	"github.com/oshokin/traffic-light/internal/gpio"
)

// Emitter is what traffic-light states see of the running machine.
type Emitter = fsm.Emitter[Light, Event]

// env is shared by all states of one traffic light.
type env struct {
	panel  gpio.Panel
	clock  clock.Source
	timing Timing
}

// state is the handler set of the traffic-light family, one method per event kind.
type state interface {
	fsm.State[Light, Event]

	OnTick(m Emitter)
	OnLightChange(m Emitter, event LightChange)
	OnSwitchMode(m Emitter)

	// EnteredAt returns the counter reading of the last entry.
	EnteredAt() uint32
}

// dispatch routes an event to the matching handler of s.
func dispatch(s state, m Emitter, event Event) {
	switch e := event.(type) {
	case Tick:
		s.OnTick(m)
	case LightChange:
		s.OnLightChange(m, e)
	case SwitchMode:
		s.OnSwitchMode(m)
	}
}

// base carries the entry timestamp and ignores every event by default.
type base struct {
	*env

	enteredAt uint32
}

func (b *base) stamp() {
	b.enteredAt = b.clock.Millis()
}

// EnteredAt returns the counter reading of the last entry.
func (b *base) EnteredAt() uint32 {
	return b.enteredAt
}

// ActiveLongerThan reports whether more than period milliseconds passed since entry.
func (b *base) ActiveLongerThan(period uint32) bool {
	return clock.Elapsed(b.clock.Millis(), b.enteredAt) > period
}

func (*base) OnTick(Emitter)                     {}
func (*base) OnLightChange(Emitter, LightChange) {}
func (*base) OnSwitchMode(Emitter)               {}

type redState struct {
	base
}

func (s *redState) Enter(Emitter) {
	s.stamp()
	s.panel.Red.Set(true)
}

// Exit keeps the red lamp lit: it stays on through the red+yellow phase and
// is cleared by Yellow's exit.
func (*redState) Exit(Emitter) {}

func (s *redState) OnTick(m Emitter) {
	if !s.ActiveLongerThan(s.timing.Red) {
		return
	}

	m.Goto(Yellow)
	m.Emit(LightChange{ProgressToRed: false})
}

func (*redState) OnSwitchMode(m Emitter) {
	m.Goto(Maintenance)
}

type yellowState struct {
	base

	// progressToRed is set by the LightChange that follows every entry.
	progressToRed bool
}

func (s *yellowState) Enter(Emitter) {
	s.stamp()
	s.panel.Yellow.Set(true)
}

func (s *yellowState) Exit(Emitter) {
	s.panel.Yellow.Set(false)

	if !s.progressToRed {
		s.panel.Red.Set(false)
	}
}

func (s *yellowState) OnLightChange(_ Emitter, event LightChange) {
	s.progressToRed = event.ProgressToRed
}

func (s *yellowState) OnTick(m Emitter) {
	if !s.ActiveLongerThan(s.timing.Yellow) {
		return
	}

	if s.progressToRed {
		m.Goto(Red)
		return
	}

	m.Goto(Green)
}

func (*yellowState) OnSwitchMode(m Emitter) {
	m.Goto(Maintenance)
}

type greenState struct {
	base
}

func (s *greenState) Enter(Emitter) {
	s.stamp()
	s.panel.Green.Set(true)
}

func (s *greenState) Exit(Emitter) {
	s.panel.Green.Set(false)
}

func (s *greenState) OnTick(m Emitter) {
	if !s.ActiveLongerThan(s.timing.Green) {
		return
	}

	m.Goto(Yellow)
	m.Emit(LightChange{ProgressToRed: true})
}

func (*greenState) OnSwitchMode(m Emitter) {
	m.Goto(Maintenance)
}

// maintenanceState has no timeout; only SwitchMode leaves it.
type maintenanceState struct {
	base
}

func (s *maintenanceState) Enter(Emitter) {
	s.stamp()
	s.panel.SetAll(true)
}

func (s *maintenanceState) Exit(Emitter) {
	s.panel.SetAll(false)
}

func (*maintenanceState) OnSwitchMode(m Emitter) {
	m.Goto(Red)
}
