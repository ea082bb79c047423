package trafficlight

import (
	"errors"
	"fmt"
	"strings"
)

// Light identifies a state of the traffic-light machine family.
type Light uint8

const (
	// Red is the stop phase.
	Red Light = iota
	// Yellow serves both the red+yellow and the yellow phase.
	Yellow
	// Green is the go phase.
	Green
	// Maintenance lights every lamp until the mode is switched back.
	Maintenance
)

// ErrUnknownLight is returned when a light name cannot be parsed.
var ErrUnknownLight = errors.New("unknown light")

// String returns the lower-case name of the light.
func (l Light) String() string {
	switch l {
	case Red:
		return "red"
	case Yellow:
		return "yellow"
	case Green:
		return "green"
	case Maintenance:
		return "maintenance"
	default:
		return fmt.Sprintf("light(%d)", uint8(l))
	}
}

// ParseLight converts a name produced by String back to a Light.
func ParseLight(s string) (Light, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "red":
		return Red, nil
	case "yellow":
		return Yellow, nil
	case "green":
		return Green, nil
	case "maintenance":
		return Maintenance, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownLight, s)
	}
}

// Event is a signal delivered to the traffic-light machine.
type Event interface {
	isEvent()
}

// Tick is emitted once per scheduler iteration.
type Tick struct{}

// LightChange tells the state about to handle it in which direction the
// cycle is moving. Only Yellow reads it.
type LightChange struct {
	// ProgressToRed is true when the yellow phase leads to red.
	ProgressToRed bool
}

// SwitchMode toggles between normal operation and maintenance.
type SwitchMode struct{}

func (Tick) isEvent()        {}
func (LightChange) isEvent() {}
func (SwitchMode) isEvent()  {}

// Timing holds the dwell periods in milliseconds.
type Timing struct {
	Red    uint32
	Yellow uint32
	Green  uint32
}

// DefaultTiming is the canonical 3 s / 0.5 s / 2 s cycle.
//
//nolint:gochecknoglobals // Read-only defaults.
var DefaultTiming = Timing{
	Red:    3000,
	Yellow: 500,
	Green:  2000,
}

// ErrInvalidTiming is returned when a dwell period is zero.
var ErrInvalidTiming = errors.New("dwell periods must be positive")

// Validate checks that every period is positive.
func (t Timing) Validate() error {
	if t.Red == 0 || t.Yellow == 0 || t.Green == 0 {
		return fmt.Errorf("%w: red=%d yellow=%d green=%d", ErrInvalidTiming, t.Red, t.Yellow, t.Green)
	}

	return nil
}

// Cycle returns the minimal duration of one full normal cycle.
func (t Timing) Cycle() uint32 {
	return t.Red + t.Yellow + t.Green + t.Yellow
}

// Status is a point-in-time snapshot of the controller.
type Status struct {
	// Light is the current state.
	Light Light
	// Red, Yellow and Green are the lamp levels.
	Red    bool
	Yellow bool
	Green  bool
	// EnteredAt is the counter reading when Light was entered.
	EnteredAt uint32
	// Transitions counts completed transitions since start.
	Transitions uint64
	// Timing is the dwell configuration in effect.
	Timing Timing
}
