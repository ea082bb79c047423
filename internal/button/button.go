// Package button detects edges on a push-button input line.
//
// Every query consumes one fresh sample and compares it with the sample taken
// by the previous query, so callers must poll at a steady cadence. Debouncing
// is left to the line itself.
package button

import "github.com/oshokin/traffic-light/internal/gpio"

// PushButton reports press and release edges of an input line.
type PushButton struct {
	// line is the sampled input.
	line gpio.Input
	// previous is the sample before the latest one.
	previous bool
	// latest is the most recent sample.
	latest bool
}

// New creates a push button on line. The line is assumed low initially.
func New(line gpio.Input) *PushButton {
	return &PushButton{line: line}
}

// Pressed samples the line and reports a low to high edge.
func (b *PushButton) Pressed() bool {
	b.sample()

	return b.previous != b.latest && b.latest
}

// Released samples the line and reports a high to low edge.
func (b *PushButton) Released() bool {
	b.sample()

	return b.previous != b.latest && !b.latest
}

func (b *PushButton) sample() {
	b.previous = b.latest
	b.latest = b.line.Read()
}
