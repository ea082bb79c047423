// Package trafficlight is the timed traffic-light policy built on the fsm engine.
//
// The family has four states: Red, Yellow, Green and Maintenance. In normal
// operation the light cycles red, red+yellow, green, yellow, red; each state
// leaves after its dwell period measured against a monotonic millisecond
// counter. A SwitchMode event toggles between the cycle and maintenance,
// where all lamps are lit and ticks are ignored.
//
// The Yellow state serves both yellow phases. The state that hands over to
// Yellow tells it, through a LightChange event emitted right after the
// transition, whether the cycle is heading to red.
package trafficlight
