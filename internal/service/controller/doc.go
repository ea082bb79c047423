// Package controller runs the traffic-light control loop and the servers
// around it.
//
// The loop owns the traffic light: only its goroutine emits events. Other
// goroutines reach it through atomic hand-offs. A remote mode switch becomes a
// single pending pulse on the simulated input line and is refused while the
// previous one is unread. New dwell periods are stored in a slot drained
// between iterations. Readers see the status snapshot published by the loop.
package controller
