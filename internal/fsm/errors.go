package fsm

import "errors"

var (
	// ErrNotStarted is the panic value when an event is emitted before Start.
	ErrNotStarted = errors.New("state machine is not started")

	// ErrAlreadyStarted is the panic value when Start is called twice.
	ErrAlreadyStarted = errors.New("state machine is already started")

	// ErrUnknownState is the panic value when a key has no registered state.
	ErrUnknownState = errors.New("unknown state")

	// ErrDuplicateState is the panic value when a key is registered twice.
	ErrDuplicateState = errors.New("duplicate state")
)
