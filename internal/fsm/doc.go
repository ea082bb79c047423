// Package fsm implements a small synchronous finite-state-machine engine.
//
// A machine family is described by three types: a named key type K that
// enumerates the family's states, a state interface S implemented by every
// member, and an event type E. Each state is a singleton held by a Registry
// and created on first use. A Machine keeps the single current-state
// reference and delivers events to it through a family-provided Dispatcher.
//
// Transitions are only reachable from inside state callbacks through the
// Emitter they receive. Because Goto accepts K, a transition into a state of
// another family does not compile.
//
// Nothing here blocks, queues or spawns goroutines: every Emit runs to
// completion on the caller's stack, including nested emits issued by handlers.
// A Machine must be driven from one goroutine.
package fsm
