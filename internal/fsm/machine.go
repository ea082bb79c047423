package fsm

// Emitter is the view of a running machine handed to state callbacks.
type Emitter[K Key, E any] interface {
	// Emit delivers event to the current state and returns once it is handled.
	Emit(event E)
	// Goto exits the current state, makes next current and enters it.
	Goto(next K)
}

// State is the behavior every member of a machine family provides.
type State[K Key, E any] interface {
	// Enter runs right after the state became current.
	Enter(m Emitter[K, E])
	// Exit runs right before the state stops being current.
	Exit(m Emitter[K, E])
}

// Dispatcher routes event to the handler of s for that event kind.
// Kinds that s does not handle must be ignored.
type Dispatcher[K Key, S State[K, E], E any] func(s S, m Emitter[K, E], event E)

// Machine holds the current state of one machine family.
type Machine[K Key, S State[K, E], E any] struct {
	// registry owns the state singletons.
	registry *Registry[K, S]
	// dispatch delivers family events to states.
	dispatch Dispatcher[K, S, E]
	// observers are notified about every transition.
	observers []Observer[K]
	// scope is the Emitter passed to callbacks.
	scope Emitter[K, E]

	current S
	key     K
	started bool
}

// New creates a machine over registry. It does not enter any state until Start.
func New[K Key, S State[K, E], E any](
	registry *Registry[K, S],
	dispatch Dispatcher[K, S, E],
	opts ...Option[K],
) *Machine[K, S, E] {
	var o options[K]
	for _, opt := range opts {
		opt(&o)
	}

	m := &Machine[K, S, E]{
		registry:  registry,
		dispatch:  dispatch,
		observers: o.observers,
	}

	m.scope = &scope[K, S, E]{machine: m}

	return m
}

// Start makes initial the current state and runs its Enter.
// It must be called exactly once, before any Emit.
func (m *Machine[K, S, E]) Start(initial K) {
	if m.started {
		panic(ErrAlreadyStarted)
	}

	m.current = m.registry.Instance(initial)
	m.key = initial
	m.started = true

	m.current.Enter(m.scope)
}

// Emit delivers event to the current state. Emitting before Start panics.
func (m *Machine[K, S, E]) Emit(event E) {
	if !m.started {
		panic(ErrNotStarted)
	}

	m.dispatch(m.current, m.scope, event)
}

// Current returns the key of the current state.
func (m *Machine[K, S, E]) Current() K {
	return m.key
}

// State returns the current state instance.
func (m *Machine[K, S, E]) State() S {
	return m.current
}

// Started reports whether Start has run.
func (m *Machine[K, S, E]) Started() bool {
	return m.started
}

// transition performs exit, reassign and enter. Observers see the change
// after the reassignment and before the new state's Enter, so a chain of
// transitions triggered from Enter is reported in order.
func (m *Machine[K, S, E]) transition(next K) {
	if !m.started {
		panic(ErrNotStarted)
	}

	target := m.registry.Instance(next)
	from := m.key

	m.current.Exit(m.scope)

	m.current = target
	m.key = next

	for _, observe := range m.observers {
		observe(from, next)
	}

	target.Enter(m.scope)
}

// scope is the only Emitter implementation, which keeps Goto out of the
// Machine's public method set.
type scope[K Key, S State[K, E], E any] struct {
	machine *Machine[K, S, E]
}

func (s *scope[K, S, E]) Emit(event E) {
	s.machine.Emit(event)
}

func (s *scope[K, S, E]) Goto(next K) {
	s.machine.transition(next)
}
