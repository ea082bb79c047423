package fsm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// gate is a small turnstile family used to exercise the engine.
type gate uint8

const (
	locked gate = iota
	unlocked
	jammed
)

func (g gate) String() string {
	switch g {
	case locked:
		return "locked"
	case unlocked:
		return "unlocked"
	case jammed:
		return "jammed"
	default:
		return "unknown"
	}
}

type gateEvent interface{ isGateEvent() }

type (
	coin struct{}
	push struct{}
	kick struct{}
)

func (coin) isGateEvent() {}
func (push) isGateEvent() {}
func (kick) isGateEvent() {}

type gateEmitter = Emitter[gate, gateEvent]

type gateState interface {
	State[gate, gateEvent]
	onCoin(m gateEmitter)
	onPush(m gateEmitter)
	onKick(m gateEmitter)
}

func dispatchGate(s gateState, m gateEmitter, event gateEvent) {
	switch event.(type) {
	case coin:
		s.onCoin(m)
	case push:
		s.onPush(m)
	case kick:
		s.onKick(m)
	}
}

// journal records callbacks in the order they ran.
type journal struct {
	entries []string
}

func (j *journal) add(entry string) {
	j.entries = append(j.entries, entry)
}

// ignoreAll provides no-op handlers and logged Enter/Exit.
type ignoreAll struct {
	name string
	log  *journal
}

func (s *ignoreAll) Enter(gateEmitter) { s.log.add("enter " + s.name) }
func (s *ignoreAll) Exit(gateEmitter)  { s.log.add("exit " + s.name) }
func (*ignoreAll) onCoin(gateEmitter)  {}
func (*ignoreAll) onPush(gateEmitter)  {}
func (*ignoreAll) onKick(gateEmitter)  {}

type lockedState struct{ ignoreAll }

func (*lockedState) onCoin(m gateEmitter) { m.Goto(unlocked) }
func (*lockedState) onKick(m gateEmitter) { m.Goto(jammed) }

type unlockedState struct{ ignoreAll }

func (*unlockedState) onPush(m gateEmitter) { m.Goto(locked) }

// jammedState recovers on entry: it goes back to locked and replays a coin.
type jammedState struct{ ignoreAll }

func (s *jammedState) Enter(m gateEmitter) {
	s.ignoreAll.Enter(m)
	m.Goto(locked)
	m.Emit(coin{})
	s.log.add("jammed enter done")
}

// newGate builds a turnstile machine; builds counts state constructions.
func newGate(log *journal, builds *int, withJammed bool, opts ...Option[gate]) *Machine[gate, gateState, gateEvent] {
	registry := NewRegistry[gate, gateState]()

	registry.Register(locked, func() gateState {
		*builds++
		return &lockedState{ignoreAll{name: "locked", log: log}}
	})
	registry.Register(unlocked, func() gateState {
		*builds++
		return &unlockedState{ignoreAll{name: "unlocked", log: log}}
	})

	if withJammed {
		registry.Register(jammed, func() gateState {
			*builds++
			return &jammedState{ignoreAll{name: "jammed", log: log}}
		})
	}

	return New(registry, dispatchGate, opts...)
}

// TestMachine_Start verifies Start enters the initial state exactly once.
func TestMachine_Start(t *testing.T) {
	t.Parallel()

	var (
		log    journal
		builds int
	)

	m := newGate(&log, &builds, false)
	require.False(t, m.Started())

	m.Start(locked)

	require.True(t, m.Started())
	require.Equal(t, locked, m.Current())
	require.Equal(t, []string{"enter locked"}, log.entries)
	require.Equal(t, 1, builds)
}

// TestMachine_TransitionOrder checks that exit of the old state precedes enter of the new one.
func TestMachine_TransitionOrder(t *testing.T) {
	t.Parallel()

	var (
		log    journal
		builds int
	)

	m := newGate(&log, &builds, false)
	m.Start(locked)
	m.Emit(coin{})

	require.Equal(t, unlocked, m.Current())
	require.Equal(t, []string{"enter locked", "exit locked", "enter unlocked"}, log.entries)
}

// TestMachine_UnhandledEventIsNoop ensures events without a handler change nothing.
func TestMachine_UnhandledEventIsNoop(t *testing.T) {
	t.Parallel()

	var (
		log    journal
		builds int
	)

	m := newGate(&log, &builds, false)
	m.Start(locked)

	before := m.State()

	m.Emit(push{})
	m.Emit(push{})

	require.Equal(t, locked, m.Current())
	require.Same(t, before, m.State())
	require.Equal(t, []string{"enter locked"}, log.entries)
}

// TestMachine_NestedEmitRunsToCompletion verifies nested transitions complete before the caller resumes.
func TestMachine_NestedEmitRunsToCompletion(t *testing.T) {
	t.Parallel()

	var (
		log     journal
		builds  int
		changes []string
	)

	observer := WithObserver(func(from, to gate) {
		changes = append(changes, from.String()+"->"+to.String())
	})

	m := newGate(&log, &builds, true, observer)
	m.Start(locked)
	m.Emit(kick{})

	require.Equal(t, unlocked, m.Current())
	require.Equal(t, []string{
		"enter locked",
		"exit locked",
		"enter jammed",
		"exit jammed",
		"enter locked",
		"exit locked",
		"enter unlocked",
		"jammed enter done",
	}, log.entries)
	require.Equal(t, []string{"locked->jammed", "jammed->locked", "locked->unlocked"}, changes)
}

// TestMachine_Singletons ensures each state is built once and reused on every visit.
func TestMachine_Singletons(t *testing.T) {
	t.Parallel()

	var (
		log    journal
		builds int
	)

	m := newGate(&log, &builds, false)
	m.Start(locked)

	first := m.State()

	m.Emit(coin{})
	m.Emit(push{})
	m.Emit(coin{})
	m.Emit(push{})

	require.Equal(t, locked, m.Current())
	require.Same(t, first, m.State())
	require.Equal(t, 2, builds)
}

// TestMachine_EmitBeforeStart asserts that emitting before Start fails fast.
func TestMachine_EmitBeforeStart(t *testing.T) {
	t.Parallel()

	var (
		log    journal
		builds int
	)

	m := newGate(&log, &builds, false)

	require.PanicsWithValue(t, ErrNotStarted, func() { m.Emit(coin{}) })
	require.Empty(t, log.entries)
}

// TestMachine_StartTwice asserts that a second Start panics and keeps the current state.
func TestMachine_StartTwice(t *testing.T) {
	t.Parallel()

	var (
		log    journal
		builds int
	)

	m := newGate(&log, &builds, false)
	m.Start(locked)
	m.Emit(coin{})

	require.PanicsWithValue(t, ErrAlreadyStarted, func() { m.Start(locked) })
	require.Equal(t, unlocked, m.Current())
}

// TestMachine_UnknownTarget asserts that a transition into an unregistered key panics with ErrUnknownState.
func TestMachine_UnknownTarget(t *testing.T) {
	t.Parallel()

	var (
		log    journal
		builds int
	)

	m := newGate(&log, &builds, false)
	m.Start(locked)

	err := recoverError(func() { m.Emit(kick{}) })
	require.ErrorIs(t, err, ErrUnknownState)
	require.Equal(t, locked, m.Current())
}

// recoverError runs fn and returns the error it panicked with.
func recoverError(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
				return
			}

			err = errors.New("non-error panic")
		}
	}()

	fn()

	return nil
}
