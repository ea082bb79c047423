package fsm

import "fmt"

// Key identifies a state inside one machine family.
// Every family declares its own named key type.
type Key interface {
	~uint8
}

// slot holds the constructor and the lazily built instance for one key.
type slot[S any] struct {
	// build creates the instance on first use.
	build func() S
	// instance is the singleton, valid once built is true.
	instance S
	// built reports whether instance has been created.
	built bool
}

// Registry keeps exactly one instance per state key for the lifetime of the
// process. Instances are created on first lookup and never replaced.
type Registry[K Key, S any] struct {
	slots []slot[S]
}

// NewRegistry creates an empty registry.
func NewRegistry[K Key, S any]() *Registry[K, S] {
	return new(Registry[K, S])
}

// Register binds a constructor to key. Registering the same key twice panics.
func (r *Registry[K, S]) Register(key K, build func() S) {
	idx := int(key)

	if idx >= len(r.slots) {
		grown := make([]slot[S], idx+1)
		copy(grown, r.slots)
		r.slots = grown
	}

	if r.slots[idx].build != nil {
		panic(fmt.Errorf("%w: %v", ErrDuplicateState, key))
	}

	r.slots[idx].build = build
}

// Instance returns the singleton for key, building it on first use.
// An unregistered key panics.
func (r *Registry[K, S]) Instance(key K) S {
	idx := int(key)
	if idx >= len(r.slots) || r.slots[idx].build == nil {
		panic(fmt.Errorf("%w: %v", ErrUnknownState, key))
	}

	s := &r.slots[idx]
	if !s.built {
		s.instance = s.build()
		s.built = true
	}

	return s.instance
}

// keys returns the registered keys in ascending order.
func (r *Registry[K, S]) keys() []K {
	keys := make([]K, 0, len(r.slots))

	for i := range r.slots {
		if r.slots[i].build != nil {
			keys = append(keys, K(i))
		}
	}

	return keys
}
