package fsm

// Observer is notified about every completed transition.
type Observer[K Key] func(from, to K)

// options collects the machine configuration applied by Option values.
type options[K Key] struct {
	observers []Observer[K]
}

// Option configures a Machine.
type Option[K Key] func(*options[K])

// WithObserver adds a transition observer. Observers run in the order they
// were added, on the goroutine that drives the machine.
func WithObserver[K Key](fn Observer[K]) Option[K] {
	return func(o *options[K]) {
		if fn != nil {
			o.observers = append(o.observers, fn)
		}
	}
}
