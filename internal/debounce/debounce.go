// Package debounce delays propagation of a rapidly changing value until it has
// been stable for a fixed window.
package debounce

import (
	"sync"
	"time"
)

const DefaultWindow = 300 * time.Millisecond

type Debouncer[T any] struct {
	mu       sync.Mutex
	window   time.Duration
	value    T
	seq      uint64
	timer    *time.Timer
	stopped  bool
	onChange func(T)
}

// New starts with initial as the settled value. onChange, if set, runs on the timer
// goroutine each time a new value settles.
func New[T any](initial T, window time.Duration, onChange func(T)) *Debouncer[T] {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Debouncer[T]{window: window, value: initial, onChange: onChange}
}

// Set records v as the latest input and restarts the window.
func (d *Debouncer[T]) Set(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.seq++
	seq := d.seq
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, func() { d.fire(seq, v) })
}

func (d *Debouncer[T]) fire(seq uint64, v T) {
	d.mu.Lock()
	// A timer that lost the race with Stop or a newer Set must not propagate.
	if d.stopped || seq != d.seq {
		d.mu.Unlock()
		return
	}
	d.value = v
	d.timer = nil
	cb := d.onChange
	d.mu.Unlock()
	if cb != nil {
		cb(v)
	}
}

// Value returns the last settled value.
func (d *Debouncer[T]) Value() T {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.value
}

// Pending reports whether an update is waiting for its window to elapse.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Stop cancels any pending update. Nothing propagates afterwards.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	d.seq++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
