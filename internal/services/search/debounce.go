package search

import (
	"sync"
	"time"
)

// DefaultDebounce is the quiet period after the last keystroke before a
// search runs.
const DefaultDebounce = 500 * time.Millisecond

// Debouncer runs only the most recent of a burst of calls, once the burst has
// been quiet for the configured wait.
type Debouncer struct {
	wait time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending func()
	gen     uint64
	running sync.WaitGroup
}

// NewDebouncer returns a Debouncer with the given quiet period.
func NewDebouncer(wait time.Duration) *Debouncer {
	return &Debouncer{wait: wait}
}

// Trigger schedules fn, replacing any call that has not run yet.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.pending = fn
	d.timer = time.AfterFunc(d.wait, func() { d.fire(gen) })
}

// Flush runs the pending call now, if any, and waits for it to return.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	fn := d.take()
	d.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Stop drops the pending call.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	d.take()
	d.mu.Unlock()
}

// Wait blocks until calls started by the timer have returned. Call Stop
// or Flush first so no new call can start.
func (d *Debouncer) Wait() {
	d.running.Wait()
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen {
		d.mu.Unlock()
		return
	}
	fn := d.take()
	if fn != nil {
		d.running.Add(1)
	}
	d.mu.Unlock()
	if fn != nil {
		defer d.running.Done()
		fn()
	}
}

// take clears and returns the pending call. d.mu must be held.
func (d *Debouncer) take() func() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
	fn := d.pending
	d.pending = nil
	return fn
}
