// Package debounce provides a single-shot, cancelable, resettable delayed
// callback. Arming the timer again before it fires discards the previous
// schedule, so a burst of stimuli collapses into one callback triggered by
// the last stimulus in the burst.
package debounce

import (
	"sync"
	"time"
)

// Timer is a one-shot delayed callback. At most one fire is pending per
// instance; Arm replaces any pending schedule.
//
// Cancellation is best-effort: if the underlying timer has already fired,
// Cancel is a no-op and the callback still runs (once). Callers must accept
// the race between cancel and fire.
type Timer struct {
	mu sync.Mutex
	t  *time.Timer
}

// Arm schedules fn to run after delay, first discarding any previously
// armed schedule on this instance. No two callbacks from the same Arm call
// ever fire.
func (d *Timer) Arm(delay time.Duration, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.t != nil {
		d.t.Stop()
	}
	d.t = time.AfterFunc(delay, fn)
}

// Cancel stops the pending schedule if one exists and has not fired yet.
// Canceling an already-fired or never-armed timer is a no-op.
func (d *Timer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.t != nil {
		d.t.Stop()
		d.t = nil
	}
}
