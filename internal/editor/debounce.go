package editor

import "time"

// DefaultDebounce is the minimum gap between two accepted editor toggles.
const DefaultDebounce = 100 * time.Millisecond

// Clock reports the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock is a Clock backed by time.Now.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time { return time.Now() }

// Debouncer is either idle or recently toggled with a deadline. While the
// deadline is in the future further toggles are refused.
type Debouncer struct {
	clock    Clock
	window   time.Duration
	deadline time.Time // zero when idle
}

// NewDebouncer creates an idle Debouncer. A nil clock means SystemClock.
func NewDebouncer(clock Clock, window time.Duration) *Debouncer {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Debouncer{clock: clock, window: window}
}

// Allow reports whether a toggle may happen now and, if so, starts a new
// window.
func (d *Debouncer) Allow() bool {
	now := d.clock.Now()
	if !d.deadline.IsZero() && now.Before(d.deadline) {
		return false
	}
	d.deadline = now.Add(d.window)
	return true
}

// Idle reports whether no window is currently open.
func (d *Debouncer) Idle() bool {
	if d.deadline.IsZero() {
		return true
	}
	if !d.clock.Now().Before(d.deadline) {
		d.deadline = time.Time{}
		return true
	}
	return false
}
