package clock

// Timer is a software timer measured against a Source.
//
// A timer is armed with a start tick and an interval; it expires once the
// interval has elapsed since the start. An armed timer with a zero interval
// is always expired. Reload restarts it from the current tick.
type Timer struct {
	start    Tick
	interval Tick
	armed    bool
}

// Set arms the timer to expire interval ticks after now.
func (t *Timer) Set(now, interval Tick) {
	t.start = now
	t.interval = interval
	t.armed = true
}

// Disarm stops the timer.
func (t *Timer) Disarm() {
	t.start = 0
	t.interval = 0
	t.armed = false
}

// Armed reports whether the timer is running.
func (t *Timer) Armed() bool { return t.armed }

// Interval returns the configured interval.
func (t *Timer) Interval() Tick { return t.interval }

// Start returns the tick the timer was last armed at.
func (t *Timer) Start() Tick { return t.start }

// Elapsed returns the ticks since the timer was armed.
func (t *Timer) Elapsed(now Tick) Tick { return Since(now, t.start) }

// Expired reports whether an armed timer has run its interval.
func (t *Timer) Expired(now Tick) bool {
	return t.armed && t.Elapsed(now) >= t.interval
}

// Remaining returns the ticks left before expiry, zero once expired or when
// disarmed.
func (t *Timer) Remaining(now Tick) Tick {
	if !t.armed {
		return 0
	}
	e := t.Elapsed(now)
	if e >= t.interval {
		return 0
	}
	return t.interval - e
}

// Overdue returns how far past expiry the timer is, zero if not expired.
func (t *Timer) Overdue(now Tick) Tick {
	if !t.Expired(now) {
		return 0
	}
	return t.Elapsed(now) - t.interval
}

// Reload restarts an armed timer from now, keeping its interval.
func (t *Timer) Reload(now Tick) {
	if t.armed {
		t.start = now
	}
}
