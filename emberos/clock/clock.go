// Package clock provides the kernel time base.
//
// Time is a free-running 32-bit tick counter. Differences are computed with
// unsigned subtraction so intervals stay correct across wraparound as long as
// they are shorter than half the counter range.
package clock

import (
	"sync/atomic"
	"time"
)

// Tick is a point in kernel time.
type Tick uint32

// Since returns the ticks elapsed from start to now.
func Since(now, start Tick) Tick { return now - start }

// Source reports the current tick.
type Source interface {
	Tick() Tick
}

// SourceFunc adapts a function to Source.
type SourceFunc func() Tick

func (f SourceFunc) Tick() Tick { return f() }

// Counter is a Source advanced by a periodic interrupt.
type Counter struct {
	ticks  atomic.Uint32
	period time.Duration
}

// NewCounter returns a counter whose tick lasts period.
func NewCounter(period time.Duration) *Counter {
	return &Counter{period: period}
}

// Tick returns the current count.
func (c *Counter) Tick() Tick { return Tick(c.ticks.Load()) }

// Advance adds n ticks. It is safe to call from interrupt context.
func (c *Counter) Advance(n uint32) Tick { return Tick(c.ticks.Add(n)) }

// Period returns the duration of one tick.
func (c *Counter) Period() time.Duration { return c.period }

// Ticks converts d to a whole number of ticks, rounding up so that a
// non-zero duration never becomes zero ticks.
func (c *Counter) Ticks(d time.Duration) Tick {
	if d <= 0 || c.period <= 0 {
		return 0
	}
	return Tick((d + c.period - 1) / c.period)
}

// Duration converts t ticks to wall time.
func (c *Counter) Duration(t Tick) time.Duration {
	return time.Duration(t) * c.period
}
