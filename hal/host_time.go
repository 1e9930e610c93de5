//go:build !tinygo

package hal

import "time"

// TickPeriod is the host tick length.
const TickPeriod = time.Millisecond

// hostTime turns elapsed wall time into ticks each time the runner steps.
type hostTime struct {
	ch   chan uint64
	seq  uint64
	now  func() time.Time
	last time.Time
	acc  time.Duration
}

func newHostTime() *hostTime {
	return &hostTime{ch: make(chan uint64, 1024), now: time.Now}
}

func (t *hostTime) Ticks() <-chan uint64 { return t.ch }

// step emits the ticks elapsed since the previous step. The first step emits
// one tick.
func (t *hostTime) step() {
	now := t.now()
	if t.last.IsZero() {
		t.last = now
		t.emit(1)
		return
	}
	t.acc += now.Sub(t.last)
	t.last = now
	n := uint64(t.acc / TickPeriod)
	t.acc %= TickPeriod
	t.emit(n)
}

// emit publishes n ticks, dropping those the consumer has no room for.
func (t *hostTime) emit(n uint64) {
	for ; n > 0; n-- {
		t.seq++
		select {
		case t.ch <- t.seq:
		default:
		}
	}
}
