package hal

import (
	"errors"
	"sync"
)

var errNoDevice = errors.New("i2c: no device at address")

// simBus is an I2C bus with one simulated input expander. Its lines mirror a
// set of input pins, so anything driving those pins shows up on the bus.
type simBus struct {
	mu    sync.Mutex
	addr  uint16
	lines []GPIOPin
	txs   int
}

func newSimBus(addr uint16, lines ...GPIOPin) *simBus {
	return &simBus{addr: addr, lines: lines}
}

func (b *simBus) Tx(addr uint16, w, r []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if addr != b.addr {
		return errNoDevice
	}
	b.txs++
	for i := range r {
		r[i] = 0
	}
	for i, p := range b.lines {
		if p == nil || i/8 >= len(r) {
			continue
		}
		if level, err := p.Read(); err == nil && level {
			r[i/8] |= 1 << (i % 8)
		}
	}
	return nil
}

func (b *simBus) ReadRegister(addr uint8, reg uint8, buf []byte) error {
	return b.Tx(uint16(addr), []byte{reg}, buf)
}

func (b *simBus) WriteRegister(addr uint8, reg uint8, buf []byte) error {
	return b.Tx(uint16(addr), append([]byte{reg}, buf...), nil)
}
