package hal

import (
	"errors"
	"fmt"

	"tinygo.org/x/drivers"
)

// ExpanderAddr is the default bus address of the input port expander.
const ExpanderAddr uint16 = 0x20

var ErrNoBus = errors.New("expander: no i2c bus")

// Expander reads the 16 input lines of an I2C port expander. The latest
// reading is kept in a register that edge-check nodes watch through Port.
//
// Refresh and the watchers run on the same task, so Port needs no locking.
type Expander struct {
	bus   drivers.I2C
	addr  uint16
	cmd   []byte
	rx    [2]byte
	value uint16
}

// NewExpander returns an expander at addr. cmd is written before each read;
// devices without a register pointer take none.
func NewExpander(bus drivers.I2C, addr uint16, cmd ...byte) *Expander {
	return &Expander{bus: bus, addr: addr, cmd: cmd}
}

// Refresh reads the port lines into the register.
func (e *Expander) Refresh() error {
	if e == nil || e.bus == nil {
		return ErrNoBus
	}
	if err := e.bus.Tx(e.addr, e.cmd, e.rx[:]); err != nil {
		return fmt.Errorf("expander 0x%02x: %w", e.addr, err)
	}
	e.value = uint16(e.rx[0]) | uint16(e.rx[1])<<8
	return nil
}

// Port returns the register holding the last reading.
func (e *Expander) Port() *uint16 { return &e.value }

// Value returns the last reading.
func (e *Expander) Value() uint16 { return e.value }
