//go:build !tinygo

package hal

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"tinygo.org/x/drivers"
)

type hostHAL struct {
	logger *hostLogger
	led    *hostLED
	gpio   GPIO
	fb     *hostFramebuffer
	kbd    *hostKeyboard
	t      *hostTime
	irq    *hostIRQ
	bus    *simBus
}

// New returns a host HAL implementation.
//
// Pins: LED, BTN1..BTN4 (keys 1..4), SIG1HZ and SIG5HZ square waves. The I2C
// bus carries an input expander at ExpanderAddr whose lines 0..7 follow keys
// A..H.
func New() HAL {
	return newHost(os.Stdout)
}

func newHost(w io.Writer) *hostHAL {
	logger := &hostLogger{w: w}
	led := &hostLED{}

	pins := []GPIOPin{newLEDPin(PinLED, led)}
	var binds []keyBinding
	for i := 0; i < Buttons; i++ {
		p := newVirtualPin(fmt.Sprintf("BTN%d", i+1), GPIOCapInput|GPIOCapPullUp|GPIOCapPullDown)
		pins = append(pins, p)
		binds = append(binds, keyBinding{key: '1' + rune(i), pin: p})
	}
	pins = append(pins,
		newSignalPin("SIG1HZ", time.Second, 500*time.Millisecond),
		newSignalPin("SIG5HZ", 200*time.Millisecond, 100*time.Millisecond),
	)

	lines := make([]GPIOPin, ExpanderLines)
	for i := range lines {
		p := newVirtualPin(fmt.Sprintf("EXP%d", i), GPIOCapInput)
		lines[i] = p
		binds = append(binds, keyBinding{key: 'a' + rune(i), pin: p})
	}

	return &hostHAL{
		logger: logger,
		led:    led,
		gpio:   newPinBank(pins...),
		fb:     newHostFramebuffer(320, 320),
		kbd:    newHostKeyboard(binds),
		t:      newHostTime(),
		irq:    newHostIRQ(),
		bus:    newSimBus(ExpanderAddr, lines...),
	}
}

func (h *hostHAL) Logger() Logger   { return h.logger }
func (h *hostHAL) LED() LED         { return h.led }
func (h *hostHAL) GPIO() GPIO       { return h.gpio }
func (h *hostHAL) Display() Display { return hostDisplay{fb: h.fb} }
func (h *hostHAL) Input() Input     { return hostInput{kbd: h.kbd} }
func (h *hostHAL) Time() Time       { return h.t }
func (h *hostHAL) IRQ() IRQ         { return h.irq }
func (h *hostHAL) I2C() drivers.I2C { return h.bus }

type hostDisplay struct {
	fb *hostFramebuffer
}

func (d hostDisplay) Framebuffer() Framebuffer { return d.fb }

type hostInput struct {
	kbd *hostKeyboard
}

func (in hostInput) Keyboard() Keyboard { return in.kbd }

type hostLogger struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	if len(b) == 0 || b[len(b)-1] != '\n' {
		l.w.Write([]byte{'\n'})
	}
}

type hostLED struct {
	on atomic.Bool
}

func (l *hostLED) High()    { l.on.Store(true) }
func (l *hostLED) Low()     { l.on.Store(false) }
func (l *hostLED) On() bool { return l.on.Load() }
