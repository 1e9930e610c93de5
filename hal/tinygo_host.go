//go:build tinygo && !baremetal

package hal

import (
	"fmt"
	"runtime"

	"tinygo.org/x/drivers"
)

type tinyGoHostHAL struct {
	logger *tinyGoHostLogger
	led    *tinyGoHostLED
	gpio   GPIO
	fb     *tinyGoHostFramebuffer
	kbd    *stubKeyboard
	t      *tinyGoTime
	bus    *simBus
}

// New returns a TinyGo-on-host HAL implementation.
//
// This is used by `tinygo run` targets like linux/wasm where there is no MCU
// pin mapping. Inputs are simulated pins nobody drives.
func New() HAL {
	l := &tinyGoHostLogger{}
	led := &tinyGoHostLED{logger: l}
	pins := []GPIOPin{newLEDPin(PinLED, led)}
	for i := 0; i < Buttons; i++ {
		pins = append(pins, newVirtualPin(fmt.Sprintf("BTN%d", i+1), GPIOCapInput))
	}
	lines := make([]GPIOPin, ExpanderLines)
	for i := range lines {
		lines[i] = newVirtualPin(fmt.Sprintf("EXP%d", i), GPIOCapInput)
	}
	return &tinyGoHostHAL{
		logger: l,
		led:    led,
		gpio:   newPinBank(pins...),
		fb:     newTinyGoHostFramebuffer(320, 320),
		kbd:    &stubKeyboard{},
		t:      newTinyGoTime(),
		bus:    newSimBus(ExpanderAddr, lines...),
	}
}

func (h *tinyGoHostHAL) Logger() Logger   { return h.logger }
func (h *tinyGoHostHAL) LED() LED         { return h.led }
func (h *tinyGoHostHAL) GPIO() GPIO       { return h.gpio }
func (h *tinyGoHostHAL) Display() Display { return tinyGoDisplay{fb: h.fb} }
func (h *tinyGoHostHAL) Input() Input     { return tinyGoInput{kbd: h.kbd} }
func (h *tinyGoHostHAL) Time() Time       { return h.t }
func (h *tinyGoHostHAL) IRQ() IRQ         { return nopIRQ{} }
func (h *tinyGoHostHAL) I2C() drivers.I2C { return h.bus }

// nopIRQ relies on the cooperative goroutine scheduler of hosted TinyGo:
// nothing runs between Disable and Restore unless the holder yields.
type nopIRQ struct{}

func (nopIRQ) Disable() uint32 { return 0 }
func (nopIRQ) Restore(uint32)  {}

type tinyGoHostLogger struct{}

func (l *tinyGoHostLogger) WriteLineString(s string) {
	println(s)
}

func (l *tinyGoHostLogger) WriteLineBytes(b []byte) {
	println(string(b))
}

type tinyGoHostLED struct {
	on     bool
	logger *tinyGoHostLogger
}

func (l *tinyGoHostLED) High() {
	l.on = true
	l.logger.WriteLineString(fmt.Sprintf("led: HIGH (tinygo/%s)", runtime.GOOS))
}

func (l *tinyGoHostLED) Low() {
	l.on = false
	l.logger.WriteLineString(fmt.Sprintf("led: LOW (tinygo/%s)", runtime.GOOS))
}
