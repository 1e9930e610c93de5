package app

import (
	"errors"
	"strings"
	"sync"

	"ember/hal"

	"tinygo.org/x/drivers"
)

type fakeLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *fakeLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, s)
}

func (l *fakeLogger) WriteLineBytes(b []byte) {
	l.WriteLineString(strings.TrimRight(string(b), "\n"))
}

func (l *fakeLogger) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return strings.Join(l.lines, "\n")
}

type fakePin struct {
	mu    sync.Mutex
	name  string
	level bool
}

func (p *fakePin) Name() string       { return p.name }
func (p *fakePin) Caps() hal.GPIOCaps { return hal.GPIOCapInput | hal.GPIOCapOutput }

func (p *fakePin) Configure(hal.GPIOMode, hal.GPIOPull) error { return nil }

func (p *fakePin) Read() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level, nil
}

func (p *fakePin) Write(level bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.level = level
	return nil
}

type fakeGPIO []*fakePin

func (g fakeGPIO) PinCount() int { return len(g) }
func (g fakeGPIO) Pin(id int) hal.GPIOPin {
	if id < 0 || id >= len(g) {
		return nil
	}
	return g[id]
}

type fakeBus struct {
	mu    sync.Mutex
	lines uint16
	fail  bool
}

func (b *fakeBus) set(line int, level bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if level {
		b.lines |= 1 << line
	} else {
		b.lines &^= 1 << line
	}
}

func (b *fakeBus) Tx(addr uint16, w, r []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.fail || addr != hal.ExpanderAddr {
		return errors.New("nack")
	}
	if len(r) >= 2 {
		r[0], r[1] = byte(b.lines), byte(b.lines>>8)
	}
	return nil
}

func (b *fakeBus) ReadRegister(addr uint8, reg uint8, buf []byte) error {
	return b.Tx(uint16(addr), []byte{reg}, buf)
}

func (b *fakeBus) WriteRegister(addr uint8, reg uint8, buf []byte) error {
	return b.Tx(uint16(addr), []byte{reg}, nil)
}

type fakeFramebuffer struct {
	mu       sync.Mutex
	w, h     int
	buf      []byte
	presents int
}

func (f *fakeFramebuffer) Width() int              { return f.w }
func (f *fakeFramebuffer) Height() int             { return f.h }
func (f *fakeFramebuffer) Format() hal.PixelFormat { return hal.PixelFormatRGB565 }
func (f *fakeFramebuffer) StrideBytes() int        { return f.w * 2 }
func (f *fakeFramebuffer) Buffer() []byte          { return f.buf }
func (f *fakeFramebuffer) ClearRGB(r, g, b uint8)  {}

func (f *fakeFramebuffer) Present() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.presents++
	return nil
}

func (f *fakeFramebuffer) presented() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.presents
}

type fakeKeyboard struct{ ch chan hal.KeyEvent }

func (k fakeKeyboard) Events() <-chan hal.KeyEvent { return k.ch }

type fakeTime struct{ ch chan uint64 }

func (t fakeTime) Ticks() <-chan uint64 { return t.ch }

type fakeHAL struct {
	log  *fakeLogger
	gpio fakeGPIO
	bus  *fakeBus
	fb   *fakeFramebuffer
	kbd  fakeKeyboard
	tm   fakeTime
	irq  hal.IRQ
}

func newFakeHAL() *fakeHAL {
	return &fakeHAL{
		log:  &fakeLogger{},
		gpio: fakeGPIO{{name: hal.PinLED}, {name: "BTN1"}, {name: "BTN2"}},
		bus:  &fakeBus{},
		fb:   &fakeFramebuffer{w: 160, h: 240, buf: make([]byte, 160*240*2)},
		kbd:  fakeKeyboard{ch: make(chan hal.KeyEvent, 8)},
		tm:   fakeTime{ch: make(chan uint64, 64)},
		irq:  hal.NewIRQ(),
	}
}

func (h *fakeHAL) Logger() hal.Logger   { return h.log }
func (h *fakeHAL) LED() hal.LED         { return nil }
func (h *fakeHAL) GPIO() hal.GPIO       { return h.gpio }
func (h *fakeHAL) Display() hal.Display { return h }
func (h *fakeHAL) Input() hal.Input     { return h }
func (h *fakeHAL) Time() hal.Time       { return h.tm }
func (h *fakeHAL) IRQ() hal.IRQ         { return h.irq }
func (h *fakeHAL) I2C() drivers.I2C     { return h.bus }

func (h *fakeHAL) Framebuffer() hal.Framebuffer { return h.fb }
func (h *fakeHAL) Keyboard() hal.Keyboard       { return h.kbd }
