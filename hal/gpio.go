package hal

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

const (
	// PinLED names the status LED output.
	PinLED = "LED"
	// Buttons is the number of push buttons, named BTN1 onward.
	Buttons = 4
	// ExpanderLines is the number of expander lines wired to inputs.
	ExpanderLines = 8
)

// GPIOMode selects whether a pin is an input or output.
type GPIOMode uint8

const (
	GPIOModeInput GPIOMode = iota
	GPIOModeOutput
)

// GPIOPull selects the pull resistor configuration.
type GPIOPull uint8

const (
	GPIOPullNone GPIOPull = iota
	GPIOPullUp
	GPIOPullDown
)

// GPIOCaps declares what operations a pin supports.
type GPIOCaps uint8

const (
	GPIOCapInput GPIOCaps = 1 << iota
	GPIOCapOutput
	GPIOCapPullUp
	GPIOCapPullDown
)

// GPIO provides access to general-purpose IO pins.
type GPIO interface {
	PinCount() int
	Pin(id int) GPIOPin
}

// GPIOPin is a single digital IO pin.
type GPIOPin interface {
	Name() string
	Caps() GPIOCaps
	Configure(mode GPIOMode, pull GPIOPull) error
	Read() (level bool, err error)
	Write(level bool) error
}

// Driver is implemented by simulated input pins whose level is set from
// outside the program, such as a key standing in for a push button.
type Driver interface {
	Drive(level bool)
}

// ReadPin reads pin number pin of port, which must be a GPIO. It has the
// shape of an edge-check port reader; unreadable pins read low.
func ReadPin(port any, pin uint8) bool {
	g, ok := port.(GPIO)
	if !ok || g == nil {
		return false
	}
	p := g.Pin(int(pin))
	if p == nil {
		return false
	}
	level, err := p.Read()
	return err == nil && level
}

// FindPin returns the index of the pin called name.
func FindPin(g GPIO, name string) (int, bool) {
	if g == nil {
		return 0, false
	}
	for i := 0; i < g.PinCount(); i++ {
		if p := g.Pin(i); p != nil && strings.EqualFold(p.Name(), name) {
			return i, true
		}
	}
	return 0, false
}

type nullGPIO struct{}

func (nullGPIO) PinCount() int      { return 0 }
func (nullGPIO) Pin(id int) GPIOPin { return nil }

type pinBank struct {
	pins []GPIOPin
}

func newPinBank(pins ...GPIOPin) GPIO {
	var kept []GPIOPin
	for _, p := range pins {
		if p != nil {
			kept = append(kept, p)
		}
	}
	if len(kept) == 0 {
		return nullGPIO{}
	}
	return &pinBank{pins: kept}
}

func (g *pinBank) PinCount() int { return len(g.pins) }

func (g *pinBank) Pin(id int) GPIOPin {
	if id < 0 || id >= len(g.pins) {
		return nil
	}
	return g.pins[id]
}

func checkConfig(name string, caps GPIOCaps, mode GPIOMode, pull GPIOPull) error {
	switch mode {
	case GPIOModeInput:
		if caps&GPIOCapInput == 0 {
			return fmt.Errorf("gpio: pin %s: input unsupported", name)
		}
	case GPIOModeOutput:
		if caps&GPIOCapOutput == 0 {
			return fmt.Errorf("gpio: pin %s: output unsupported", name)
		}
	default:
		return fmt.Errorf("gpio: pin %s: invalid mode", name)
	}
	switch pull {
	case GPIOPullNone:
	case GPIOPullUp:
		if caps&GPIOCapPullUp == 0 {
			return fmt.Errorf("gpio: pin %s: pull-up unsupported", name)
		}
	case GPIOPullDown:
		if caps&GPIOCapPullDown == 0 {
			return fmt.Errorf("gpio: pin %s: pull-down unsupported", name)
		}
	default:
		return fmt.Errorf("gpio: pin %s: invalid pull", name)
	}
	return nil
}

// virtualPin is a simulated pin. As an input it reads the level set with
// Drive, or the pull level while undriven.
type virtualPin struct {
	mu      sync.Mutex
	name    string
	caps    GPIOCaps
	mode    GPIOMode
	pull    GPIOPull
	level   bool
	driven  bool
	drive   bool
	changed func(level bool)
}

func newVirtualPin(name string, caps GPIOCaps) *virtualPin {
	return &virtualPin{name: name, caps: caps}
}

func (p *virtualPin) Name() string   { return p.name }
func (p *virtualPin) Caps() GPIOCaps { return p.caps }

func (p *virtualPin) Configure(mode GPIOMode, pull GPIOPull) error {
	if err := checkConfig(p.name, p.caps, mode, pull); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mode = mode
	p.pull = pull
	return nil
}

func (p *virtualPin) Read() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.mode == GPIOModeOutput {
		return p.level, nil
	}
	if p.driven {
		return p.drive, nil
	}
	return p.pull == GPIOPullUp, nil
}

func (p *virtualPin) Write(level bool) error {
	p.mu.Lock()
	if p.mode != GPIOModeOutput {
		p.mu.Unlock()
		return fmt.Errorf("gpio: pin %s: not in output mode", p.name)
	}
	p.level = level
	fn := p.changed
	p.mu.Unlock()
	if fn != nil {
		fn(level)
	}
	return nil
}

func (p *virtualPin) Drive(level bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.driven = true
	p.drive = level
}

// signalPin is an input producing a square wave, high for the leading part
// of every period.
type signalPin struct {
	name   string
	t0     time.Time
	now    func() time.Time
	period time.Duration
	high   time.Duration
}

func newSignalPin(name string, period, high time.Duration) GPIOPin {
	return newSignalPinWithClock(name, period, high, time.Now)
}

func newSignalPinWithClock(name string, period, high time.Duration, now func() time.Time) GPIOPin {
	if strings.TrimSpace(name) == "" {
		return nil
	}
	if now == nil {
		now = time.Now
	}
	if period <= 0 {
		period = time.Second
	}
	high = min(max(high, 0), period)
	return &signalPin{name: name, t0: now(), now: now, period: period, high: high}
}

func (p *signalPin) Name() string   { return p.name }
func (p *signalPin) Caps() GPIOCaps { return GPIOCapInput }

func (p *signalPin) Configure(mode GPIOMode, pull GPIOPull) error {
	if pull != GPIOPullNone {
		return fmt.Errorf("gpio: pin %s: pull unsupported", p.name)
	}
	return checkConfig(p.name, GPIOCapInput, mode, pull)
}

func (p *signalPin) Read() (bool, error) {
	elapsed := p.now().Sub(p.t0)
	if elapsed < 0 {
		elapsed = -elapsed
	}
	return elapsed%p.period < p.high, nil
}

func (p *signalPin) Write(bool) error {
	return fmt.Errorf("gpio: pin %s: output unsupported", p.name)
}

// newLEDPin exposes led as an output pin.
func newLEDPin(name string, led LED) GPIOPin {
	if led == nil {
		return nil
	}
	p := newVirtualPin(name, GPIOCapOutput)
	p.mode = GPIOModeOutput
	p.changed = func(level bool) {
		if level {
			led.High()
		} else {
			led.Low()
		}
	}
	return p
}
