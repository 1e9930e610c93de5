//go:build tinygo && baremetal

package hal

import (
	"fmt"
	"machine"
)

type uartLogger struct {
	uart *machine.UART
}

func (l *uartLogger) WriteLineString(s string) {
	for i := 0; i < len(s); i++ {
		l.uart.WriteByte(s[i])
	}
	l.uart.WriteByte('\r')
	l.uart.WriteByte('\n')
}

func (l *uartLogger) WriteLineBytes(b []byte) {
	for _, c := range b {
		if c == '\n' {
			break
		}
		l.uart.WriteByte(c)
	}
	l.uart.WriteByte('\r')
	l.uart.WriteByte('\n')
}

type pinLED struct {
	pin machine.Pin
}

func (l *pinLED) High() { l.pin.High() }
func (l *pinLED) Low()  { l.pin.Low() }

// machinePin is a board pin.
type machinePin struct {
	name string
	pin  machine.Pin
	mode GPIOMode
}

func (p *machinePin) Name() string { return p.name }
func (p *machinePin) Caps() GPIOCaps {
	return GPIOCapInput | GPIOCapOutput | GPIOCapPullUp | GPIOCapPullDown
}

func (p *machinePin) Configure(mode GPIOMode, pull GPIOPull) error {
	if err := checkConfig(p.name, p.Caps(), mode, pull); err != nil {
		return err
	}
	cfg := machine.PinConfig{Mode: machine.PinInput}
	switch {
	case mode == GPIOModeOutput:
		if pull != GPIOPullNone {
			return fmt.Errorf("gpio: pin %s: pull on output", p.name)
		}
		cfg.Mode = machine.PinOutput
	case pull == GPIOPullUp:
		cfg.Mode = machine.PinInputPullup
	case pull == GPIOPullDown:
		cfg.Mode = machine.PinInputPulldown
	}
	p.pin.Configure(cfg)
	p.mode = mode
	return nil
}

func (p *machinePin) Read() (bool, error) { return p.pin.Get(), nil }

func (p *machinePin) Write(level bool) error {
	if p.mode != GPIOModeOutput {
		return fmt.Errorf("gpio: pin %s: not in output mode", p.name)
	}
	p.pin.Set(level)
	return nil
}
