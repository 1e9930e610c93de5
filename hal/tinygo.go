//go:build tinygo && baremetal

package hal

import (
	"machine"

	"tinygo.org/x/drivers"
)

type tinyGoHAL struct {
	logger *uartLogger
	led    *pinLED
	gpio   GPIO
	fb     Framebuffer
	kbd    Keyboard
	t      *tinyGoTime
	bus    drivers.I2C
}

// Button pins on the Pico 2 board, active low.
var buttonPins = []machine.Pin{machine.GP10, machine.GP11, machine.GP12, machine.GP13}

// New returns a Pico 2 (RP2350) HAL implementation.
//
// UART: UART0 on GP0 (TX) / GP1 (RX), 115200 8N1.
// I2C: I2C0 on GP4 (SDA) / GP5 (SCL), 400 kHz, input expander at ExpanderAddr.
func New() HAL {
	uart := machine.UART0
	uart.Configure(machine.UARTConfig{
		BaudRate: 115200,
		TX:       machine.GP0,
		RX:       machine.GP1,
	})
	logger := &uartLogger{uart: uart}

	ledPin := machine.LED
	ledPin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	led := &pinLED{pin: ledPin}

	pins := []GPIOPin{newLEDPin(PinLED, led)}
	for i, p := range buttonPins[:Buttons] {
		pin := &machinePin{name: "BTN" + string(rune('1'+i)), pin: p}
		if err := pin.Configure(GPIOModeInput, GPIOPullUp); err != nil {
			logger.WriteLineString(err.Error())
			continue
		}
		pins = append(pins, pin)
	}

	var bus drivers.I2C
	if err := machine.I2C0.Configure(machine.I2CConfig{
		SDA:       machine.GP4,
		SCL:       machine.GP5,
		Frequency: 400_000,
	}); err == nil {
		bus = machine.I2C0
	} else {
		logger.WriteLineString("i2c: " + err.Error())
	}

	return &tinyGoHAL{
		logger: logger,
		led:    led,
		gpio:   newPinBank(pins...),
		fb:     &stubFramebuffer{w: 320, h: 320, format: PixelFormatRGB565},
		kbd:    &stubKeyboard{},
		t:      newTinyGoTime(),
		bus:    bus,
	}
}

func (h *tinyGoHAL) Logger() Logger   { return h.logger }
func (h *tinyGoHAL) LED() LED         { return h.led }
func (h *tinyGoHAL) GPIO() GPIO       { return h.gpio }
func (h *tinyGoHAL) Display() Display { return tinyGoDisplay{fb: h.fb} }
func (h *tinyGoHAL) Input() Input     { return tinyGoInput{kbd: h.kbd} }
func (h *tinyGoHAL) Time() Time       { return h.t }
func (h *tinyGoHAL) IRQ() IRQ         { return tinyGoIRQ{} }
func (h *tinyGoHAL) I2C() drivers.I2C { return h.bus }
