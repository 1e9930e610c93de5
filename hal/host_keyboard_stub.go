//go:build !tinygo && !cgo

package hal

type hostKeyboard struct {
	ch    chan KeyEvent
	binds []keyBinding
}

func newHostKeyboard(binds []keyBinding) *hostKeyboard {
	return &hostKeyboard{ch: make(chan KeyEvent, 64), binds: binds}
}

func (k *hostKeyboard) Events() <-chan KeyEvent { return k.ch }

func (k *hostKeyboard) poll() {
	// No keyboard support without the window backend.
}
