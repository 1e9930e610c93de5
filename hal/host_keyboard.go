//go:build !tinygo && cgo

package hal

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type hostKeyboard struct {
	ch    chan KeyEvent
	binds []keyBinding
}

func newHostKeyboard(binds []keyBinding) *hostKeyboard {
	return &hostKeyboard{ch: make(chan KeyEvent, 64), binds: binds}
}

func (k *hostKeyboard) Events() <-chan KeyEvent { return k.ch }

var ebitenKeys = map[KeyCode]ebiten.Key{
	KeyEnter:  ebiten.KeyEnter,
	KeyEscape: ebiten.KeyEscape,
	KeySpace:  ebiten.KeySpace,
}

// poll samples the keyboard once per frame. Bound keys drive their pins for
// as long as they are held.
func (k *hostKeyboard) poll() {
	for _, b := range k.binds {
		if key, ok := ebitenKeyFor(b.key); ok {
			b.pin.Drive(ebiten.IsKeyPressed(key))
		}
	}

	for code, key := range ebitenKeys {
		if inpututil.IsKeyJustPressed(key) {
			k.emit(KeyEvent{Code: code, Press: true})
		}
		if inpututil.IsKeyJustReleased(key) {
			k.emit(KeyEvent{Code: code, Press: false})
		}
	}
}

func (k *hostKeyboard) emit(ev KeyEvent) {
	select {
	case k.ch <- ev:
	default:
	}
}

var boundKeys = map[rune]ebiten.Key{
	'1': ebiten.KeyDigit1, '2': ebiten.KeyDigit2, '3': ebiten.KeyDigit3, '4': ebiten.KeyDigit4,
	'a': ebiten.KeyA, 'b': ebiten.KeyB, 'c': ebiten.KeyC, 'd': ebiten.KeyD,
	'e': ebiten.KeyE, 'f': ebiten.KeyF, 'g': ebiten.KeyG, 'h': ebiten.KeyH,
}

func ebitenKeyFor(r rune) (ebiten.Key, bool) {
	key, ok := boundKeys[r]
	return key, ok
}
