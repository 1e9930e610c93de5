//go:build !tinygo && cgo

package hal

import (
	"context"
	"errors"
	"image"
	"os"

	"ember/internal/buildinfo"

	"github.com/hajimehoshi/ebiten/v2"
)

// RunWindow starts a desktop window that displays the framebuffer and drives
// the simulated inputs from the keyboard. It blocks until the window closes,
// ctx is done or the application stops.
func RunWindow(ctx context.Context, newApp NewApp) error {
	h := newHost(os.Stdout)
	step, err := newApp(ctx, h)
	if err != nil {
		return err
	}

	g := &hostGame{ctx: ctx, h: h, step: step}
	ebiten.SetWindowTitle("Ember (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(h.fb.width*2, h.fb.height*2)
	ebiten.SetTPS(60)
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return ctx.Err()
}

type hostGame struct {
	ctx     context.Context
	h       *hostHAL
	img     *image.RGBA
	fbImg   *ebiten.Image
	scratch []byte
	step    func() error
}

func (g *hostGame) Update() error {
	if g.ctx.Err() != nil {
		return ebiten.Termination
	}
	g.h.kbd.poll()
	g.h.t.step()
	if g.step == nil {
		return nil
	}
	if err := g.step(); err != nil {
		if errors.Is(err, ErrStopped) {
			return ebiten.Termination
		}
		return err
	}
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	fb := g.h.fb
	if g.img == nil {
		g.img = image.NewRGBA(image.Rect(0, 0, fb.width, fb.height))
		g.scratch = make([]byte, len(fb.buf))
		g.fbImg = ebiten.NewImage(fb.width, fb.height)
	}
	fb.snapshotRGB565(g.scratch)
	expandRGB565(g.img.Pix, g.scratch)
	g.fbImg.WritePixels(g.img.Pix)
	screen.DrawImage(g.fbImg, nil)
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.h.fb.width, g.h.fb.height
}
