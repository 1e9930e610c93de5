package app

import (
	"fmt"
	"image/color"

	"ember/hal"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
	"tinygo.org/x/tinyterm"
)

const (
	fontHeight = 10
	fontOffset = 8
	// statusRows is the height of the status panel in text rows; the
	// console takes the rest of the screen.
	statusRows = 16
)

var (
	font = &proggy.TinySZ8pt7b

	colorBG     = color.RGBA{R: 16, G: 20, B: 28, A: 255}
	colorText   = color.RGBA{R: 220, G: 224, B: 230, A: 255}
	colorAccent = color.RGBA{R: 120, G: 200, B: 120, A: 255}
	colorAlert  = color.RGBA{R: 230, G: 80, B: 60, A: 255}
)

// screen splits the framebuffer into a status panel and a scrolling
// console. A nil screen draws nothing.
type screen struct {
	fb        hal.Framebuffer
	panel     *hal.FramebufferDisplay
	console   *tinyterm.Terminal
	fontWidth int16
	cols      int
	alert     []string
	presentOK bool
}

func newScreen(fb hal.Framebuffer, console bool) *screen {
	if fb == nil || fb.Format() != hal.PixelFormatRGB565 || fb.Width() <= 0 {
		return nil
	}
	_, w := tinyfont.LineWidth(font, "0")
	if w == 0 {
		return nil
	}
	sc := &screen{fb: fb, fontWidth: int16(w), presentOK: true}
	sc.cols = fb.Width() / int(w)

	panelH := statusRows * fontHeight
	if !console {
		panelH = fb.Height()
	}
	sc.panel = hal.NewFramebufferDisplay(fb, 0, 0, fb.Width(), panelH)
	fb.ClearRGB(colorBG.R, colorBG.G, colorBG.B)

	if console && fb.Height() > panelH+fontHeight {
		d := hal.NewFramebufferDisplay(fb, 0, panelH, fb.Width(), fb.Height()-panelH)
		sc.console = tinyterm.NewTerminal(d)
		sc.console.Configure(&tinyterm.Config{
			Font:              font,
			FontHeight:        fontHeight,
			FontOffset:        fontOffset,
			UseSoftwareScroll: true,
		})
	}
	return sc
}

func (sc *screen) printf(format string, args ...any) {
	if sc == nil || sc.console == nil {
		return
	}
	fmt.Fprintf(sc.console, format, args...)
}

// setAlert pins lines to the bottom of the status panel.
func (sc *screen) setAlert(lines []string) {
	if sc == nil {
		return
	}
	sc.alert = lines
}

// draw repaints the status panel with lines, the first as a heading, and
// presents the framebuffer. It reports a present failure once.
func (sc *screen) draw(lines []string) error {
	if sc == nil {
		return nil
	}
	w, h := sc.panel.Size()
	_ = sc.panel.FillRectangle(0, 0, w, h, colorBG)

	rows := int(h) / fontHeight
	alert := sc.alert[:min(len(sc.alert), rows)]
	y := int16(0)
	for i, line := range lines {
		if i >= rows-len(alert) {
			break
		}
		c := colorText
		if i == 0 {
			c = colorAccent
		}
		tinyfont.WriteLine(sc.panel, font, 0, y+fontOffset, fitText(line, sc.cols), c)
		y += fontHeight
	}
	y = int16((rows - len(alert)) * fontHeight)
	for _, line := range alert {
		tinyfont.WriteLine(sc.panel, font, 0, y+fontOffset, fitText(line, sc.cols), colorAlert)
		y += fontHeight
	}

	err := sc.fb.Present()
	if err != nil && sc.presentOK {
		sc.presentOK = false
		return err
	}
	return nil
}

func fitText(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(s) <= max {
		return s
	}
	return s[:max]
}
