package hal

import (
	"image/color"

	"tinygo.org/x/drivers"
)

// FramebufferDisplay draws into a rectangular window of an RGB565
// framebuffer. It satisfies drivers.Displayer and the terminal display
// contract (fill, scroll, rotation), so fonts and consoles can share one
// framebuffer.
type FramebufferDisplay struct {
	fb         Framebuffer
	x0, y0     int
	w, h       int
	rotation   drivers.Rotation
	autoCommit bool
}

// NewFramebufferDisplay returns a display over the given window of fb,
// clipped to the framebuffer bounds.
func NewFramebufferDisplay(fb Framebuffer, x, y, w, h int) *FramebufferDisplay {
	d := &FramebufferDisplay{fb: fb, x0: x, y0: y}
	if fb == nil || fb.Format() != PixelFormatRGB565 {
		return d
	}
	d.w = min(max(w, 0), max(fb.Width()-x, 0))
	d.h = min(max(h, 0), max(fb.Height()-y, 0))
	return d
}

// SetAutoCommit makes Display present the framebuffer.
func (d *FramebufferDisplay) SetAutoCommit(on bool) { d.autoCommit = on }

func (d *FramebufferDisplay) Size() (x, y int16) { return int16(d.w), int16(d.h) }

func (d *FramebufferDisplay) offset(x, y int) (int, bool) {
	if x < 0 || y < 0 || x >= d.w || y >= d.h {
		return 0, false
	}
	off := (d.y0+y)*d.fb.StrideBytes() + (d.x0+x)*2
	if off+1 >= len(d.fb.Buffer()) {
		return 0, false
	}
	return off, true
}

func (d *FramebufferDisplay) SetPixel(x, y int16, c color.RGBA) {
	off, ok := d.offset(int(x), int(y))
	if !ok {
		return
	}
	buf := d.fb.Buffer()
	px := rgb565(c.R, c.G, c.B)
	buf[off] = byte(px)
	buf[off+1] = byte(px >> 8)
}

func (d *FramebufferDisplay) FillRectangle(x, y, width, height int16, c color.RGBA) error {
	if d.w == 0 || d.h == 0 {
		return ErrNotImplemented
	}
	x1 := min(int(x)+int(width), d.w)
	y1 := min(int(y)+int(height), d.h)
	buf := d.fb.Buffer()
	px := rgb565(c.R, c.G, c.B)
	for yy := max(int(y), 0); yy < y1; yy++ {
		for xx := max(int(x), 0); xx < x1; xx++ {
			if off, ok := d.offset(xx, yy); ok {
				buf[off] = byte(px)
				buf[off+1] = byte(px >> 8)
			}
		}
	}
	return nil
}

// ScrollUp moves the window contents up and fills the freed rows with bg.
func (d *FramebufferDisplay) ScrollUp(pixels int16, bg color.RGBA) error {
	n := int(pixels)
	if n <= 0 {
		return nil
	}
	if n >= d.h {
		return d.FillRectangle(0, 0, int16(d.w), int16(d.h), bg)
	}
	buf := d.fb.Buffer()
	stride := d.fb.StrideBytes()
	row := d.w * 2
	for y := 0; y < d.h-n; y++ {
		dst := (d.y0+y)*stride + d.x0*2
		src := (d.y0+y+n)*stride + d.x0*2
		copy(buf[dst:dst+row], buf[src:src+row])
	}
	return d.FillRectangle(0, int16(d.h-n), int16(d.w), int16(n), bg)
}

// SetScroll is a no-op: the framebuffer has no hardware scroll.
func (d *FramebufferDisplay) SetScroll(line int16) {}

func (d *FramebufferDisplay) SetRotation(rotation drivers.Rotation) error {
	if rotation != drivers.Rotation0 {
		return ErrNotImplemented
	}
	d.rotation = rotation
	return nil
}

func (d *FramebufferDisplay) Display() error {
	if d.fb == nil || !d.autoCommit {
		return nil
	}
	return d.fb.Present()
}
