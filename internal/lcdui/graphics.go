package lcdui

import (
	"github.com/geekboywoot/umjammer/internal/imgerr"
	"github.com/geekboywoot/umjammer/internal/pixel"
)

// Graphics draws on a mutable image. Every pixel it writes is fully opaque.
type Graphics struct {
	img   *Image
	color uint32
}

// Graphics returns a new drawing surface bound to i. Immutable images give
// ErrIllegalState.
func (i *Image) Graphics() (*Graphics, error) {
	if i.kind != mutable {
		return nil, imgerr.IllegalState("immutable image has no graphics")
	}
	return &Graphics{img: i, color: 0xFF000000}, nil
}

// SetColor sets the drawing color from a 0xRRGGBB value; the high byte is
// ignored.
func (g *Graphics) SetColor(rgb uint32) {
	g.color = rgb | 0xFF000000
}

// Color returns the drawing color as 0xRRGGBB.
func (g *Graphics) Color() uint32 {
	return g.color & 0x00FFFFFF
}

// FillRect fills the w×h rectangle at (x, y), clipped to the image.
func (g *Graphics) FillRect(x, y, w, h int) {
	x0, y0 := max(x, 0), max(y, 0)
	x1, y1 := min(x+w, g.img.width), min(y+h, g.img.height)
	if x0 >= x1 || y0 >= y1 {
		return
	}

	g.img.mu.Lock()
	defer g.img.mu.Unlock()
	pix := g.img.buf.Pix()
	for row := y0; row < y1; row++ {
		line := pix[row*g.img.width+x0 : row*g.img.width+x1]
		for i := range line {
			line[i] = g.color
		}
	}
}

// DrawImage composites src with its top-left corner at (x, y) using
// source-over blending, clipped to the image.
func (g *Graphics) DrawImage(src *Image, x, y int) error {
	if src == nil {
		return imgerr.InvalidArgument("source image is nil")
	}
	// Taken before locking the target so that drawing an image onto itself
	// does not deadlock.
	in := src.pixels()

	x0, y0 := max(x, 0), max(y, 0)
	x1, y1 := min(x+in.Width(), g.img.width), min(y+in.Height(), g.img.height)
	if x0 >= x1 || y0 >= y1 {
		return nil
	}

	g.img.mu.Lock()
	defer g.img.mu.Unlock()
	dst := g.img.buf.Pix()
	srcPix := in.Pix()
	for row := y0; row < y1; row++ {
		for col := x0; col < x1; col++ {
			s := srcPix[(row-y)*in.Width()+(col-x)]
			d := &dst[row*g.img.width+col]
			*d = over(s, *d)
		}
	}
	return nil
}

// over blends s onto the opaque pixel d.
func over(s, d uint32) uint32 {
	sa, sr, sg, sb := pixel.Unpack(s)
	switch sa {
	case 0xFF:
		return s
	case 0:
		return d
	}
	_, dr, dg, db := pixel.Unpack(d)
	mix := func(sc, dc uint8) uint8 {
		return uint8((uint32(sc)*uint32(sa) + uint32(dc)*(0xFF-uint32(sa)) + 0x7F) / 0xFF)
	}
	return pixel.Pack(0xFF, mix(sr, dr), mix(sg, dg), mix(sb, db))
}
