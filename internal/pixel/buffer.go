// Package pixel implements the ARGB8888 pixel store that backs every image.
package pixel

import (
	"image"
	"image/color"

	"github.com/geekboywoot/umjammer/internal/imgerr"
)

const (
	// OpaqueWhite is the initial content of a mutable image.
	OpaqueWhite uint32 = 0xFFFFFFFF

	alphaMask uint32 = 0xFF000000
)

// Buffer is a row-major ARGB8888 pixel store. len(pix) == width*height holds
// for the lifetime of the buffer.
type Buffer struct {
	width  int
	height int
	pix    []uint32
	frozen bool
}

// New allocates a fully transparent width×height buffer.
func New(width, height int) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, imgerr.InvalidArgument("dimensions %dx%d must be positive", width, height)
	}
	n := int64(width) * int64(height)
	if n != int64(int(n)) {
		return nil, imgerr.InvalidArgument("dimensions %dx%d overflow", width, height)
	}
	return &Buffer{width: width, height: height, pix: make([]uint32, n)}, nil
}

// NewFilled allocates a buffer with every pixel set to argb.
func NewFilled(width, height int, argb uint32) (*Buffer, error) {
	b, err := New(width, height)
	if err != nil {
		return nil, err
	}
	for i := range b.pix {
		b.pix[i] = argb
	}
	return b, nil
}

// FromARGB copies the first width*height values of pix into a new buffer.
func FromARGB(pix []uint32, width, height int) (*Buffer, error) {
	b, err := New(width, height)
	if err != nil {
		return nil, err
	}
	if len(pix) < len(b.pix) {
		return nil, imgerr.Range("%d pixels supplied for a %dx%d buffer", len(pix), width, height)
	}
	copy(b.pix, pix)
	return b, nil
}

// FromImage converts any image.Image into a buffer with non-premultiplied
// alpha. The result origin is the image's Bounds().Min.
func FromImage(img image.Image) (*Buffer, error) {
	bounds := img.Bounds()
	b, err := New(bounds.Dx(), bounds.Dy())
	if err != nil {
		return nil, err
	}

	if src, ok := img.(*Buffer); ok {
		copy(b.pix, src.pix)
		return b, nil
	}

	for y := 0; y < b.height; y++ {
		row := b.pix[y*b.width : (y+1)*b.width]
		for x := range row {
			c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			row[x] = Pack(c.A, c.R, c.G, c.B)
		}
	}
	return b, nil
}

// Width returns the number of columns.
func (b *Buffer) Width() int { return b.width }

// Height returns the number of rows.
func (b *Buffer) Height() int { return b.height }

// Len returns width*height.
func (b *Buffer) Len() int { return len(b.pix) }

// Pix exposes the backing samples. Callers must not write to the slice of a
// frozen buffer.
func (b *Buffer) Pix() []uint32 { return b.pix }

// Freeze marks the buffer immutable. It cannot be undone.
func (b *Buffer) Freeze() { b.frozen = true }

// Frozen reports whether Freeze has been called.
func (b *Buffer) Frozen() bool { return b.frozen }

func (b *Buffer) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < b.width && y < b.height
}

// Get returns the ARGB value at (x, y).
func (b *Buffer) Get(x, y int) (uint32, error) {
	if !b.inBounds(x, y) {
		return 0, imgerr.Range("pixel (%d,%d) outside %dx%d", x, y, b.width, b.height)
	}
	return b.pix[y*b.width+x], nil
}

// Set stores argb at (x, y).
func (b *Buffer) Set(x, y int, argb uint32) error {
	if b.frozen {
		return imgerr.IllegalState("buffer is immutable")
	}
	if !b.inBounds(x, y) {
		return imgerr.Range("pixel (%d,%d) outside %dx%d", x, y, b.width, b.height)
	}
	b.pix[y*b.width+x] = argb
	return nil
}

// CopyRegion returns a new, unfrozen buffer holding the w×h region at (x, y).
// The result never shares storage with b.
func (b *Buffer) CopyRegion(x, y, w, h int) (*Buffer, error) {
	if w <= 0 || h <= 0 {
		return nil, imgerr.InvalidArgument("region size %dx%d must be positive", w, h)
	}
	if x < 0 || y < 0 || x > b.width-w || y > b.height-h {
		return nil, imgerr.Range("region (%d,%d %dx%d) outside %dx%d", x, y, w, h, b.width, b.height)
	}
	out := &Buffer{width: w, height: h, pix: make([]uint32, w*h)}
	for row := 0; row < h; row++ {
		src := (y+row)*b.width + x
		copy(out.pix[row*w:(row+1)*w], b.pix[src:src+w])
	}
	return out, nil
}

// Clone returns an unfrozen deep copy.
func (b *Buffer) Clone() *Buffer {
	out := &Buffer{width: b.width, height: b.height, pix: make([]uint32, len(b.pix))}
	copy(out.pix, b.pix)
	return out
}

// ForceOpaque sets every alpha byte to 0xFF.
func (b *Buffer) ForceOpaque() {
	for i, v := range b.pix {
		b.pix[i] = v | alphaMask
	}
}

// ColorModel implements image.Image.
func (b *Buffer) ColorModel() color.Model { return color.NRGBAModel }

// Bounds implements image.Image.
func (b *Buffer) Bounds() image.Rectangle { return image.Rect(0, 0, b.width, b.height) }

// At implements image.Image.
func (b *Buffer) At(x, y int) color.Color {
	if !b.inBounds(x, y) {
		return color.NRGBA{}
	}
	a, r, g, bl := Unpack(b.pix[y*b.width+x])
	return color.NRGBA{R: r, G: g, B: bl, A: a}
}

// ToNRGBA copies the buffer into a new *image.NRGBA.
func (b *Buffer) ToNRGBA() *image.NRGBA {
	img := image.NewNRGBA(b.Bounds())
	for i, v := range b.pix {
		a, r, g, bl := Unpack(v)
		img.Pix[i*4+0] = r
		img.Pix[i*4+1] = g
		img.Pix[i*4+2] = bl
		img.Pix[i*4+3] = a
	}
	return img
}

// Pack builds a 0xAARRGGBB value.
func Pack(a, r, g, b uint8) uint32 {
	return uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

// Unpack splits a 0xAARRGGBB value.
func Unpack(argb uint32) (a, r, g, b uint8) {
	return uint8(argb >> 24), uint8(argb >> 16), uint8(argb >> 8), uint8(argb)
}

// Alpha returns the alpha byte of argb.
func Alpha(argb uint32) uint8 { return uint8(argb >> 24) }

// WithAlpha replaces the alpha byte of argb.
func WithAlpha(argb uint32, a uint8) uint32 {
	return argb&^alphaMask | uint32(a)<<24
}
