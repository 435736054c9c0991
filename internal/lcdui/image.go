// Package lcdui provides the MIDP-style Image model: mutable images that are
// drawn on through a Graphics surface, and immutable images created from PNG
// data, raw ARGB arrays, other images or transformed regions of them.
//
// Immutable images never change after construction, so they are shared
// freely between goroutines and may alias one another's pixel storage.
// Mutable images serialize drawing and reads through a per-image lock.
package lcdui

import (
	"sync"

	"github.com/geekboywoot/umjammer/internal/imgerr"
	"github.com/geekboywoot/umjammer/internal/logging"
	"github.com/geekboywoot/umjammer/internal/pixel"
	"github.com/geekboywoot/umjammer/internal/transform"
)

type kind uint8

const (
	immutable kind = iota
	mutable
)

// Image is either mutable or immutable; the variant is fixed at creation.
type Image struct {
	kind   kind
	width  int
	height int

	// mu serializes access to buf for mutable images. Immutable images hold
	// a frozen buffer and never take it.
	mu  sync.Mutex
	buf *pixel.Buffer
}

func newImmutable(buf *pixel.Buffer) *Image {
	buf.Freeze()
	return &Image{kind: immutable, width: buf.Width(), height: buf.Height(), buf: buf}
}

// CreateMutable returns a width×height image whose pixels are all opaque
// white.
func CreateMutable(width, height int) (*Image, error) {
	if width <= 0 || height <= 0 {
		return nil, imgerr.InvalidArgument("dimensions %dx%d must be positive", width, height)
	}
	buf, err := pixel.NewFilled(width, height, pixel.OpaqueWhite)
	if err != nil {
		return nil, err
	}
	return &Image{kind: mutable, width: width, height: height, buf: buf}, nil
}

// CreateImmutableFrom returns an immutable image with the current content of
// src. An immutable src is returned as is; a mutable src is deep-copied, so
// later drawing on it is not reflected in the result.
func CreateImmutableFrom(src *Image) (*Image, error) {
	if src == nil {
		return nil, imgerr.InvalidArgument("source image is nil")
	}
	if src.kind == immutable {
		return src, nil
	}
	src.mu.Lock()
	defer src.mu.Unlock()
	return newImmutable(src.buf.Clone()), nil
}

// CreateFromRGBArray builds an immutable image from 0xAARRGGBB values in
// row-major order. Only the first width*height values are used. When
// processAlpha is false every pixel is made fully opaque; otherwise alpha is
// mapped through the current AlphaPolicy.
func CreateFromRGBArray(argb []uint32, width, height int, processAlpha bool) (*Image, error) {
	if width <= 0 || height <= 0 {
		return nil, imgerr.InvalidArgument("dimensions %dx%d must be positive", width, height)
	}
	if int64(width)*int64(height) > int64(len(argb)) {
		return nil, imgerr.Range("%d values supplied for a %dx%d image", len(argb), width, height)
	}
	buf, err := pixel.FromARGB(argb, width, height)
	if err != nil {
		return nil, err
	}
	if processAlpha {
		AlphaPolicy().ApplyBuffer(buf)
	} else {
		buf.ForceOpaque()
	}
	return newImmutable(buf), nil
}

// CreateFromRegion returns an immutable image holding the w×h region of src
// at (x, y), transformed by t. For transform.None over the whole of an
// immutable src, src itself is returned.
func CreateFromRegion(src *Image, x, y, w, h int, t transform.Code) (*Image, error) {
	if src == nil {
		return nil, imgerr.InvalidArgument("source image is nil")
	}

	if src.kind == mutable {
		src.mu.Lock()
		defer src.mu.Unlock()
	}

	out, err := transform.Apply(src.buf, x, y, w, h, t)
	if err != nil {
		return nil, err
	}
	if out == src.buf {
		logging.Logger().Debug("lcdui: region shares source image", "width", w, "height", h)
		return src, nil
	}
	return newImmutable(out), nil
}

// Width returns the image width in pixels.
func (i *Image) Width() int { return i.width }

// Height returns the image height in pixels.
func (i *Image) Height() int { return i.height }

// IsMutable reports whether the image was created by CreateMutable.
func (i *Image) IsMutable() bool { return i.kind == mutable }

// ReadRegion copies the ARGB pixels of the w×h region at (x, y) into dst so
// that dst[offset + (a-x) + (b-y)*scanlength] = P(a, b). A negative
// scanlength stores rows bottom-up.
//
// The region must lie within the image and |scanlength| must be at least w,
// otherwise ErrInvalidArgument is returned. A non-positive w or h copies
// nothing. Destination indices outside dst give ErrRange and leave dst
// untouched.
func (i *Image) ReadRegion(dst []uint32, offset, scanlength, x, y, w, h int) error {
	if err := i.CheckRegion(x, y, w, h); err != nil {
		return err
	}
	if w <= 0 || h <= 0 {
		return nil
	}
	if abs(scanlength) < w {
		return imgerr.InvalidArgument("|scanlength| %d is less than width %d", scanlength, w)
	}
	if !destInRange(len(dst), offset, scanlength, w, h) {
		return imgerr.Range("%d rows of %d at offset %d, scanlength %d outside array of length %d",
			h, w, offset, scanlength, len(dst))
	}

	if i.kind == mutable {
		i.mu.Lock()
		defer i.mu.Unlock()
	}
	pix := i.buf.Pix()
	for row := 0; row < h; row++ {
		src := (y+row)*i.width + x
		at := offset + row*scanlength
		copy(dst[at:at+w], pix[src:src+w])
	}
	return nil
}

// CheckRegion reports ErrInvalidArgument unless the region at (x, y) lies
// within the image. A non-positive w or h passes whenever x and y do.
func (i *Image) CheckRegion(x, y, w, h int) error {
	if x < 0 || y < 0 || w > i.width-x || h > i.height-y {
		return imgerr.InvalidArgument("region (%d,%d %dx%d) exceeds %dx%d", x, y, w, h, i.width, i.height)
	}
	return nil
}

// destInRange reports whether h rows of w values, starting at offset and
// scanlength apart, fit in an array of length n. w and h are positive and
// |scanlength| >= w.
func destInRange(n, offset, scanlength, w, h int) bool {
	if offset < 0 || offset > n-w {
		return false
	}
	if scanlength > 0 {
		return h-1 <= (n-w-offset)/scanlength
	}
	return h-1 <= offset/-scanlength
}

// pixels returns a buffer that can be read without holding the lock: the
// frozen buffer itself, or a copy for mutable images.
func (i *Image) pixels() *pixel.Buffer {
	if i.kind == immutable {
		return i.buf
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.buf.Clone()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
