package lcdui

import (
	"image"
	"image/png"
	"io"
)

// AsImage returns the pixels as an image.Image with non-premultiplied
// alpha. Immutable images return a read-only view; mutable images return a
// snapshot of their current content.
func (i *Image) AsImage() image.Image {
	return i.pixels()
}

// Write encodes the image as PNG.
func (i *Image) Write(w io.Writer) error {
	return png.Encode(w, i.pixels().ToNRGBA())
}
