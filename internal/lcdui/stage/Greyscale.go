package stage

import (
	"github.com/geekboywoot/umjammer/internal/lcdui"
	"github.com/geekboywoot/umjammer/internal/pixel"
)

type GreyscaleStage struct{}

// Process resamples the image the way a greyscale display shows it: each
// pixel becomes its luma, alpha is kept as is.
func (s *GreyscaleStage) Process(img *lcdui.Image) (*lcdui.Image, error) {
	w, h := img.Width(), img.Height()
	argb := make([]uint32, w*h)
	if err := img.ReadRegion(argb, 0, w, 0, 0, w, h); err != nil {
		return nil, err
	}
	for i, v := range argb {
		a, r, g, b := pixel.Unpack(v)
		// Reference: https://en.wikipedia.org/wiki/Grayscale#Luma_coding_in_video_systems
		lum := uint8((299*uint32(r) + 587*uint32(g) + 114*uint32(b) + 500) / 1000)
		argb[i] = pixel.Pack(a, lum, lum, lum)
	}
	return lcdui.CreateFromRGBArray(argb, w, h, true)
}
