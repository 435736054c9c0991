package stage

import (
	"image"

	"github.com/geekboywoot/umjammer/internal/imgerr"
	"github.com/geekboywoot/umjammer/internal/lcdui"
	"golang.org/x/image/draw"
)

// ResampleStage scales the image to Width×Height with Catmull-Rom
// resampling. A zero Width or Height keeps that dimension, so the zero value
// only smooths the image.
type ResampleStage struct {
	Width, Height int
}

func (s *ResampleStage) Process(img *lcdui.Image) (*lcdui.Image, error) {
	if s.Width < 0 || s.Height < 0 {
		return nil, imgerr.InvalidArgument("resample size %dx%d is negative", s.Width, s.Height)
	}
	w, h := img.Width(), img.Height()
	if s.Width > 0 {
		w = s.Width
	}
	if s.Height > 0 {
		h = s.Height
	}

	src := img.AsImage()
	scaled := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), src, src.Bounds(), draw.Over, nil)
	return lcdui.CreateFromImage(scaled)
}
