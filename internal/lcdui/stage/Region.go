// Package stage holds lcdui pipeline stages. Every stage returns a new
// immutable image and leaves its input untouched.
package stage

import (
	"github.com/geekboywoot/umjammer/internal/lcdui"
	"github.com/geekboywoot/umjammer/internal/transform"
)

// RegionStage crops the W×H region at (X, Y) and applies Transform to it.
type RegionStage struct {
	X, Y, W, H int
	Transform  transform.Code
}

func (s *RegionStage) Process(img *lcdui.Image) (*lcdui.Image, error) {
	return lcdui.CreateFromRegion(img, s.X, s.Y, s.W, s.H, s.Transform)
}

// TransformStage applies Transform to the whole image.
type TransformStage struct {
	Transform transform.Code
}

func (s *TransformStage) Process(img *lcdui.Image) (*lcdui.Image, error) {
	return lcdui.CreateFromRegion(img, 0, 0, img.Width(), img.Height(), s.Transform)
}
