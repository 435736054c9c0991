package stage

import (
	"github.com/anthonynsimon/bild/blur"
	"github.com/geekboywoot/umjammer/internal/lcdui"
)

type GaussianBlurStage struct {
	Sigma float64
}

// Process applies a Gaussian blur to the image using the specified Sigma value
// Higher Sigma values result in a more pronounced blur effect
func (s *GaussianBlurStage) Process(img *lcdui.Image) (*lcdui.Image, error) {
	return lcdui.CreateFromImage(blur.Gaussian(img.AsImage(), s.Sigma))
}
