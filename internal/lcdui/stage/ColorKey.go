package stage

import (
	"image"
	"image/color"
	"math"

	"github.com/geekboywoot/umjammer/internal/imgerr"
	"github.com/geekboywoot/umjammer/internal/lcdui"
)

type ColorKeyStage struct {
	Tolerance float64
	Color     color.Color
}

// Process makes pixels close to Color transparent based on their distance to it.
// Tolerance defines how close a pixel must be to the key color to be affected.
// A pixel exactly matching the key becomes fully transparent, one at the edge of the tolerance remains opaque
func (s *ColorKeyStage) Process(img *lcdui.Image) (*lcdui.Image, error) {
	if s.Color == nil {
		return nil, imgerr.InvalidArgument("color key is nil")
	}
	src := img.AsImage()
	bounds := src.Bounds()
	out := image.NewNRGBA(bounds)
	keyR, keyG, keyB, _ := s.Color.RGBA()
	kR, kG, kB := float64(keyR>>8), float64(keyG>>8), float64(keyB>>8)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
			R, G, B := float64(c.R), float64(c.G), float64(c.B)
			dist := math.Sqrt((kR-R)*(kR-R) + (kG-G)*(kG-G) + (kB-B)*(kB-B))
			if dist < s.Tolerance {
				c.A = uint8((dist / s.Tolerance) * float64(c.A))
			}
			out.SetNRGBA(x, y, c)
		}
	}
	return lcdui.CreateFromImage(out)
}
