package stage

import (
	"github.com/geekboywoot/umjammer/internal/alpha"
	"github.com/geekboywoot/umjammer/internal/lcdui"
)

// AlphaStage re-quantizes alpha for a display with the given Policy, for
// example to preview an image on a handset without blending.
type AlphaStage struct {
	Policy alpha.Policy
}

func (s *AlphaStage) Process(img *lcdui.Image) (*lcdui.Image, error) {
	w, h := img.Width(), img.Height()
	argb := make([]uint32, w*h)
	if err := img.ReadRegion(argb, 0, w, 0, 0, w, h); err != nil {
		return nil, err
	}
	for i, v := range argb {
		argb[i] = s.Policy.ApplyARGB(v)
	}
	return lcdui.CreateFromRGBArray(argb, w, h, true)
}
