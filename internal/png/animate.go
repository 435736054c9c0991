package png

import (
	"bytes"
	"image"

	"github.com/geekboywoot/umjammer/internal/imgerr"
	"github.com/kettek/apng"
)

// Animate encodes frames as a looping APNG, each shown for frameDelay
// seconds. The first frame defines the canvas; later frames must fit inside
// it and are placed at its top-left corner.
func Animate(frames []image.Image, frameDelay float64) ([]byte, error) {
	if len(frames) == 0 {
		return nil, imgerr.InvalidArgument("no frames to animate")
	}
	if frameDelay <= 0 {
		return nil, imgerr.InvalidArgument("frame delay %v must be positive", frameDelay)
	}

	canvas := frames[0].Bounds()
	a := apng.APNG{
		Frames:    make([]apng.Frame, len(frames)),
		LoopCount: 0,
	}

	for i, img := range frames {
		b := img.Bounds()
		if b.Dx() > canvas.Dx() || b.Dy() > canvas.Dy() {
			return nil, imgerr.InvalidArgument("frame %d is %dx%d, larger than the %dx%d canvas",
				i, b.Dx(), b.Dy(), canvas.Dx(), canvas.Dy())
		}
		a.Frames[i] = apng.Frame{
			Image:            img,
			DelayNumerator:   uint16(frameDelay * 1000),
			DelayDenominator: 1000,
		}
	}

	var buf bytes.Buffer
	if err := apng.Encode(&buf, a); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
