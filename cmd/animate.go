package cmd

import (
	"errors"
	"fmt"
	"image"
	"log"
	"os"

	"github.com/geekboywoot/umjammer/internal"
	"github.com/geekboywoot/umjammer/internal/lcdui"
	"github.com/geekboywoot/umjammer/internal/png"
	"github.com/geekboywoot/umjammer/internal/transform"
	"golang.org/x/image/draw"
)

var spinSequence = []transform.Code{transform.None, transform.Rot90, transform.Rot180, transform.Rot270}

// Animate writes an APNG to output. With spin, the single input is shown in
// each quarter turn; otherwise every input becomes one frame.
func Animate(output string, inputs []string, frameDelay float64, spin bool) error {
	if len(inputs) == 0 {
		return errors.New("no input files")
	}
	if spin && len(inputs) != 1 {
		return errors.New("spin takes exactly one input file")
	}

	source := internal.NewImageSource()
	images := make([]*lcdui.Image, 0, len(inputs))
	for _, input := range inputs {
		log.Println(input)
		img, err := source.Load(input)
		if err != nil {
			return err
		}
		images = append(images, img)
	}

	frames, err := buildFrames(images, spin)
	if err != nil {
		return err
	}

	apngBytes, err := png.Animate(frames, frameDelay)
	if err != nil {
		return fmt.Errorf("failed to encode animation: %w", err)
	}

	return os.WriteFile(output, apngBytes, 0644)
}

func buildFrames(images []*lcdui.Image, spin bool) ([]image.Image, error) {
	if spin {
		src := images[0]
		images = images[:0:0]
		for _, code := range spinSequence {
			img, err := lcdui.CreateFromRegion(src, 0, 0, src.Width(), src.Height(), code)
			if err != nil {
				return nil, err
			}
			images = append(images, img)
		}
	}

	canvas := image.Rect(0, 0, images[0].Width(), images[0].Height())
	if spin {
		side := max(images[0].Width(), images[0].Height())
		canvas = image.Rect(0, 0, side, side)
	}

	frames := make([]image.Image, len(images))
	for i, img := range images {
		src := img.AsImage()
		frame := image.NewNRGBA(canvas)
		// centred on the canvas; larger frames are clipped
		offset := image.Pt((canvas.Dx()-img.Width())/2, (canvas.Dy()-img.Height())/2)
		draw.Draw(frame, src.Bounds().Add(offset), src, src.Bounds().Min, draw.Src)
		frames[i] = frame
	}
	return frames, nil
}
