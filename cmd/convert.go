package cmd

import (
	"fmt"
	"log"

	"github.com/geekboywoot/umjammer/internal"
)

// Convert loads input, runs it through the pipeline described by flags and
// writes the result to output as PNG.
func Convert(input, output string, flags PipelineFlags) error {
	stages, err := flags.Stages()
	if err != nil {
		return err
	}

	img, err := internal.NewImageSource().Load(input)
	if err != nil {
		return err
	}

	out, err := img.Pipeline(stages...)
	if err != nil {
		return fmt.Errorf("failed to process image pipeline: %w", err)
	}

	if err := internal.WriteFileAtomic(output, out); err != nil {
		return err
	}
	log.Printf("Wrote %s (%dx%d, %d stages)", output, out.Width(), out.Height(), len(stages))
	return nil
}
