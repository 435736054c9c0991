package lcdui

import "fmt"

// PipelineStage produces a new image from img. Stages never modify their
// input.
type PipelineStage interface {
	Process(img *Image) (*Image, error)
}

// Pipeline runs the stages in order, feeding each the previous result. The
// first failing stage aborts the run.
func (i *Image) Pipeline(stages ...PipelineStage) (*Image, error) {
	cur := i
	for n, stage := range stages {
		next, err := stage.Process(cur)
		if err != nil {
			return nil, fmt.Errorf("stage %d (%T): %w", n, stage, err)
		}
		cur = next
	}
	return cur, nil
}
