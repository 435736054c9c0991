package cmd

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/geekboywoot/umjammer/internal/alpha"
	"github.com/geekboywoot/umjammer/internal/lcdui"
	"github.com/geekboywoot/umjammer/internal/lcdui/stage"
	"github.com/geekboywoot/umjammer/internal/transform"
	"github.com/spf13/cobra"
)

// PipelineFlags describes the processing shared by convert and batch. Stages
// run in field order; zero values are skipped.
type PipelineFlags struct {
	Region            string
	Transform         string
	ColorKey          string
	Tolerance         float64
	Greyscale         bool
	Blur              float64
	Resize            string
	PreviewLevels     int
	PreviewNoBlending bool
}

func (f *PipelineFlags) AddFlags(c *cobra.Command) {
	c.Flags().StringVar(&f.Region, "region", "", "Crop to x,y,w,h before transforming")
	c.Flags().StringVar(&f.Transform, "transform", "none", "One of none, rot90, rot180, rot270, mirror, mirror_rot90, mirror_rot180, mirror_rot270")
	c.Flags().StringVar(&f.ColorKey, "color-key", "", "Make pixels close to #RRGGBB transparent")
	c.Flags().Float64Var(&f.Tolerance, "tolerance", 50, "Color key distance tolerance")
	c.Flags().BoolVar(&f.Greyscale, "greyscale", false, "Resample for a greyscale display")
	c.Flags().Float64Var(&f.Blur, "blur", 0, "Gaussian blur sigma")
	c.Flags().StringVar(&f.Resize, "resize", "", "Scale to WxH with Catmull-Rom resampling")
	c.Flags().IntVar(&f.PreviewLevels, "preview-levels", 0, "Quantize alpha to this many levels")
	c.Flags().BoolVar(&f.PreviewNoBlending, "preview-no-blending", false, "Drop semitransparent pixels as a display without blending would")
}

func (f *PipelineFlags) Stages() ([]lcdui.PipelineStage, error) {
	var stages []lcdui.PipelineStage

	code, err := transform.ParseCode(f.Transform)
	if err != nil {
		return nil, err
	}
	if f.Region != "" {
		v, err := parseInts(f.Region, ",", 4)
		if err != nil {
			return nil, fmt.Errorf("failed to parse region %q: %w", f.Region, err)
		}
		stages = append(stages, &stage.RegionStage{X: v[0], Y: v[1], W: v[2], H: v[3], Transform: code})
	} else if code != transform.None {
		stages = append(stages, &stage.TransformStage{Transform: code})
	}

	if f.ColorKey != "" {
		key, err := parseColor(f.ColorKey)
		if err != nil {
			return nil, fmt.Errorf("failed to parse color key %q: %w", f.ColorKey, err)
		}
		stages = append(stages, &stage.ColorKeyStage{Tolerance: f.Tolerance, Color: key})
	}

	if f.Greyscale {
		stages = append(stages, &stage.GreyscaleStage{})
	}

	if f.Blur > 0 {
		stages = append(stages, &stage.GaussianBlurStage{Sigma: f.Blur})
	}

	if f.Resize != "" {
		v, err := parseInts(strings.ToLower(f.Resize), "x", 2)
		if err != nil {
			return nil, fmt.Errorf("failed to parse size %q: %w", f.Resize, err)
		}
		stages = append(stages, &stage.ResampleStage{Width: v[0], Height: v[1]})
	}

	switch {
	case f.PreviewNoBlending:
		stages = append(stages, &stage.AlphaStage{Policy: alpha.NoBlending()})
	case f.PreviewLevels > 0:
		policy, err := alpha.NewPolicy(true, f.PreviewLevels)
		if err != nil {
			return nil, err
		}
		stages = append(stages, &stage.AlphaStage{Policy: policy})
	}

	return stages, nil
}

func parseInts(s, sep string, n int) ([]int, error) {
	parts := strings.Split(s, sep)
	if len(parts) != n {
		return nil, fmt.Errorf("expected %d values separated by %q", n, sep)
	}
	out := make([]int, n)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func parseColor(s string) (color.Color, error) {
	v, err := strconv.ParseUint(strings.TrimPrefix(s, "#"), 16, 32)
	if err != nil {
		return nil, err
	}
	if v > 0xFFFFFF {
		return nil, fmt.Errorf("%s is not an RRGGBB value", s)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xFF}, nil
}
