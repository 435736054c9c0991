package cmd

import (
	"fmt"
	"io"

	"github.com/geekboywoot/umjammer/internal"
	"github.com/geekboywoot/umjammer/internal/lcdui"
	"github.com/geekboywoot/umjammer/internal/png"
)

// Info prints the PNG header of location and a summary of its decoded
// alpha channel.
func Info(w io.Writer, location string) error {
	body, err := internal.NewImageSource().Open(location)
	if err != nil {
		return err
	}
	defer func() {
		_ = body.Close()
	}()

	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", location, err)
	}

	header, err := png.DecodeConfig(data)
	if err != nil {
		return fmt.Errorf("failed to read header of %s: %w", location, err)
	}

	img, err := lcdui.Decode(data, 0, len(data))
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", location, err)
	}

	argb := make([]uint32, img.Width()*img.Height())
	if err := img.ReadRegion(argb, 0, img.Width(), 0, 0, img.Width(), img.Height()); err != nil {
		return err
	}
	var opaque, transparent, partial int
	for _, v := range argb {
		switch v >> 24 {
		case 0xFF:
			opaque++
		case 0x00:
			transparent++
		default:
			partial++
		}
	}

	fmt.Fprintf(w, "File:        %s\n", location)
	fmt.Fprintf(w, "ID:          %s\n", internal.ContentID(data))
	fmt.Fprintf(w, "Size:        %dx%d\n", header.Width, header.Height)
	fmt.Fprintf(w, "Color type:  %s, %d-bit\n", header.ColorType, header.BitDepth)
	fmt.Fprintf(w, "Interlaced:  %t\n", header.Interlaced)
	if header.PaletteSize > 0 {
		fmt.Fprintf(w, "Palette:     %d entries\n", header.PaletteSize)
	}
	fmt.Fprintf(w, "tRNS:        %t\n", header.HasTRNS)
	fmt.Fprintf(w, "Alpha:       %d opaque, %d transparent, %d semitransparent (display levels=%d)\n",
		opaque, transparent, partial, lcdui.NumAlphaLevels())
	return nil
}
