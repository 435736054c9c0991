package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/geekboywoot/umjammer/internal"
	"github.com/geekboywoot/umjammer/internal/lcdui"
	"github.com/geekboywoot/umjammer/internal/png"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSample(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, samplePNG(t), 0644))
	return path
}

func TestInfo(t *testing.T) {
	path := writeSample(t, t.TempDir(), "sample.png")

	var out bytes.Buffer
	require.NoError(t, Info(&out, path))
	assert.Contains(t, out.String(), "Size:        3x2\n")
	assert.Contains(t, out.String(), "ID:          "+internal.ContentID(samplePNG(t)))
	assert.Contains(t, out.String(), "5 opaque, 1 transparent, 0 semitransparent")

	bad := filepath.Join(t.TempDir(), "bad.png")
	require.NoError(t, os.WriteFile(bad, []byte("nope"), 0644))
	assert.ErrorContains(t, Info(&out, bad), "failed to read header")
}

func TestConvert(t *testing.T) {
	dir := t.TempDir()
	in := writeSample(t, dir, "in.png")
	out := filepath.Join(dir, "out.png")

	require.NoError(t, Convert(in, out, PipelineFlags{Transform: "rot90", Greyscale: true}))

	img, err := internal.NewImageSource().Load(out)
	require.NoError(t, err)
	assert.Equal(t, 2, img.Width())
	assert.Equal(t, 3, img.Height())

	assert.Error(t, Convert(in, out, PipelineFlags{Region: "0,0,9,9"}))
	assert.Error(t, Convert(in, out, PipelineFlags{Transform: "sideways"}))
}

func TestBatch(t *testing.T) {
	srcDir := t.TempDir()
	writeSample(t, srcDir, "a.png")
	writeSample(t, srcDir, "b.PNG")
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "notes.txt"), []byte("skip"), 0644))
	extra := writeSample(t, t.TempDir(), "c.png")

	outDir := filepath.Join(t.TempDir(), "out")
	require.NoError(t, Batch(outDir, 2, 0, []string{srcDir, extra}, PipelineFlags{Transform: "mirror"}))

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"a.png", "b.png", "c.png"}, names)

	bad := filepath.Join(t.TempDir(), "bad.png")
	require.NoError(t, os.WriteFile(bad, []byte("nope"), 0644))
	err = Batch(filepath.Join(t.TempDir(), "out"), 1, 0, []string{bad, extra}, PipelineFlags{})
	assert.ErrorContains(t, err, "1 of 2 files failed")

	err = Batch(outDir, 1, 0, []string{filepath.Join(srcDir, "missing.png")}, PipelineFlags{})
	assert.ErrorContains(t, err, "failed to stat")
}

func TestBatch_SameNameInTwoDirectories(t *testing.T) {
	first, second := t.TempDir(), t.TempDir()
	writeSample(t, first, "x.png")
	writeSample(t, second, "x.png")

	outDir := filepath.Join(t.TempDir(), "out")
	err := Batch(outDir, 1, 0, []string{first, second}, PipelineFlags{})
	assert.ErrorContains(t, err, "would both be written to x.png")
	assert.NoDirExists(t, outDir)
}

func TestBatch_Limit(t *testing.T) {
	srcDir := t.TempDir()
	for _, name := range []string{"a.png", "b.png", "c.png"} {
		writeSample(t, srcDir, name)
	}

	outDir := filepath.Join(t.TempDir(), "out")
	require.NoError(t, Batch(outDir, 2, 2, []string{srcDir}, PipelineFlags{}))

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestAnimate(t *testing.T) {
	dir := t.TempDir()
	in := writeSample(t, dir, "in.png")

	t.Run("spin", func(t *testing.T) {
		out := filepath.Join(dir, "spin.png")
		require.NoError(t, Animate(out, []string{in}, 0.25, true))

		data, err := os.ReadFile(out)
		require.NoError(t, err)
		header, err := png.DecodeConfig(data)
		require.NoError(t, err)
		assert.Equal(t, 3, header.Width)
		assert.Equal(t, 3, header.Height)
		assert.Contains(t, string(data), "acTL")
	})

	t.Run("frames", func(t *testing.T) {
		out := filepath.Join(dir, "frames.png")
		require.NoError(t, Animate(out, []string{in, in, in}, 1, false))

		data, err := os.ReadFile(out)
		require.NoError(t, err)
		header, err := png.DecodeConfig(data)
		require.NoError(t, err)
		assert.Equal(t, 3, header.Width)
		assert.Equal(t, 2, header.Height)
	})

	t.Run("errors", func(t *testing.T) {
		out := filepath.Join(dir, "never.png")
		assert.EqualError(t, Animate(out, nil, 1, false), "no input files")
		assert.EqualError(t, Animate(out, []string{in, in}, 1, true), "spin takes exactly one input file")
		assert.Error(t, Animate(out, []string{in}, 0, false))
		assert.NoFileExists(t, out)
	})
}

func TestBuildFrames_Spin(t *testing.T) {
	img, err := lcdui.CreateFromRGBArray([]uint32{0xFFFF0000, 0xFF00FF00}, 2, 1, true)
	require.NoError(t, err)

	frames, err := buildFrames([]*lcdui.Image{img}, true)
	require.NoError(t, err)
	require.Len(t, frames, 4)
	for _, f := range frames {
		assert.Equal(t, 2, f.Bounds().Dx())
		assert.Equal(t, 2, f.Bounds().Dy())
	}

	// Upright frame sits on the top row; the quarter turn stands in the left column.
	r, _, _, a := frames[0].At(0, 0).RGBA()
	assert.Equal(t, uint32(0xFFFF), r)
	assert.Equal(t, uint32(0xFFFF), a)
	_, _, _, a = frames[0].At(0, 1).RGBA()
	assert.Equal(t, uint32(0), a)

	r, _, _, _ = frames[1].At(0, 0).RGBA()
	assert.Equal(t, uint32(0xFFFF), r)
	_, g, _, _ := frames[1].At(0, 1).RGBA()
	assert.Equal(t, uint32(0xFFFF), g)
}
