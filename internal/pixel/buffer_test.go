package pixel

import (
	"image"
	"image/color"
	"testing"

	"github.com/geekboywoot/umjammer/internal/imgerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	for _, dims := range [][2]int{{0, 1}, {1, 0}, {-3, 4}, {4, -3}} {
		_, err := New(dims[0], dims[1])
		assert.ErrorIs(t, err, imgerr.ErrInvalidArgument, "dims %v", dims)
	}

	b, err := New(3, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, b.Width())
	assert.Equal(t, 2, b.Height())
	assert.Equal(t, 6, b.Len())
	assert.Len(t, b.Pix(), 6)
}

func TestNewFilled(t *testing.T) {
	b, err := NewFilled(4, 5, OpaqueWhite)
	require.NoError(t, err)
	for _, v := range b.Pix() {
		assert.Equal(t, OpaqueWhite, v)
	}
}

func TestGetSet(t *testing.T) {
	b, err := New(2, 2)
	require.NoError(t, err)

	require.NoError(t, b.Set(1, 0, 0x80112233))
	v, err := b.Get(1, 0)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x80112233), v)

	t.Run("out of range", func(t *testing.T) {
		for _, p := range [][2]int{{-1, 0}, {0, -1}, {2, 0}, {0, 2}} {
			_, err := b.Get(p[0], p[1])
			assert.ErrorIs(t, err, imgerr.ErrRange)
			assert.ErrorIs(t, b.Set(p[0], p[1], 0), imgerr.ErrRange)
		}
	})

	t.Run("frozen", func(t *testing.T) {
		b.Freeze()
		assert.True(t, b.Frozen())
		assert.ErrorIs(t, b.Set(0, 0, 1), imgerr.ErrIllegalState)
	})
}

func TestFromARGB(t *testing.T) {
	src := []uint32{1, 2, 3, 4, 5}
	b, err := FromARGB(src, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, []uint32{1, 2, 3, 4}, b.Pix())

	src[0] = 99
	assert.Equal(t, uint32(1), b.Pix()[0], "input must be copied")

	_, err = FromARGB(src, 3, 2)
	assert.ErrorIs(t, err, imgerr.ErrRange)
}

func TestCopyRegion(t *testing.T) {
	b, err := New(4, 3)
	require.NoError(t, err)
	for i := range b.Pix() {
		b.Pix()[i] = uint32(i)
	}

	r, err := b.CopyRegion(1, 1, 3, 2)
	require.NoError(t, err)
	assert.Equal(t, []uint32{5, 6, 7, 9, 10, 11}, r.Pix())
	assert.False(t, r.Frozen())

	r.Pix()[0] = 100
	assert.Equal(t, uint32(5), b.Pix()[5], "region must not alias the source")

	_, err = b.CopyRegion(0, 0, 0, 1)
	assert.ErrorIs(t, err, imgerr.ErrInvalidArgument)
	_, err = b.CopyRegion(2, 0, 3, 1)
	assert.ErrorIs(t, err, imgerr.ErrRange)
	_, err = b.CopyRegion(-1, 0, 1, 1)
	assert.ErrorIs(t, err, imgerr.ErrRange)
}

func TestClone(t *testing.T) {
	b, err := NewFilled(2, 1, 7)
	require.NoError(t, err)
	b.Freeze()

	c := b.Clone()
	assert.False(t, c.Frozen())
	require.NoError(t, c.Set(0, 0, 8))
	assert.Equal(t, uint32(7), b.Pix()[0])
}

func TestImageInterop(t *testing.T) {
	b, err := FromARGB([]uint32{0x80FF0000, 0xFF00FF00}, 2, 1)
	require.NoError(t, err)

	assert.Equal(t, image.Rect(0, 0, 2, 1), b.Bounds())
	assert.Equal(t, color.NRGBA{R: 0xFF, A: 0x80}, b.At(0, 0))
	assert.Equal(t, color.NRGBA{}, b.At(5, 5))

	nrgba := b.ToNRGBA()
	assert.Equal(t, []uint8{0xFF, 0, 0, 0x80, 0, 0xFF, 0, 0xFF}, nrgba.Pix)

	back, err := FromImage(nrgba)
	require.NoError(t, err)
	assert.Equal(t, b.Pix(), back.Pix())

	self, err := FromImage(b)
	require.NoError(t, err)
	assert.Equal(t, b.Pix(), self.Pix())
}

func TestFromImageOffsetBounds(t *testing.T) {
	img := image.NewNRGBA(image.Rect(10, 20, 12, 21))
	img.SetNRGBA(11, 20, color.NRGBA{R: 1, G: 2, B: 3, A: 4})

	b, err := FromImage(img)
	require.NoError(t, err)
	assert.Equal(t, []uint32{0, 0x04010203}, b.Pix())
}

func TestPacking(t *testing.T) {
	v := Pack(0x12, 0x34, 0x56, 0x78)
	assert.Equal(t, uint32(0x12345678), v)
	a, r, g, bl := Unpack(v)
	assert.Equal(t, []uint8{0x12, 0x34, 0x56, 0x78}, []uint8{a, r, g, bl})
	assert.Equal(t, uint8(0x12), Alpha(v))
	assert.Equal(t, uint32(0xFF345678), WithAlpha(v, 0xFF))

	b, err := FromARGB([]uint32{0x00112233, 0x80445566}, 2, 1)
	require.NoError(t, err)
	b.ForceOpaque()
	assert.Equal(t, []uint32{0xFF112233, 0xFF445566}, b.Pix())
}
