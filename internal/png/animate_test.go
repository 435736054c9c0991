package png

import (
	"bytes"
	"image"
	"testing"

	"github.com/geekboywoot/umjammer/internal/imgerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnimate(t *testing.T) {
	frames := []image.Image{
		image.NewNRGBA(image.Rect(0, 0, 4, 4)),
		image.NewNRGBA(image.Rect(0, 0, 4, 4)),
		image.NewNRGBA(image.Rect(0, 0, 2, 3)),
	}

	data, err := Animate(frames, 0.25)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte(pngHeader)))
	assert.True(t, bytes.Contains(data, []byte("acTL")), "animation control chunk expected")

	hdr, err := DecodeConfig(data)
	require.NoError(t, err)
	assert.Equal(t, 4, hdr.Width)
	assert.Equal(t, 4, hdr.Height)
}

func TestAnimate_Errors(t *testing.T) {
	_, err := Animate(nil, 1)
	assert.ErrorIs(t, err, imgerr.ErrInvalidArgument)

	_, err = Animate([]image.Image{image.NewNRGBA(image.Rect(0, 0, 1, 1))}, 0)
	assert.ErrorIs(t, err, imgerr.ErrInvalidArgument)

	_, err = Animate([]image.Image{
		image.NewNRGBA(image.Rect(0, 0, 2, 2)),
		image.NewNRGBA(image.Rect(0, 0, 3, 2)),
	}, 1)
	assert.ErrorIs(t, err, imgerr.ErrInvalidArgument)
}
