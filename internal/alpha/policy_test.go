package alpha

import (
	"testing"

	"github.com/geekboywoot/umjammer/internal/imgerr"
	"github.com/geekboywoot/umjammer/internal/pixel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPolicy(t *testing.T) {
	_, err := NewPolicy(true, 1)
	assert.ErrorIs(t, err, imgerr.ErrInvalidArgument)

	p, err := NewPolicy(true, 1024)
	require.NoError(t, err)
	assert.Equal(t, MaxLevels, p.Levels)

	p, err = NewPolicy(false, 4)
	require.NoError(t, err)
	assert.False(t, p.BlendingSupported)
}

func TestApplyExtremesAlwaysSurvive(t *testing.T) {
	policies := []Policy{Default(), NoBlending(), {true, 2}, {true, 3}, {true, 16}, {false, 256}}
	for _, p := range policies {
		assert.Equal(t, Transparent, p.Apply(Transparent), "%+v", p)
		assert.Equal(t, Opaque, p.Apply(Opaque), "%+v", p)
	}
}

func TestApplyWithoutBlending(t *testing.T) {
	p := NoBlending()
	for a := 1; a < 255; a++ {
		assert.Equal(t, Transparent, p.Apply(uint8(a)), "alpha %d", a)
	}
}

func TestApplyQuantizes(t *testing.T) {
	tests := []struct {
		levels int
		in     uint8
		want   uint8
	}{
		{256, 0x37, 0x37},
		{2, 0x7F, 0x00},
		{2, 0x80, 0xFF},
		{3, 0x3F, 0x00},
		{3, 0x40, 0x80},
		{3, 0xBF, 0x80},
		{3, 0xC0, 0xFF},
		{5, 0x20, 0x40},
		{16, 0x88, 0x88},
		{16, 0x8B, 0x88},
	}
	for _, tt := range tests {
		p := Policy{BlendingSupported: true, Levels: tt.levels}
		assert.Equal(t, tt.want, p.Apply(tt.in), "levels=%d in=%#x", tt.levels, tt.in)
	}
}

func TestApplyBuffer(t *testing.T) {
	b, err := pixel.FromARGB([]uint32{0x00112233, 0x80445566, 0xFF778899}, 3, 1)
	require.NoError(t, err)

	Default().ApplyBuffer(b)
	assert.Equal(t, []uint32{0x00112233, 0x80445566, 0xFF778899}, b.Pix())

	NoBlending().ApplyBuffer(b)
	assert.Equal(t, []uint32{0x00112233, 0x00445566, 0xFF778899}, b.Pix())
}

func TestFromSample(t *testing.T) {
	assert.Equal(t, Transparent, FromSample(0, 255))
	assert.Equal(t, Opaque, FromSample(255, 255))
	assert.Equal(t, uint8(0x80), FromSample(0x80, 255))
	assert.Equal(t, Transparent, FromSample(0, 65535))
	assert.Equal(t, Opaque, FromSample(65535, 65535))
	assert.Equal(t, uint8(1), FromSample(1, 65535), "near-transparent stays semitransparent")
	assert.Equal(t, uint8(254), FromSample(65534, 65535), "near-opaque stays semitransparent")
	assert.Equal(t, uint8(0x80), FromSample(0x8080, 65535))
}
