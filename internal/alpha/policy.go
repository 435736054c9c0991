// Package alpha maps decoded alpha values onto what the display can render.
//
// Fully transparent (0x00) and fully opaque (0xFF) pixels always survive
// unchanged. Semitransparent pixels are either quantized to the number of
// levels the display supports or, when the display cannot blend, replaced by
// fully transparent pixels.
package alpha

import (
	"math"

	"github.com/geekboywoot/umjammer/internal/imgerr"
	"github.com/geekboywoot/umjammer/internal/pixel"
)

const (
	Transparent uint8 = 0x00
	Opaque      uint8 = 0xFF

	// MaxLevels is the number of distinct 8-bit alpha values.
	MaxLevels = 256
)

// Policy is a platform alpha capability.
type Policy struct {
	BlendingSupported bool
	Levels            int
}

// NewPolicy validates levels (at least 2) and clamps it to MaxLevels.
// Levels is ignored when blending is unsupported.
func NewPolicy(blending bool, levels int) (Policy, error) {
	if levels < 2 {
		return Policy{}, imgerr.InvalidArgument("alpha levels %d must be at least 2", levels)
	}
	return Policy{BlendingSupported: blending, Levels: min(levels, MaxLevels)}, nil
}

// Default is a display with full 8-bit alpha blending; Apply is the identity.
func Default() Policy {
	return Policy{BlendingSupported: true, Levels: MaxLevels}
}

// NoBlending keeps fully opaque pixels and makes every other pixel transparent.
func NoBlending() Policy {
	return Policy{BlendingSupported: false, Levels: 2}
}

// Apply maps a single alpha value.
func (p Policy) Apply(a uint8) uint8 {
	if a == Transparent || a == Opaque {
		return a
	}
	if !p.BlendingSupported {
		return Transparent
	}
	levels := p.Levels
	if levels >= MaxLevels || levels < 2 {
		return a
	}
	step := float64(Opaque) / float64(levels-1)
	idx := math.Round(float64(a) / step)
	return uint8(math.Round(idx * step))
}

// ApplyARGB maps the alpha byte of a packed pixel.
func (p Policy) ApplyARGB(argb uint32) uint32 {
	a := pixel.Alpha(argb)
	if q := p.Apply(a); q != a {
		return pixel.WithAlpha(argb, q)
	}
	return argb
}

// ApplyBuffer maps every pixel of b in place. b must not be frozen.
func (p Policy) ApplyBuffer(b *pixel.Buffer) {
	if p.BlendingSupported && p.Levels >= MaxLevels {
		return
	}
	pix := b.Pix()
	for i, v := range pix {
		pix[i] = p.ApplyARGB(v)
	}
}

// FromSample scales an alpha sample of the given maximum (255 or 65535) to
// 8 bits. Zero stays fully transparent, max stays fully opaque and anything in
// between stays semitransparent.
func FromSample(v, maxSample uint32) uint8 {
	switch {
	case v == 0:
		return Transparent
	case v >= maxSample:
		return Opaque
	}
	s := (uint64(v)*uint64(Opaque) + uint64(maxSample)/2) / uint64(maxSample)
	return uint8(min(max(s, 1), uint64(Opaque)-1))
}
