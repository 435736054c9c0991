// Package transform applies the eight lossless rectangle symmetries to a
// region of a pixel buffer.
package transform

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/geekboywoot/umjammer/internal/imgerr"
	"github.com/geekboywoot/umjammer/internal/logging"
	"github.com/geekboywoot/umjammer/internal/pixel"
)

// Code identifies a transform. The numbering matches the MIDP Sprite
// constants, so bit 2 set means the output axes are swapped.
type Code int

const (
	None         Code = 0
	MirrorRot180 Code = 1
	Mirror       Code = 2
	Rot180       Code = 3
	MirrorRot270 Code = 4
	Rot90        Code = 5
	Rot270       Code = 6
	MirrorRot90  Code = 7

	invertedAxes Code = 0x4
	invalidBits  Code = ^Code(0x7)
)

// Codes lists every valid transform in numeric order.
var Codes = []Code{None, MirrorRot180, Mirror, Rot180, MirrorRot270, Rot90, Rot270, MirrorRot90}

var names = map[Code]string{
	None:         "none",
	MirrorRot180: "mirror_rot180",
	Mirror:       "mirror",
	Rot180:       "rot180",
	MirrorRot270: "mirror_rot270",
	Rot90:        "rot90",
	Rot270:       "rot270",
	MirrorRot90:  "mirror_rot90",
}

// steps decomposes each code into an optional mirror about the vertical
// center followed by k quarter turns clockwise.
var steps = [8]struct {
	mirror bool
	turns  int
}{
	None:         {false, 0},
	MirrorRot180: {true, 2},
	Mirror:       {true, 0},
	Rot180:       {false, 2},
	MirrorRot270: {true, 3},
	Rot90:        {false, 1},
	Rot270:       {false, 3},
	MirrorRot90:  {true, 1},
}

// Valid reports whether c is one of the eight defined transforms.
func (c Code) Valid() bool { return c&invalidBits == 0 }

// SwapsAxes reports whether the output is h×w for a w×h region.
func (c Code) SwapsAxes() bool { return c&invertedAxes != 0 }

func (c Code) String() string {
	if name, ok := names[c]; ok {
		return name
	}
	return fmt.Sprintf("Code(%d)", int(c))
}

// ParseCode accepts a transform name (case-insensitive, "-" or "_") or its
// numeric value.
func ParseCode(s string) (Code, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	if key == "" {
		return None, nil
	}
	for c, name := range names {
		if name == key {
			return c, nil
		}
	}
	if n, err := strconv.Atoi(key); err == nil && Code(n).Valid() {
		return Code(n), nil
	}
	return None, imgerr.InvalidArgument("unknown transform %q", s)
}

// Dimensions returns the output size for a w×h region.
func (c Code) Dimensions(w, h int) (int, int) {
	if c.SwapsAxes() {
		return h, w
	}
	return w, h
}

// Apply returns the w×h region at (x, y) of src transformed by c.
//
// When c is None, the region covers all of src and src is frozen, src itself
// is returned; frozen buffers are never written so sharing them is safe.
// Every other result is a new, unfrozen buffer.
func Apply(src *pixel.Buffer, x, y, w, h int, c Code) (*pixel.Buffer, error) {
	if !c.Valid() {
		return nil, imgerr.InvalidArgument("invalid transform %d", int(c))
	}
	if w <= 0 || h <= 0 {
		return nil, imgerr.InvalidArgument("region size %dx%d must be positive", w, h)
	}
	sw, sh := src.Width(), src.Height()
	if x < 0 || y < 0 || x > sw-w || y > sh-h {
		return nil, imgerr.InvalidArgument("region (%d,%d %dx%d) exceeds %dx%d", x, y, w, h, sw, sh)
	}

	if c == None {
		if x == 0 && y == 0 && w == sw && h == sh && src.Frozen() {
			logging.Logger().Debug("transform: sharing frozen buffer", "width", sw, "height", sh)
			return src, nil
		}
		return src.CopyRegion(x, y, w, h)
	}

	dw, dh := c.Dimensions(w, h)
	dst, err := pixel.New(dw, dh)
	if err != nil {
		return nil, err
	}

	step := steps[c]
	in, out := src.Pix(), dst.Pix()
	for v := 0; v < h; v++ {
		row := in[(y+v)*sw+x : (y+v)*sw+x+w]
		for u, argb := range row {
			mu := u
			if step.mirror {
				mu = w - 1 - u
			}
			dx, dy := rotate(mu, v, w, h, step.turns)
			out[dy*dw+dx] = argb
		}
	}
	return dst, nil
}

// rotate maps (u, v) in a w×h grid after k clockwise quarter turns.
func rotate(u, v, w, h, k int) (int, int) {
	switch k {
	case 1:
		return h - 1 - v, u
	case 2:
		return w - 1 - u, h - 1 - v
	case 3:
		return v, w - 1 - u
	default:
		return u, v
	}
}
