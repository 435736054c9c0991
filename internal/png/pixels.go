package png

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/geekboywoot/umjammer/internal/alpha"
	"github.com/geekboywoot/umjammer/internal/pixel"
	"github.com/klauspost/compress/zlib"
)

// Filter type, as per the PNG spec.
const (
	ftNone    = 0
	ftSub     = 1
	ftUp      = 2
	ftAverage = 3
	ftPaeth   = 4
)

// interlaceScan defines the placement and size of a pass for Adam7 interlacing.
type interlaceScan struct {
	xFactor, yFactor, xOffset, yOffset int
}

// interlacing defines Adam7 interlacing, with 7 passes of reduced images.
// See https://www.w3.org/TR/PNG/#8Interlace
var interlacing = []interlaceScan{
	{8, 8, 0, 0},
	{8, 8, 4, 0},
	{4, 8, 0, 4},
	{4, 4, 2, 0},
	{2, 4, 0, 2},
	{2, 2, 1, 0},
	{1, 2, 0, 1},
}

func (d *decoder) decodePixels() (*pixel.Buffer, error) {
	zr, err := zlib.NewReader(bytes.NewReader(d.idat.Bytes()))
	if err != nil {
		return nil, FormatError("bad zlib stream: " + err.Error())
	}
	defer func() {
		_ = zr.Close()
	}()

	buf, err := pixel.New(d.hdr.Width, d.hdr.Height)
	if err != nil {
		return nil, err
	}

	if !d.hdr.Interlaced {
		err = d.readPass(zr, buf, interlaceScan{1, 1, 0, 0})
	} else {
		for _, pass := range interlacing {
			if err = d.readPass(zr, buf, pass); err != nil {
				break
			}
		}
	}
	if err != nil {
		return nil, err
	}

	// Reading to EOF makes the zlib reader verify the Adler-32 checksum.
	if _, err := io.Copy(io.Discard, zr); err != nil {
		return nil, FormatError("bad zlib stream: " + err.Error())
	}
	return buf, nil
}

// readPass decodes one reduced image and scatters its pixels into buf. The
// non-interlaced case is the single pass {1, 1, 0, 0}.
func (d *decoder) readPass(r io.Reader, buf *pixel.Buffer, pass interlaceScan) error {
	width := (d.hdr.Width - pass.xOffset + pass.xFactor - 1) / pass.xFactor
	height := (d.hdr.Height - pass.yOffset + pass.yFactor - 1) / pass.yFactor
	if width <= 0 || height <= 0 {
		// Empty passes carry no filter bytes.
		return nil
	}

	bitsPerPixel := d.hdr.bitsPerPixel()
	bytesPerPixel := max(1, bitsPerPixel/8)

	// The +1 is for the per-row filter type, which is at cr[0].
	rowSize := 1 + (bitsPerPixel*width+7)/8
	cr := make([]uint8, rowSize)
	pr := make([]uint8, rowSize)
	dst := buf.Pix()

	for y := 0; y < height; y++ {
		if _, err := io.ReadFull(r, cr); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return FormatError("not enough pixel data")
			}
			return FormatError("bad zlib stream: " + err.Error())
		}
		if err := unfilter(cr[0], cr[1:], pr[1:], bytesPerPixel); err != nil {
			return err
		}

		rowStart := (pass.yOffset + y*pass.yFactor) * d.hdr.Width
		err := d.convertRow(cr[1:], width, func(x int, argb uint32) {
			dst[rowStart+pass.xOffset+x*pass.xFactor] = argb
		})
		if err != nil {
			return err
		}
		pr, cr = cr, pr
	}
	return nil
}

func unfilter(ft uint8, cdat, pdat []uint8, bpp int) error {
	switch ft {
	case ftNone:
	case ftSub:
		for i := bpp; i < len(cdat); i++ {
			cdat[i] += cdat[i-bpp]
		}
	case ftUp:
		for i, p := range pdat {
			cdat[i] += p
		}
	case ftAverage:
		for i := 0; i < bpp && i < len(cdat); i++ {
			cdat[i] += pdat[i] / 2
		}
		for i := bpp; i < len(cdat); i++ {
			cdat[i] += uint8((int(cdat[i-bpp]) + int(pdat[i])) / 2)
		}
	case ftPaeth:
		for i := range cdat {
			var a, c uint8
			if i >= bpp {
				a, c = cdat[i-bpp], pdat[i-bpp]
			}
			cdat[i] += paeth(a, pdat[i], c)
		}
	default:
		return FormatError("bad filter type")
	}
	return nil
}

// paeth implements the Paeth predictor function.
func paeth(a, b, c uint8) uint8 {
	p := int(a) + int(b) - int(c)
	pa, pb, pc := abs(p-int(a)), abs(p-int(b)), abs(p-int(c))
	if pa <= pb && pa <= pc {
		return a
	} else if pb <= pc {
		return b
	}
	return c
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// sample returns the i-th packed sample of a row of sub-byte samples.
func sample(row []uint8, i, depth int) uint16 {
	bit := i * depth
	shift := 8 - depth - bit%8
	return uint16(row[bit/8]>>shift) & (1<<depth - 1)
}

// convertRow turns one unfiltered row of width pixels into ARGB values.
func (d *decoder) convertRow(row []uint8, width int, put func(x int, argb uint32)) error {
	depth := d.hdr.BitDepth
	opacity := func(match bool) uint8 {
		if match {
			return alpha.Transparent
		}
		return alpha.Opaque
	}

	switch d.hdr.ColorType {
	case Grayscale:
		for x := 0; x < width; x++ {
			var s uint16
			var g uint8
			switch depth {
			case 16:
				s = binary.BigEndian.Uint16(row[2*x:])
				g = uint8(s >> 8)
			case 8:
				s = uint16(row[x])
				g = uint8(s)
			default:
				s = sample(row, x, depth)
				g = uint8(uint32(s) * 0xFF / (1<<depth - 1))
			}
			a := opacity(d.useTransparent && s == d.transparent[0])
			put(x, pixel.Pack(a, g, g, g))
		}

	case TrueColor:
		for x := 0; x < width; x++ {
			var s [3]uint16
			var c [3]uint8
			for i := range 3 {
				if depth == 16 {
					s[i] = binary.BigEndian.Uint16(row[6*x+2*i:])
					c[i] = uint8(s[i] >> 8)
				} else {
					s[i] = uint16(row[3*x+i])
					c[i] = uint8(s[i])
				}
			}
			a := opacity(d.useTransparent && s == d.transparent)
			put(x, pixel.Pack(a, c[0], c[1], c[2]))
		}

	case Paletted:
		for x := 0; x < width; x++ {
			var idx int
			if depth == 8 {
				idx = int(row[x])
			} else {
				idx = int(sample(row, x, depth))
			}
			if idx >= len(d.palette) {
				return FormatError("palette index out of range")
			}
			put(x, d.palette[idx])
		}

	case GrayscaleAlpha:
		for x := 0; x < width; x++ {
			var g, a uint8
			if depth == 16 {
				g = row[4*x]
				a = alpha.FromSample(uint32(binary.BigEndian.Uint16(row[4*x+2:])), 0xFFFF)
			} else {
				g = row[2*x]
				a = alpha.FromSample(uint32(row[2*x+1]), 0xFF)
			}
			put(x, pixel.Pack(a, g, g, g))
		}

	case TrueColorAlpha:
		for x := 0; x < width; x++ {
			var c [3]uint8
			var a uint8
			if depth == 16 {
				p := row[8*x : 8*x+8]
				c = [3]uint8{p[0], p[2], p[4]}
				a = alpha.FromSample(uint32(binary.BigEndian.Uint16(p[6:])), 0xFFFF)
			} else {
				p := row[4*x : 4*x+4]
				c = [3]uint8{p[0], p[1], p[2]}
				a = alpha.FromSample(uint32(p[3]), 0xFF)
			}
			put(x, pixel.Pack(a, c[0], c[1], c[2]))
		}
	}
	return nil
}
