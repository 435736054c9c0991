// Package png decodes PNG images into ARGB8888 pixel buffers.
//
// All color types, bit depths, filter types and both interlace methods are
// supported. Transparency follows the MIDP rules: an alpha sample of zero is
// fully transparent, the maximum sample is fully opaque, and tRNS values are
// matched at the source bit depth. The PNG specification is at
// https://www.w3.org/TR/PNG/.
package png

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"

	"github.com/geekboywoot/umjammer/internal/imgerr"
	"github.com/geekboywoot/umjammer/internal/logging"
	"github.com/geekboywoot/umjammer/internal/pixel"
)

const pngHeader = "\x89PNG\r\n\x1a\n"

// MaxPixels bounds width*height of a decodable image.
const MaxPixels = 1 << 26

// ColorType is the IHDR color type.
type ColorType uint8

const (
	Grayscale      ColorType = 0
	TrueColor      ColorType = 2
	Paletted       ColorType = 3
	GrayscaleAlpha ColorType = 4
	TrueColorAlpha ColorType = 6
)

func (ct ColorType) String() string {
	switch ct {
	case Grayscale:
		return "grayscale"
	case TrueColor:
		return "truecolor"
	case Paletted:
		return "paletted"
	case GrayscaleAlpha:
		return "grayscale+alpha"
	case TrueColorAlpha:
		return "truecolor+alpha"
	}
	return fmt.Sprintf("ColorType(%d)", uint8(ct))
}

func (ct ColorType) channels() int {
	switch ct {
	case TrueColor:
		return 3
	case GrayscaleAlpha:
		return 2
	case TrueColorAlpha:
		return 4
	}
	return 1
}

// allowedDepths lists the legal bit depths of each color type.
var allowedDepths = map[ColorType][]int{
	Grayscale:      {1, 2, 4, 8, 16},
	TrueColor:      {8, 16},
	Paletted:       {1, 2, 4, 8},
	GrayscaleAlpha: {8, 16},
	TrueColorAlpha: {8, 16},
}

// Header describes an image without decoding its pixels.
type Header struct {
	Width       int
	Height      int
	BitDepth    int
	ColorType   ColorType
	Interlaced  bool
	PaletteSize int
	HasTRNS     bool
}

func (h Header) bitsPerPixel() int {
	return h.BitDepth * h.ColorType.channels()
}

// A FormatError reports that the input is not a valid PNG.
type FormatError string

func (e FormatError) Error() string { return "png: invalid format: " + string(e) }

// Is makes FormatError match imgerr.ErrDecode.
func (e FormatError) Is(target error) bool { return target == imgerr.ErrDecode }

// An UnsupportedError reports a well-formed PNG using parameters outside the
// supported set, such as an unknown compression method.
type UnsupportedError string

func (e UnsupportedError) Error() string { return "png: unsupported feature: " + string(e) }

// Is makes UnsupportedError match imgerr.ErrDecode.
func (e UnsupportedError) Is(target error) bool { return target == imgerr.ErrDecode }

var chunkOrderError = FormatError("chunk out of order")

type decoder struct {
	data []byte
	pos  int

	hdr      Header
	seenIHDR bool
	seenIDAT bool
	idatDone bool
	seenIEND bool

	// palette holds ARGB entries; tRNS alpha is folded in when present.
	palette []uint32

	// useTransparent and transparent are used for grayscale and truecolor
	// transparency, as opposed to palette transparency.
	useTransparent bool
	transparent    [3]uint16

	idat bytes.Buffer
}

// Decode parses a complete PNG byte stream. Either a fully decoded buffer or
// an error matching imgerr.ErrDecode is returned, never both.
func Decode(data []byte) (*pixel.Buffer, error) {
	d := &decoder{data: data}
	if err := d.readChunks(false); err != nil {
		return nil, err
	}
	return d.decodePixels()
}

// DecodeConfig returns the header and transparency metadata, reading chunks
// up to the first IDAT.
func DecodeConfig(data []byte) (Header, error) {
	d := &decoder{data: data}
	if err := d.readChunks(true); err != nil {
		return Header{}, err
	}
	return d.hdr, nil
}

func (d *decoder) readChunks(stopAtIDAT bool) error {
	if len(d.data) < len(pngHeader) || string(d.data[:len(pngHeader)]) != pngHeader {
		return FormatError("not a PNG file")
	}
	d.pos = len(pngHeader)

	for !d.seenIEND {
		if len(d.data)-d.pos < 12 {
			return FormatError("truncated data, missing IEND")
		}
		length := binary.BigEndian.Uint32(d.data[d.pos : d.pos+4])
		if length > 0x7fffffff {
			return FormatError(fmt.Sprintf("bad chunk length: %d", length))
		}
		end := d.pos + 8 + int(length)
		if end+4 > len(d.data) {
			return FormatError("truncated chunk, missing IEND")
		}
		typ := string(d.data[d.pos+4 : d.pos+8])
		body := d.data[d.pos+8 : end]
		if binary.BigEndian.Uint32(d.data[end:end+4]) != crc32.ChecksumIEEE(d.data[d.pos+4:end]) {
			return FormatError("invalid checksum in " + typ)
		}
		d.pos = end + 4

		if !d.seenIHDR && typ != "IHDR" {
			return FormatError("missing IHDR")
		}
		if d.seenIDAT && typ != "IDAT" {
			d.idatDone = true
		}

		var err error
		switch typ {
		case "IHDR":
			if d.seenIHDR {
				return chunkOrderError
			}
			err = d.parseIHDR(body)
		case "PLTE":
			if d.seenIDAT || d.palette != nil {
				return chunkOrderError
			}
			err = d.parsePLTE(body)
		case "tRNS":
			if d.seenIDAT {
				return chunkOrderError
			}
			err = d.parseTRNS(body)
		case "IDAT":
			if d.idatDone {
				return chunkOrderError
			}
			if d.hdr.ColorType == Paletted && d.palette == nil {
				return FormatError("missing PLTE")
			}
			if stopAtIDAT {
				return nil
			}
			d.seenIDAT = true
			d.idat.Write(body)
		case "IEND":
			if len(body) != 0 {
				return FormatError("bad IEND length")
			}
			d.seenIEND = true
		default:
			if typ[0]&0x20 == 0 {
				return UnsupportedError("critical chunk " + typ)
			}
			logging.Logger().Debug("png: skipping ancillary chunk", "type", typ, "length", length)
		}
		if err != nil {
			return err
		}
	}

	if !d.seenIDAT {
		return FormatError("missing IDAT")
	}
	if trailing := len(d.data) - d.pos; trailing > 0 {
		logging.Logger().Warn("png: ignoring data after IEND", "bytes", trailing)
	}
	return nil
}

func (d *decoder) parseIHDR(body []byte) error {
	if len(body) != 13 {
		return FormatError("bad IHDR length")
	}
	w := binary.BigEndian.Uint32(body[0:4])
	h := binary.BigEndian.Uint32(body[4:8])
	if w == 0 || h == 0 || w > 0x7fffffff || h > 0x7fffffff {
		return FormatError("non-positive dimension")
	}
	if uint64(w)*uint64(h) > MaxPixels {
		return UnsupportedError(fmt.Sprintf("dimension overflow: %dx%d", w, h))
	}

	depth := int(body[8])
	ct := ColorType(body[9])
	depths, ok := allowedDepths[ct]
	if !ok {
		return FormatError(fmt.Sprintf("bad color type %d", body[9]))
	}
	legal := false
	for _, v := range depths {
		legal = legal || v == depth
	}
	if !legal {
		return FormatError(fmt.Sprintf("bit depth %d, color type %d", depth, ct))
	}
	if body[10] != 0 {
		return UnsupportedError(fmt.Sprintf("compression method %d", body[10]))
	}
	if body[11] != 0 {
		return UnsupportedError(fmt.Sprintf("filter method %d", body[11]))
	}
	if body[12] > 1 {
		return FormatError(fmt.Sprintf("bad interlace method %d", body[12]))
	}

	d.hdr = Header{
		Width:      int(w),
		Height:     int(h),
		BitDepth:   depth,
		ColorType:  ct,
		Interlaced: body[12] == 1,
	}
	d.seenIHDR = true
	return nil
}

func (d *decoder) parsePLTE(body []byte) error {
	n := len(body) / 3
	if len(body)%3 != 0 || n == 0 || n > 256 {
		return FormatError("bad PLTE length")
	}
	switch d.hdr.ColorType {
	case Grayscale, GrayscaleAlpha:
		return FormatError("PLTE in grayscale image")
	case TrueColor, TrueColorAlpha:
		// A suggested palette; not needed for decoding.
		return nil
	}
	if n > 1<<d.hdr.BitDepth {
		return FormatError("PLTE larger than bit depth allows")
	}
	d.palette = make([]uint32, n)
	for i := range d.palette {
		d.palette[i] = pixel.Pack(0xFF, body[3*i], body[3*i+1], body[3*i+2])
	}
	d.hdr.PaletteSize = n
	return nil
}

func (d *decoder) parseTRNS(body []byte) error {
	mask := uint16(1<<d.hdr.BitDepth - 1)
	switch d.hdr.ColorType {
	case Grayscale:
		if len(body) != 2 {
			return FormatError("bad tRNS length")
		}
		d.transparent[0] = binary.BigEndian.Uint16(body) & mask
		d.useTransparent = true
	case TrueColor:
		if len(body) != 6 {
			return FormatError("bad tRNS length")
		}
		for i := range 3 {
			d.transparent[i] = binary.BigEndian.Uint16(body[2*i:]) & mask
		}
		d.useTransparent = true
	case Paletted:
		if d.palette == nil {
			return chunkOrderError
		}
		if len(body) > len(d.palette) {
			return FormatError("bad tRNS length")
		}
		for i, a := range body {
			d.palette[i] = pixel.WithAlpha(d.palette[i], a)
		}
	default:
		logging.Logger().Debug("png: ignoring tRNS on image with alpha channel", "colorType", d.hdr.ColorType)
		return nil
	}
	d.hdr.HasTRNS = true
	return nil
}
