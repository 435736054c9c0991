package png

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"testing"

	"github.com/klauspost/compress/zlib"
	"github.com/stretchr/testify/require"
)

// fixture describes a PNG to be written by encodeFixture. It can express every
// color type, bit depth, filter type and interlace method, which the standard
// library encoder cannot.
type fixture struct {
	width, height int
	depth         int
	colorType     ColorType
	interlaced    bool

	// samples returns the channel samples of pixel (x, y) at the source depth.
	samples func(x, y int) []uint16

	palette [][3]uint8
	trns    []byte

	// filter is the filter type of every row; -1 cycles through all five.
	filter int

	compression byte
	ancillary   bool
	omitIEND    bool
	splitIDAT   bool
}

func chunk(buf *bytes.Buffer, typ string, body []byte) {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], uint32(len(body)))
	buf.Write(tmp[:])
	buf.WriteString(typ)
	buf.Write(body)
	crc := crc32.NewIEEE()
	crc.Write([]byte(typ))
	crc.Write(body)
	binary.BigEndian.PutUint32(tmp[:], crc.Sum32())
	buf.Write(tmp[:])
}

func (f fixture) packRow(y, xOff, xStep, width int) []byte {
	bits := f.depth * f.colorType.channels()
	row := make([]byte, (bits*width+7)/8)
	bit := 0
	for i := 0; i < width; i++ {
		for _, s := range f.samples(xOff+i*xStep, y) {
			switch f.depth {
			case 16:
				binary.BigEndian.PutUint16(row[bit/8:], s)
			case 8:
				row[bit/8] = uint8(s)
			default:
				row[bit/8] |= uint8(s) << (8 - f.depth - bit%8)
			}
			bit += f.depth
		}
	}
	return row
}

func filterRow(ft int, raw, prior []byte, bpp int) []byte {
	out := make([]byte, len(raw)+1)
	out[0] = byte(ft)
	for i := range raw {
		var left, upLeft byte
		if i >= bpp {
			left, upLeft = raw[i-bpp], prior[i-bpp]
		}
		up := prior[i]
		var pred byte
		switch ft {
		case ftSub:
			pred = left
		case ftUp:
			pred = up
		case ftAverage:
			pred = byte((int(left) + int(up)) / 2)
		case ftPaeth:
			pred = paeth(left, up, upLeft)
		}
		out[i+1] = raw[i] - pred
	}
	return out
}

func (f fixture) imageData() []byte {
	passes := []interlaceScan{{1, 1, 0, 0}}
	if f.interlaced {
		passes = interlacing
	}
	bpp := max(1, f.depth*f.colorType.channels()/8)

	var raw bytes.Buffer
	row := 0
	for _, p := range passes {
		pw := (f.width - p.xOffset + p.xFactor - 1) / p.xFactor
		ph := (f.height - p.yOffset + p.yFactor - 1) / p.yFactor
		if pw <= 0 || ph <= 0 {
			continue
		}
		var prior []byte
		for j := 0; j < ph; j++ {
			cur := f.packRow(p.yOffset+j*p.yFactor, p.xOffset, p.xFactor, pw)
			if prior == nil {
				prior = make([]byte, len(cur))
			}
			ft := f.filter
			if ft < 0 {
				ft = row % 5
			}
			raw.Write(filterRow(ft, cur, prior, bpp))
			prior = cur
			row++
		}
	}
	return raw.Bytes()
}

func encodeFixture(t *testing.T, f fixture) []byte {
	t.Helper()
	var out bytes.Buffer
	out.WriteString(pngHeader)

	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:], uint32(f.width))
	binary.BigEndian.PutUint32(ihdr[4:], uint32(f.height))
	ihdr[8] = byte(f.depth)
	ihdr[9] = byte(f.colorType)
	ihdr[10] = f.compression
	if f.interlaced {
		ihdr[12] = 1
	}
	chunk(&out, "IHDR", ihdr)

	if f.ancillary {
		chunk(&out, "tEXt", []byte("Comment\x00fixture"))
	}
	if f.palette != nil {
		plte := make([]byte, 0, 3*len(f.palette))
		for _, c := range f.palette {
			plte = append(plte, c[0], c[1], c[2])
		}
		chunk(&out, "PLTE", plte)
	}
	if f.trns != nil {
		chunk(&out, "tRNS", f.trns)
	}

	var z bytes.Buffer
	zw := zlib.NewWriter(&z)
	_, err := zw.Write(f.imageData())
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	data := z.Bytes()
	if f.splitIDAT && len(data) > 1 {
		chunk(&out, "IDAT", data[:len(data)/2])
		chunk(&out, "IDAT", data[len(data)/2:])
	} else {
		chunk(&out, "IDAT", data)
	}

	if !f.omitIEND {
		chunk(&out, "IEND", nil)
	}
	return out.Bytes()
}
