package lcdui

import (
	"image"
	"io"
	"io/fs"
	"strings"

	"github.com/geekboywoot/umjammer/internal/imgerr"
	"github.com/geekboywoot/umjammer/internal/logging"
	"github.com/geekboywoot/umjammer/internal/pixel"
	pngcodec "github.com/geekboywoot/umjammer/internal/png"
)

// Decode creates an immutable image from the PNG bytes data[offset :
// offset+length]. Bad offsets give ErrRange; undecodable data gives ErrLoad
// with the decode error in its chain.
func Decode(data []byte, offset, length int) (*Image, error) {
	if offset < 0 || offset >= len(data) || length < 0 || length > len(data)-offset {
		return nil, imgerr.Range("offset %d, length %d outside data of length %d", offset, length, len(data))
	}
	return decode(data[offset : offset+length])
}

func decode(data []byte) (*Image, error) {
	buf, err := pngcodec.Decode(data)
	if err != nil {
		return nil, imgerr.Load(err)
	}
	AlphaPolicy().ApplyBuffer(buf)
	logging.Logger().Debug("lcdui: decoded image", "width", buf.Width(), "height", buf.Height())
	return newImmutable(buf), nil
}

// DecodeStream reads r to EOF and decodes it. The caller keeps ownership of
// r. Read and decode failures both give ErrLoad.
func DecodeStream(r io.Reader) (*Image, error) {
	if r == nil {
		return nil, imgerr.Load(imgerr.InvalidArgument("stream is nil"))
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, imgerr.Load(err)
	}
	return decode(data)
}

// LoadResource decodes the named file of fsys.
func LoadResource(fsys fs.FS, name string) (*Image, error) {
	if fsys == nil {
		return nil, imgerr.InvalidArgument("resource filesystem is nil")
	}
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, imgerr.Load(err)
	}
	return decode(data)
}

// LoadIcon decodes a top-level icon of fsys. Icon names are plain file names;
// a name containing '/' or '\' gives ErrInvalidArgument.
func LoadIcon(fsys fs.FS, name string) (*Image, error) {
	if strings.ContainsAny(name, `/\`) {
		return nil, imgerr.InvalidArgument("illegal character in icon name %q", name)
	}
	return LoadResource(fsys, name)
}

// CreateFromImage converts img into an immutable image, mapping alpha
// through the current AlphaPolicy.
func CreateFromImage(img image.Image) (*Image, error) {
	if img == nil {
		return nil, imgerr.InvalidArgument("source image is nil")
	}
	buf, err := pixel.FromImage(img)
	if err != nil {
		return nil, err
	}
	AlphaPolicy().ApplyBuffer(buf)
	return newImmutable(buf), nil
}
