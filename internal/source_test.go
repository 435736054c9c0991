package internal

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/geekboywoot/umjammer/internal/imgerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockHTTPClient is a mock implementation of http.Client for testing
type MockHTTPClient struct {
	DoFunc func(req *http.Request) (*http.Response, error)
}

func (m *MockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	return m.DoFunc(req)
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{uint8(x * 40), uint8(y * 40), 0x80, 0xFF})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func respondWith(status int, body []byte) *MockHTTPClient {
	return &MockHTTPClient{
		DoFunc: func(req *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: status,
				Status:     http.StatusText(status),
				Body:       io.NopCloser(bytes.NewReader(body)),
				Header:     make(http.Header),
			}, nil
		},
	}
}

func TestSourceManager_Load(t *testing.T) {
	data := testPNG(t, 3, 2)

	t.Run("successful response", func(t *testing.T) {
		var accept string
		mockClient := respondWith(http.StatusOK, data)
		inner := mockClient.DoFunc
		mockClient.DoFunc = func(req *http.Request) (*http.Response, error) {
			accept = req.Header.Get("Accept")
			return inner(req)
		}

		mgr := &SourceManager{client: mockClient}
		img, err := mgr.Load("http://test-url/sprite.png")
		assert.NoError(t, err)
		assert.Equal(t, 3, img.Width())
		assert.Equal(t, 2, img.Height())
		assert.Equal(t, "image/png", accept)
	})

	t.Run("API error response", func(t *testing.T) {
		mgr := &SourceManager{client: respondWith(http.StatusNotFound, []byte("Not Found"))}
		img, err := mgr.Load("https://test-url/missing.png")
		assert.Error(t, err)
		assert.Nil(t, img)
		assert.Equal(t, "http status response from https://test-url/missing.png: Not Found", err.Error())
	})

	t.Run("transport failure", func(t *testing.T) {
		mgr := &SourceManager{client: &MockHTTPClient{
			DoFunc: func(req *http.Request) (*http.Response, error) {
				return nil, errors.New("connection refused")
			},
		}}
		_, err := mgr.Load("http://test-url/sprite.png")
		assert.ErrorContains(t, err, "failed to fetch from http://test-url/sprite.png")
	})

	t.Run("invalid PNG response", func(t *testing.T) {
		mgr := &SourceManager{client: respondWith(http.StatusOK, []byte("this is not a png"))}
		_, err := mgr.Load("http://test-url/sprite.png")
		assert.ErrorIs(t, err, imgerr.ErrLoad)
		assert.ErrorIs(t, err, imgerr.ErrDecode)
		assert.Contains(t, err.Error(), "failed to decode http://test-url/sprite.png")
	})

	t.Run("local file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "local.png")
		require.NoError(t, os.WriteFile(path, data, 0644))

		mgr := &SourceManager{client: &MockHTTPClient{
			DoFunc: func(req *http.Request) (*http.Response, error) {
				t.Fatal("local files must not go through HTTP")
				return nil, nil
			},
		}}
		img, err := mgr.Load(path)
		assert.NoError(t, err)
		assert.Equal(t, 3, img.Width())
	})

	t.Run("missing local file", func(t *testing.T) {
		mgr := &SourceManager{}
		_, err := mgr.Load(filepath.Join(t.TempDir(), "nope.png"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestIsURL(t *testing.T) {
	assert.True(t, IsURL("http://example.com/a.png"))
	assert.True(t, IsURL("https://example.com/a.png"))
	assert.False(t, IsURL("ftp://example.com/a.png"))
	assert.False(t, IsURL("images/a.png"))
}
