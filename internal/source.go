package internal

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/geekboywoot/umjammer/internal/lcdui"
)

// HTTPClient is the part of *http.Client the image source needs.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ImageSource opens PNG data from local paths or http(s) URLs.
type ImageSource interface {
	Open(location string) (io.ReadCloser, error)
	Load(location string) (*lcdui.Image, error)
}

type SourceManager struct {
	client HTTPClient
}

func NewImageSource() ImageSource {
	return &SourceManager{
		client: &http.Client{},
	}
}

func IsURL(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

func (mgr *SourceManager) Open(location string) (io.ReadCloser, error) {
	if IsURL(location) {
		return mgr.get(location)
	}
	f, err := os.Open(location)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", location, err)
	}
	return f, nil
}

func (mgr *SourceManager) Load(location string) (*lcdui.Image, error) {
	body, err := mgr.Open(location)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = body.Close()
	}()

	img, err := lcdui.DecodeStream(body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", location, err)
	}
	return img, nil
}

func (mgr *SourceManager) get(url string) (io.ReadCloser, error) {
	log.Printf("Retrieving: %s", url)
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "image/png")

	res, err := mgr.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch from %s: %w", url, err)
	}

	if res.StatusCode > 299 {
		res.Body.Close()
		return nil, fmt.Errorf("http status response from %s: %s", url, res.Status)
	}

	return res.Body, nil
}
