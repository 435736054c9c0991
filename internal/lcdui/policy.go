package lcdui

import (
	"sync/atomic"

	"github.com/geekboywoot/umjammer/internal/alpha"
)

var policyPtr atomic.Pointer[alpha.Policy]

func init() {
	p := alpha.Default()
	policyPtr.Store(&p)
}

// SetAlphaPolicy sets the display capability applied to images created from
// PNG data, ARGB arrays with processAlpha and image.Image sources. Images
// that already exist are not affected.
func SetAlphaPolicy(p alpha.Policy) {
	policyPtr.Store(&p)
}

// AlphaPolicy returns the current display capability.
func AlphaPolicy() alpha.Policy {
	return *policyPtr.Load()
}

// NumAlphaLevels reports how many alpha levels images can hold; 2 means
// only fully opaque and fully transparent pixels.
func NumAlphaLevels() int {
	p := AlphaPolicy()
	if !p.BlendingSupported {
		return 2
	}
	return p.Levels
}
