// Package config reads platform capabilities and server settings from the
// environment. A .env file, when present, is loaded by main before any of
// these are read.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	EnvAlphaBlending = "LCDUI_ALPHA_BLENDING"
	EnvAlphaLevels   = "LCDUI_ALPHA_LEVELS"
	EnvCacheTTL      = "LCDUI_CACHE_TTL"
	EnvCacheSweep    = "LCDUI_CACHE_SWEEP"
)

// Capabilities describes what the target display can render.
type Capabilities struct {
	AlphaBlending bool
	AlphaLevels   int
}

// Server holds the HTTP API settings.
type Server struct {
	CacheTTL   time.Duration
	CacheSweep time.Duration
}

// DefaultCapabilities is a display with full 8-bit alpha blending.
func DefaultCapabilities() Capabilities {
	return Capabilities{AlphaBlending: true, AlphaLevels: 256}
}

// LoadCapabilities overlays the LCDUI_ALPHA_* variables onto the defaults.
func LoadCapabilities() (Capabilities, error) {
	caps := DefaultCapabilities()

	if v := os.Getenv(EnvAlphaBlending); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return caps, fmt.Errorf("failed to parse %s=%q: %w", EnvAlphaBlending, v, err)
		}
		caps.AlphaBlending = b
	}

	if v := os.Getenv(EnvAlphaLevels); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return caps, fmt.Errorf("failed to parse %s=%q: %w", EnvAlphaLevels, v, err)
		}
		if n < 2 {
			return caps, fmt.Errorf("%s must be at least 2, got %d", EnvAlphaLevels, n)
		}
		caps.AlphaLevels = n
	}

	return caps, nil
}

// LoadServer reads the cache settings, falling back to 30m TTL and a 5m sweep.
func LoadServer() (Server, error) {
	srv := Server{CacheTTL: 30 * time.Minute, CacheSweep: 5 * time.Minute}

	for _, item := range []struct {
		name string
		dst  *time.Duration
	}{
		{EnvCacheTTL, &srv.CacheTTL},
		{EnvCacheSweep, &srv.CacheSweep},
	} {
		v := os.Getenv(item.name)
		if v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return srv, fmt.Errorf("failed to parse %s=%q: %w", item.name, v, err)
		}
		if d <= 0 {
			return srv, fmt.Errorf("%s must be positive, got %s", item.name, d)
		}
		*item.dst = d
	}

	return srv, nil
}
