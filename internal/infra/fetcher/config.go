package fetcher

import (
	"fmt"
	"time"

	"docdiff/internal/config"
)

// Config holds the limits applied to every download.
//
// Security settings:
//   - DenyPrivateIPs: blocks URLs resolving to internal addresses (SSRF)
//   - MaxBodySize: caps memory used by one response
//   - MaxRedirects: bounds redirect chains
//   - Timeout: bounds slow servers
type Config struct {
	// Timeout is the maximum duration for a single download.
	// Default: 30s
	Timeout time.Duration

	// MaxBodySize is the maximum HTTP response body size in bytes.
	// This is enforced while reading, not from Content-Length.
	// Default: 10485760 (10MB)
	MaxBodySize int64

	// MaxRedirects is the maximum number of HTTP redirects to follow.
	// Each redirect target is validated like the original URL.
	// Default: 5
	MaxRedirects int

	// DenyPrivateIPs rejects URLs whose host resolves to a loopback,
	// private or link-local address.
	// Default: true
	DenyPrivateIPs bool
}

// DefaultConfig returns the default download limits.
func DefaultConfig() Config {
	return Config{
		Timeout:        30 * time.Second,
		MaxBodySize:    10 * 1024 * 1024, // 10MB
		MaxRedirects:   5,
		DenyPrivateIPs: true,
	}
}

// FromConfig converts the fetch section of the run configuration.
func FromConfig(cfg config.FetchConfig) Config {
	return Config{
		Timeout:        cfg.Timeout,
		MaxBodySize:    cfg.MaxBodySize,
		MaxRedirects:   cfg.MaxRedirects,
		DenyPrivateIPs: cfg.DenyPrivateIPs,
	}
}

// Validate checks if the configuration values are valid and safe.
//
// Validation rules:
//   - Timeout: > 0
//   - MaxBodySize: 1KB-100MB
//   - MaxRedirects: 0-10
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}

	minBodySize := int64(1024)              // 1KB
	maxBodySize := int64(100 * 1024 * 1024) // 100MB
	if c.MaxBodySize < minBodySize || c.MaxBodySize > maxBodySize {
		return fmt.Errorf("max body size must be between %d and %d bytes, got %d", minBodySize, maxBodySize, c.MaxBodySize)
	}

	if c.MaxRedirects < 0 || c.MaxRedirects > 10 {
		return fmt.Errorf("max redirects must be between 0 and 10, got %d", c.MaxRedirects)
	}

	return nil
}
