// Package cache provides the resolution cache for scanned packages.
//
// Resolved license text is keyed by package name and version so that
// repeated scans of large trees skip candidate-file probing for packages
// already seen. Three backends are available:
//   - file: JSON entries under a cache directory (default for CLI use)
//   - redis: shared cache for CI runners scanning many repositories
//   - null: caching disabled
//
// Cache failures are never fatal: callers treat errors as a miss.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values with optional expiration.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// DefaultTTL is how long cached license resolutions stay valid.
const DefaultTTL = 7 * 24 * time.Hour

// LicenseKey builds the cache key for a package's resolved license text.
// The line-ending style is part of the key because cached text is stored
// already normalized.
func LicenseKey(name, version, lineEnding string) string {
	return hashKey("license", name, version, lineEnding)
}
