// Package cache provides byte caches for upstream responses.
//
// Three backends implement [Cache]:
//
//   - [FileCache]: JSON entries with expiry under a local directory, the
//     default for the CLI.
//   - [RedisCache]: a shared redis instance, for several serve processes.
//   - [NullCache]: never stores anything.
//
// Wrap a backend with [Namespace] to prefix keys and report hits and misses
// to the observability hooks.
package cache

import (
	"context"
	"os"
	"path/filepath"
	"time"
)

// Cache stores opaque values under string keys.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// DefaultDir returns the per-user cache directory for orbitdash.
func DefaultDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "orbitdash")
	}
	return filepath.Join(os.TempDir(), "orbitdash-cache")
}

// Clear removes every file cache entry under dir. A missing directory is not
// an error.
func Clear(dir string) error {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}
