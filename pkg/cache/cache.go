// Package cache provides the byte cache used to memoise graph layouts and
// rendered artifacts.
//
// Two implementations are provided: [FileCache] stores entries as JSON files
// under a directory (the CLI uses the XDG cache dir), and [NullCache] stores
// nothing. Keys are produced by a [Keyer] so callers never build cache keys by
// hand; [ScopedKeyer] prefixes every key, which the pipeline uses to separate
// entries written by different builds.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Cache stores opaque byte values under string keys.
type Cache interface {
	// Get returns the value for key. hit is false on a miss or expired entry.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)
	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases resources held by the cache.
	Close() error
}

// Default time-to-live values.
const (
	TTLLayout   = 30 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// LayoutKeyOpts identifies the options a layout was computed with.
type LayoutKeyOpts struct {
	Engine    string `json:"engine"`
	Algorithm string `json:"algorithm"`
}

// ArtifactKeyOpts identifies the options a rendered artifact was produced with.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	Style  string  `json:"style"`
	FPS    int     `json:"fps"`
	Scale  float64 `json:"scale"`
}

// Keyer generates cache keys.
type Keyer interface {
	// LayoutKey returns the key for a layout of the graph with the given hash.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string
	// ArtifactKey returns the key for an artifact rendered from a script hash.
	ArtifactKey(scriptHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey returns "layout:<sha256>" over the graph hash and options.
func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

// ArtifactKey returns "artifact:<sha256>" over the script hash and options.
func (DefaultKeyer) ArtifactKey(scriptHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", scriptHash, opts)
}

// GetJSON reads key and decodes it into v. It reports a miss for absent or
// undecodable entries.
func GetJSON(ctx context.Context, c Cache, key string, v any) (bool, error) {
	data, hit, err := c.Get(ctx, key)
	if err != nil || !hit {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		_ = c.Delete(ctx, key)
		return false, nil
	}
	return true, nil
}

// SetJSON encodes v and stores it under key.
func SetJSON(ctx context.Context, c Cache, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	return c.Set(ctx, key, data, ttl)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = DefaultKeyer{}
