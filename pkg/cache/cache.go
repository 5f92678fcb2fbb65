// Package cache stores aggregation results keyed by their inputs.
//
// A [Cache] is a byte-oriented key/value store with per-entry TTLs. Three
// backends are provided:
//
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: a shared Redis instance (server deployments)
//   - [NullCache]: stores nothing (--no-cache)
//
// Keys are produced by a [Keyer] so that every entry point derives the same
// key for the same rankings and solver options.
package cache

import (
	"context"
	"time"
)

// TTLs for cached entries.
const (
	// TTLResult is how long a consensus ranking stays cached. Results are a
	// pure function of their inputs, so this only bounds storage.
	TTLResult = 7 * 24 * time.Hour
)

// Cache is a key/value store for serialized results.
//
// Get reports a miss with found == false and a nil error. Implementations
// must be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, found bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// ResultKeyOpts are the solver options that change a result.
type ResultKeyOpts struct {
	Method string `json:"method"`
}

// Keyer derives cache keys.
type Keyer interface {
	// ResultKey returns the key of the result for the rankings whose content
	// hash is inputHash.
	ResultKey(inputHash string, opts ResultKeyOpts) string
}

// DefaultKeyer produces unprefixed, content-addressed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ResultKey returns "result:<sha256(inputHash, opts)>".
func (DefaultKeyer) ResultKey(inputHash string, opts ResultKeyOpts) string {
	return hashKey("result", inputHash, opts)
}
