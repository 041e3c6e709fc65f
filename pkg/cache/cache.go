// Package cache stores search results so repeated inputs skip the search.
//
// A search is a pure function of the words, the box size and the search
// options, so its results never go stale; entries only expire to bound disk
// and memory use. Three backends implement [Cache]:
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: a shared Redis instance (server deployments)
//   - [NullCache]: stores nothing (--no-cache)
//
// Keys are derived by a [Keyer]. [ScopedKeyer] prefixes keys so several
// deployments can share one Redis database.
package cache

import (
	"context"
	"time"
)

// TTLBoxes is how long search results are kept.
const TTLBoxes = 30 * 24 * time.Hour

// Cache is a byte-oriented key-value store with expiration.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value stored under key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// BoxKeyOpts are the search parameters that affect the result.
type BoxKeyOpts struct {
	Width          int  `json:"width"`
	MaxLines       int  `json:"max_lines"`
	SkipBlankLines bool `json:"skip_blank_lines"`
}

// Keyer derives cache keys.
type Keyer interface {
	// BoxKey returns the key of the search results for words.
	BoxKey(words []string, opts BoxKeyOpts) string
}

// DefaultKeyer hashes all key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// BoxKey returns "boxes:<sha256>" over the words and options.
func (DefaultKeyer) BoxKey(words []string, opts BoxKeyOpts) string {
	return hashKey("boxes", words, opts)
}
