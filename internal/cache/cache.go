// Package cache stores rendered projection results keyed by a hash of the request.
package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Cache is a string key/value store with per-entry expiry.
type Cache interface {
	// Get returns the value for key and whether it was present and unexpired.
	Get(ctx context.Context, key string) (string, bool)

	// Set stores value under key. A ttl of zero keeps the entry until evicted.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// Key derives a cache key from a namespace and the serialized request.
func Key(prefix string, payload []byte) string {
	return prefix + ":" + strconv.FormatUint(xxhash.Sum64(payload), 16)
}
