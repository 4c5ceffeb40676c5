// Package cache provides the TTL cache used to avoid re-querying place-search
// providers for the same postal code within a retention window.
//
// The cache is an explicitly constructed dependency owned by the composition
// root, not a hidden singleton, so tests can build isolated instances.
package cache

import (
	"context"
	"time"

	"cookiespots_backend/internal/venues"
)

// Cache is the contract shared by the in-memory and redis implementations.
// A Get after the entry's TTL has elapsed observes absence; expiry may be
// passive. Entries are never invalidated except by FlushAll or natural expiry.
type Cache interface {
	// Get returns the cached candidates for key, with false when the key is
	// absent or expired.
	Get(ctx context.Context, key string) ([]venues.Candidate, bool, error)
	// Set stores candidates under key for the given TTL.
	Set(ctx context.Context, key string, value []venues.Candidate, ttl time.Duration) error
	// FlushAll removes every entry.
	FlushAll(ctx context.Context) error
}

// Key builds the canonical cache key for one provider and postal code.
func Key(source venues.Source, postalCode string) string {
	return string(source) + "-" + postalCode
}
