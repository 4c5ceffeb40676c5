// Package providers contains one adapter per external place-search source
// (Google Places, Yelp, Facebook Graph). Each adapter resolves a postal code
// to normalized venue candidates, reading through the shared TTL cache.
//
// Adapters never surface errors: missing credentials, upstream failures, and
// malformed responses are all recovered to an empty candidate list and logged,
// so one broken provider can never fail a whole search.
package providers

import (
	"context"

	"cookiespots_backend/internal/venues"
)

// Provider is the contract the aggregator fans out over.
type Provider interface {
	// Source identifies the provider for cache keys and provenance.
	Source() venues.Source
	// FetchByPostalCode returns normalized candidates for one postal code.
	// Failures of any kind yield an empty list.
	FetchByPostalCode(ctx context.Context, postalCode string) []venues.Candidate
}
