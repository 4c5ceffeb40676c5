// Package aggregator fans a set of postal codes out across the configured
// place providers and merges the results into a deduplicated candidate list.
package aggregator

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"cookiespots_backend/internal/providers"
	"cookiespots_backend/internal/venues"
	"cookiespots_backend/platform/config"
	"cookiespots_backend/platform/logger"
)

// Aggregator coordinates provider fan-out. Postal codes are processed in
// batches so a broad search never holds more than batchSize * len(providers)
// outbound requests in flight.
type Aggregator struct {
	providers []providers.Provider
	batchSize int
	log       *logger.Logger
}

func New(sources []providers.Provider, cfg config.SearchConfig, log *logger.Logger) *Aggregator {
	batchSize := cfg.GetSearchBatchSize()
	if batchSize < 1 {
		batchSize = 1
	}
	return &Aggregator{
		providers: sources,
		batchSize: batchSize,
		log:       log,
	}
}

// Sources returns the fan-out targets in their fixed order.
func (a *Aggregator) Sources() []providers.Provider {
	return a.providers
}

// FetchAll queries every provider for every postal code and returns the
// merged, deduplicated candidates. Batches run sequentially; within a batch
// every (postal code, provider) pair runs concurrently. The merged order is
// deterministic for a given input: batch order, then postal code order, then
// provider order.
func (a *Aggregator) FetchAll(ctx context.Context, postalCodes []string) []venues.Candidate {
	var merged []venues.Candidate

	for start := 0; start < len(postalCodes); start += a.batchSize {
		end := start + a.batchSize
		if end > len(postalCodes) {
			end = len(postalCodes)
		}
		batch := postalCodes[start:end]

		// Slot layout mirrors the fan-out order so the merge below is
		// independent of goroutine scheduling.
		results := make([][]venues.Candidate, len(batch)*len(a.providers))

		group, groupCtx := errgroup.WithContext(ctx)
		for i, postalCode := range batch {
			for j, provider := range a.providers {
				slot := i*len(a.providers) + j
				postalCode, provider := postalCode, provider
				group.Go(func() error {
					results[slot] = a.fetch(groupCtx, provider, postalCode)
					return nil
				})
			}
		}
		_ = group.Wait()

		for _, candidates := range results {
			merged = append(merged, candidates...)
		}
	}

	return venues.Deduplicate(merged)
}

// fetch isolates a single provider call. Providers already swallow their own
// errors; this guard additionally contains panics so one misbehaving adapter
// cannot take down a whole search.
func (a *Aggregator) fetch(ctx context.Context, provider providers.Provider, postalCode string) (candidates []venues.Candidate) {
	defer func() {
		if r := recover(); r != nil {
			a.log.ProviderError(string(provider.Source()), postalCode, fmt.Errorf("panic: %v", r))
			candidates = nil
		}
	}()
	return provider.FetchByPostalCode(ctx, postalCode)
}
