// Package service implements the spot search use case: resolve the request
// to postal codes, fan out across providers, and shape the response.
package service

import (
	"context"

	"cookiespots_backend/internal/aggregator"
	"cookiespots_backend/internal/cache"
	"cookiespots_backend/internal/resolver"
	"cookiespots_backend/internal/search/transport"
	"cookiespots_backend/internal/venues"
	"cookiespots_backend/platform/apperr"
	"cookiespots_backend/platform/config"
	"cookiespots_backend/platform/logger"
)

type Service struct {
	resolver *resolver.Resolver
	agg      *aggregator.Aggregator
	store    cache.Cache
	cfg      config.ProviderConfig
	log      *logger.Logger
}

func New(res *resolver.Resolver, agg *aggregator.Aggregator, store cache.Cache, cfg config.ProviderConfig, log *logger.Logger) *Service {
	return &Service{
		resolver: res,
		agg:      agg,
		store:    store,
		cfg:      cfg,
		log:      log,
	}
}

// Search resolves the request to postal codes and aggregates provider
// results. A request that cannot be resolved to any location input is the
// only error path; provider failures degrade to fewer results.
func (s *Service) Search(ctx context.Context, req transport.SearchRequest) (*transport.SearchResponse, error) {
	postalCodes, err := s.resolver.Resolve(ctx, resolver.Query{
		Text: req.Location,
		Lat:  req.Lat,
		Lng:  req.Lng,
	})
	if err != nil {
		return nil, err
	}

	spots := s.agg.FetchAll(ctx, postalCodes)

	return &transport.SearchResponse{
		Success:     true,
		ZipCodes:    postalCodes,
		CookieSpots: spots,
		Metadata: transport.Metadata{
			Total:     len(spots),
			Providers: s.providerStatuses(spots),
		},
	}, nil
}

// FlushCache clears every cached provider response.
func (s *Service) FlushCache(ctx context.Context) error {
	if err := s.store.FlushAll(ctx); err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to flush cache", err).WithOp("search.FlushCache")
	}
	s.log.CacheEvent("flush", "*")
	return nil
}

func (s *Service) providerStatuses(spots []venues.Candidate) []transport.ProviderStatus {
	counts := make(map[venues.Source]int, len(s.agg.Sources()))
	for _, spot := range spots {
		counts[spot.Source]++
	}

	statuses := make([]transport.ProviderStatus, 0, len(s.agg.Sources()))
	for _, provider := range s.agg.Sources() {
		source := provider.Source()
		statuses = append(statuses, transport.ProviderStatus{
			Source:     string(source),
			Configured: s.configured(source),
			Count:      counts[source],
		})
	}
	return statuses
}

func (s *Service) configured(source venues.Source) bool {
	switch source {
	case venues.SourceGoogle:
		return s.cfg.GetGoogleAPIKey() != ""
	case venues.SourceYelp:
		return s.cfg.GetYelpAPIKey() != ""
	case venues.SourceFacebook:
		return s.cfg.GetFacebookAccessToken() != ""
	}
	return false
}
