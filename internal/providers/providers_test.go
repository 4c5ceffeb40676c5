package providers

import (
	"context"
	"time"

	"cookiespots_backend/internal/geocode"
	"cookiespots_backend/platform/logger"
)

// Shared test fixtures for the adapter tests.

type providerCfg struct {
	google   string
	yelp     string
	facebook string
}

func (c providerCfg) GetGoogleAPIKey() string            { return c.google }
func (c providerCfg) GetYelpAPIKey() string              { return c.yelp }
func (c providerCfg) GetFacebookAccessToken() string     { return c.facebook }
func (c providerCfg) GetOutboundTimeout() time.Duration  { return 5 * time.Second }
func (c providerCfg) GetProviderCacheTTL() time.Duration { return time.Hour }

type stubGeocoder struct {
	center geocode.LatLng
	calls  int
}

func (s *stubGeocoder) Geocode(_ context.Context, _ string) ([]geocode.Result, error) {
	s.calls++
	return []geocode.Result{{Geometry: geocode.Geometry{Location: s.center}}}, nil
}

func (s *stubGeocoder) ReverseGeocode(_ context.Context, _, _ float64) ([]geocode.Result, error) {
	s.calls++
	return nil, nil
}

func testLogger() *logger.Logger {
	return logger.New("test")
}
