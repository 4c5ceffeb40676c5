package geocode

import (
	"context"
	"fmt"

	"cookiespots_backend/platform/config"
	"cookiespots_backend/platform/logger"

	"github.com/go-resty/resty/v2"
)

const googleBaseURL = "https://maps.googleapis.com"

// GoogleClient calls the Google Geocoding API.
type GoogleClient struct {
	client *resty.Client
	apiKey string
	log    *logger.Logger
}

// NewGoogle creates a geocoding client. A missing API key is not fatal:
// every call degrades to zero results and logs once per call site.
func NewGoogle(cfg config.GeocoderConfig, log *logger.Logger) *GoogleClient {
	client := resty.New().
		SetBaseURL(googleBaseURL).
		SetTimeout(cfg.GetOutboundTimeout())

	return &GoogleClient{
		client: client,
		apiKey: cfg.GetGoogleAPIKey(),
		log:    log,
	}
}

// SetBaseURL overrides the API endpoint. Used by tests with httptest servers.
func (g *GoogleClient) SetBaseURL(baseURL string) {
	g.client.SetBaseURL(baseURL)
}

type geocodeResponse struct {
	Status       string   `json:"status"`
	ErrorMessage string   `json:"error_message"`
	Results      []Result `json:"results"`
}

// Geocode implements Client.
func (g *GoogleClient) Geocode(ctx context.Context, address string) ([]Result, error) {
	return g.request(ctx, map[string]string{"address": address})
}

// ReverseGeocode implements Client.
func (g *GoogleClient) ReverseGeocode(ctx context.Context, lat, lng float64) ([]Result, error) {
	return g.request(ctx, map[string]string{"latlng": fmt.Sprintf("%f,%f", lat, lng)})
}

func (g *GoogleClient) request(ctx context.Context, params map[string]string) ([]Result, error) {
	if g.apiKey == "" {
		g.log.ProviderUnconfigured("google-geocoding")
		return nil, nil
	}

	var payload geocodeResponse
	resp, err := g.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetQueryParam("key", g.apiKey).
		SetResult(&payload).
		Get("/maps/api/geocode/json")
	if err != nil {
		g.log.Error("geocoding request failed", "error", err)
		return nil, err
	}
	if resp.IsError() {
		g.log.Error("geocoding upstream error", "status", resp.StatusCode())
		return nil, fmt.Errorf("geocoding upstream error: %d", resp.StatusCode())
	}

	switch payload.Status {
	case "OK":
		return payload.Results, nil
	case "ZERO_RESULTS":
		return nil, nil
	default:
		g.log.Error("geocoding rejected request", "status", payload.Status, "message", payload.ErrorMessage)
		return nil, fmt.Errorf("geocoding status %s", payload.Status)
	}
}
