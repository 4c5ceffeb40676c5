package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cookiespots_backend/platform/logger"
)

type geocoderCfg struct{ key string }

func (c geocoderCfg) GetGoogleAPIKey() string           { return c.key }
func (c geocoderCfg) GetOutboundTimeout() time.Duration { return 5 * time.Second }

func TestGeocode_ParsesResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("address"); got != "Chelsea, New York" {
			t.Errorf("unexpected address param %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": "OK",
			"results": [{
				"formatted_address": "Chelsea, New York, NY, USA",
				"geometry": {
					"location": {"lat": 40.7465, "lng": -74.0014},
					"viewport": {
						"northeast": {"lat": 40.7551, "lng": -73.9924},
						"southwest": {"lat": 40.7379, "lng": -74.0104}
					}
				},
				"address_components": [
					{"long_name": "10011", "short_name": "10011", "types": ["postal_code"]}
				],
				"types": ["neighborhood", "political"]
			}]
		}`))
	}))
	defer server.Close()

	client := NewGoogle(geocoderCfg{key: "key"}, logger.New("test"))
	client.SetBaseURL(server.URL)

	results, err := client.Geocode(context.Background(), "Chelsea, New York")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}

	r := results[0]
	if r.PostalCode() != "10011" {
		t.Fatalf("expected postal code 10011, got %q", r.PostalCode())
	}
	if !r.IsNeighborhood() {
		t.Fatal("expected neighborhood type detection")
	}
	if r.Geometry.Viewport == nil || r.Geometry.Viewport.Northeast.Lat != 40.7551 {
		t.Fatalf("viewport not parsed: %+v", r.Geometry.Viewport)
	}
}

func TestGeocode_ZeroResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": "ZERO_RESULTS", "results": []}`))
	}))
	defer server.Close()

	client := NewGoogle(geocoderCfg{key: "key"}, logger.New("test"))
	client.SetBaseURL(server.URL)

	results, err := client.Geocode(context.Background(), "Nowhere, XX")
	if err != nil {
		t.Fatalf("ZERO_RESULTS must not be an error, got %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no results, got %d", len(results))
	}
}

func TestGeocode_MissingKeyDegradesToEmpty(t *testing.T) {
	client := NewGoogle(geocoderCfg{}, logger.New("test"))

	results, err := client.Geocode(context.Background(), "10001")
	if err != nil || len(results) != 0 {
		t.Fatalf("missing key must degrade to zero results, got %d results, err %v", len(results), err)
	}
}

func TestReverseGeocode_RejectedStatusIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("latlng"); got == "" {
			t.Error("expected latlng param")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": "REQUEST_DENIED", "error_message": "bad key"}`))
	}))
	defer server.Close()

	client := NewGoogle(geocoderCfg{key: "key"}, logger.New("test"))
	client.SetBaseURL(server.URL)

	if _, err := client.ReverseGeocode(context.Background(), 40.74, -74.0); err == nil {
		t.Fatal("expected error for rejected request")
	}
}
