package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"cookiespots_backend/internal/cache"
	"cookiespots_backend/internal/venues"
)

func newYelpTestServer(t *testing.T, hits *int64) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v3/businesses/search", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(hits, 1)
		if got := r.Header.Get("Authorization"); got != "Bearer yelp-key" {
			t.Errorf("expected bearer auth, got %q", got)
		}
		if got := r.URL.Query().Get("location"); got != "10023" {
			t.Errorf("expected location=10023, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"businesses": [{
				"id": "y-schmackarys",
				"name": "Schmackary's",
				"location": {"address1": "362 W 45th St", "city": "New York", "state": "NY", "zip_code": "10036", "country": "US"},
				"coordinates": {"latitude": 40.7598, "longitude": -73.9906},
				"price": "$$",
				"rating": 4.5,
				"review_count": 2100,
				"phone": "+12129567100",
				"url": "https://www.yelp.com/biz/schmackarys?adjust_creative=abc"
			}]
		}`))
	})
	mux.HandleFunc("/v3/businesses/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(hits, 1)
		if !strings.HasSuffix(r.URL.Path, "y-schmackarys") {
			t.Errorf("unexpected details path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"hours": [{"open": [
				{"day": 0, "start": "0900", "end": "2100"},
				{"day": 6, "start": "1000", "end": "2200"}
			]}]
		}`))
	})
	return httptest.NewServer(mux)
}

func TestYelp_FetchNormalizes(t *testing.T) {
	var hits int64
	server := newYelpTestServer(t, &hits)
	defer server.Close()

	adapter := NewYelp(providerCfg{yelp: "yelp-key"}, cache.NewMemory(), testLogger())
	adapter.SetBaseURL(server.URL)

	got := adapter.FetchByPostalCode(context.Background(), "10023")
	if len(got) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(got))
	}

	c := got[0]
	if c.Source != venues.SourceYelp || c.SourceID != "y-schmackarys" {
		t.Fatalf("unexpected provenance %s/%s", c.Source, c.SourceID)
	}
	if c.Website != "https://www.yelp.com/biz/schmackarys" {
		t.Fatalf("expected tracking params stripped, got %q", c.Website)
	}
	if c.PostalCode != "10036" {
		t.Fatalf("business zip should win over the query zip, got %q", c.PostalCode)
	}
	if c.PriceRange != "$$" {
		t.Fatalf("unexpected price range %q", c.PriceRange)
	}
	if c.HoursOfOperation["monday"] != "9:00 AM - 9:00 PM" {
		t.Fatalf("unexpected monday hours %q", c.HoursOfOperation["monday"])
	}
	if c.HoursOfOperation["wednesday"] != "Closed" {
		t.Fatalf("expected Closed for days without slots, got %q", c.HoursOfOperation["wednesday"])
	}
	if c.AverageRating == nil || *c.AverageRating != 4.5 {
		t.Fatalf("unexpected rating %v", c.AverageRating)
	}
	if len(c.Features) != 1 || c.Features[0] != "Yelp Verified" {
		t.Fatalf("expected Yelp Verified feature, got %v", c.Features)
	}
}

func TestYelp_CacheIdempotence(t *testing.T) {
	var hits int64
	server := newYelpTestServer(t, &hits)
	defer server.Close()

	adapter := NewYelp(providerCfg{yelp: "yelp-key"}, cache.NewMemory(), testLogger())
	adapter.SetBaseURL(server.URL)

	first := adapter.FetchByPostalCode(context.Background(), "10023")
	after := atomic.LoadInt64(&hits)
	second := adapter.FetchByPostalCode(context.Background(), "10023")

	if atomic.LoadInt64(&hits) != after {
		t.Fatal("second fetch within TTL must not hit the network")
	}
	if len(first) != len(second) || first[0].SourceID != second[0].SourceID {
		t.Fatal("cached result must equal the first result")
	}
}

func TestYelp_MissingKeyIsSoftFailure(t *testing.T) {
	adapter := NewYelp(providerCfg{}, cache.NewMemory(), testLogger())

	if got := adapter.FetchByPostalCode(context.Background(), "10023"); len(got) != 0 {
		t.Fatalf("expected zero results without a key, got %d", len(got))
	}
}

func TestYelp_DetailsFailureKeepsBasicCandidate(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v3/businesses/search", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"businesses": [{"id": "y-1", "name": "Crumbl"}]}`))
	})
	mux.HandleFunc("/v3/businesses/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	adapter := NewYelp(providerCfg{yelp: "yelp-key"}, cache.NewMemory(), testLogger())
	adapter.SetBaseURL(server.URL)

	got := adapter.FetchByPostalCode(context.Background(), "10023")
	if len(got) != 1 {
		t.Fatalf("expected the basic candidate to survive, got %d", len(got))
	}
	if got[0].Name != "Crumbl" || got[0].HoursOfOperation != nil {
		t.Fatalf("expected basic candidate without hours, got %+v", got[0])
	}
}
