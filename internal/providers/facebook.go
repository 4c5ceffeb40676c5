package providers

import (
	"context"
	"fmt"
	"time"

	"cookiespots_backend/internal/cache"
	"cookiespots_backend/internal/geocode"
	"cookiespots_backend/internal/venues"
	"cookiespots_backend/platform/config"
	"cookiespots_backend/platform/logger"
	"cookiespots_backend/platform/phone"

	"github.com/go-resty/resty/v2"
)

const (
	facebookBaseURL     = "https://graph.facebook.com"
	facebookAPIVersion  = "v18.0"
	facebookSearchQuery = "cookies bakery"
	facebookFields      = "id,name,location,phone,website,hours,overall_star_rating,rating_count,price_range"
)

// Facebook is the Facebook Graph adapter. A search is one geocode call to
// center the postal code plus one place search; unlike Google and Yelp there
// is no per-result details call, the search response carries everything.
type Facebook struct {
	client      *resty.Client
	accessToken string
	geocoder    geocode.Client
	store       cache.Cache
	ttl         time.Duration
	log         *logger.Logger
}

// NewFacebook creates the Facebook Graph adapter. Facebook authenticates
// with an access-token query parameter.
func NewFacebook(cfg config.ProviderConfig, geocoder geocode.Client, store cache.Cache, log *logger.Logger) *Facebook {
	client := resty.New().
		SetBaseURL(facebookBaseURL).
		SetTimeout(cfg.GetOutboundTimeout())

	return &Facebook{
		client:      client,
		accessToken: cfg.GetFacebookAccessToken(),
		geocoder:    geocoder,
		store:       store,
		ttl:         cfg.GetProviderCacheTTL(),
		log:         log,
	}
}

// SetBaseURL overrides the API endpoint. Used by tests with httptest servers.
func (f *Facebook) SetBaseURL(baseURL string) {
	f.client.SetBaseURL(baseURL)
}

// Source implements Provider.
func (f *Facebook) Source() venues.Source {
	return venues.SourceFacebook
}

type facebookSearchResponse struct {
	Data []facebookPlace `json:"data"`
}

type facebookPlace struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location struct {
		Street    string  `json:"street"`
		City      string  `json:"city"`
		State     string  `json:"state"`
		Zip       string  `json:"zip"`
		Country   string  `json:"country"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"location"`
	Phone             string            `json:"phone"`
	Website           string            `json:"website"`
	Hours             map[string]string `json:"hours"`
	OverallStarRating *float64          `json:"overall_star_rating"`
	RatingCount       *int              `json:"rating_count"`
	PriceRange        string            `json:"price_range"`
}

// FetchByPostalCode implements Provider.
func (f *Facebook) FetchByPostalCode(ctx context.Context, postalCode string) []venues.Candidate {
	key := cache.Key(venues.SourceFacebook, postalCode)
	if cached, hit, err := f.store.Get(ctx, key); err == nil && hit {
		f.log.CacheEvent("hit", key)
		return cached
	} else if err != nil {
		f.log.ProviderError("facebook", postalCode, err)
	}

	if f.accessToken == "" {
		f.log.ProviderUnconfigured("facebook")
		return nil
	}

	center, ok := f.centerOf(ctx, postalCode)
	if !ok {
		return nil
	}

	places, err := f.search(ctx, center)
	if err != nil {
		f.log.ProviderError("facebook", postalCode, err)
		return nil
	}

	candidates := make([]venues.Candidate, 0, len(places))
	for _, place := range places {
		candidates = append(candidates, f.normalize(place, postalCode))
	}

	if err := f.store.Set(ctx, key, candidates, f.ttl); err != nil {
		f.log.ProviderError("facebook", postalCode, err)
	} else {
		f.log.CacheEvent("populate", key)
	}

	return candidates
}

func (f *Facebook) centerOf(ctx context.Context, postalCode string) (geocode.LatLng, bool) {
	results, err := f.geocoder.Geocode(ctx, postalCode)
	if err != nil {
		f.log.ProviderError("facebook", postalCode, err)
		return geocode.LatLng{}, false
	}
	if len(results) == 0 {
		return geocode.LatLng{}, false
	}
	return results[0].Geometry.Location, true
}

func (f *Facebook) search(ctx context.Context, center geocode.LatLng) ([]facebookPlace, error) {
	var payload facebookSearchResponse
	resp, err := f.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"type":         "place",
			"q":            facebookSearchQuery,
			"center":       fmt.Sprintf("%f,%f", center.Lat, center.Lng),
			"fields":       facebookFields,
			"access_token": f.accessToken,
		}).
		SetResult(&payload).
		Get("/" + facebookAPIVersion + "/search")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("place search status %d", resp.StatusCode())
	}
	return payload.Data, nil
}

func (f *Facebook) normalize(place facebookPlace, postalCode string) venues.Candidate {
	candidate := venues.NewCandidate(venues.SourceFacebook, place.ID)
	candidate.Name = place.Name
	candidate.Address = place.Location.Street
	candidate.City = place.Location.City
	candidate.StateProvince = place.Location.State
	candidate.Country = place.Location.Country
	candidate.PostalCode = place.Location.Zip
	if candidate.PostalCode == "" {
		candidate.PostalCode = postalCode
	}
	candidate.Location = venues.NewGeoPoint(place.Location.Latitude, place.Location.Longitude)
	candidate.Phone = phone.NormalizeE164(place.Phone)
	candidate.Website = place.Website
	candidate.HoursOfOperation = hoursFromFacebookMap(place.Hours)
	candidate.PriceRange = priceRangeFromDollars(place.PriceRange)
	candidate.AverageRating = place.OverallStarRating
	candidate.ReviewCount = place.RatingCount
	candidate.Features = []string{"Facebook Verified"}

	return candidate
}
