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
	googlePlacesBaseURL = "https://maps.googleapis.com"
	googleSearchKeyword = "cookies bakery dessert"
	googleSearchRadiusM = "2000"
)

// Google is the Google Places adapter. A search is one geocode call to center
// the postal code, one nearby search, and one details call per result to
// enrich phone, website, and opening hours.
type Google struct {
	client   *resty.Client
	apiKey   string
	geocoder geocode.Client
	store    cache.Cache
	ttl      time.Duration
	log      *logger.Logger
}

// NewGoogle creates the Google Places adapter.
func NewGoogle(cfg config.ProviderConfig, geocoder geocode.Client, store cache.Cache, log *logger.Logger) *Google {
	client := resty.New().
		SetBaseURL(googlePlacesBaseURL).
		SetTimeout(cfg.GetOutboundTimeout())

	return &Google{
		client:   client,
		apiKey:   cfg.GetGoogleAPIKey(),
		geocoder: geocoder,
		store:    store,
		ttl:      cfg.GetProviderCacheTTL(),
		log:      log,
	}
}

// SetBaseURL overrides the API endpoint. Used by tests with httptest servers.
func (g *Google) SetBaseURL(baseURL string) {
	g.client.SetBaseURL(baseURL)
}

// Source implements Provider.
func (g *Google) Source() venues.Source {
	return venues.SourceGoogle
}

type googleNearbyResponse struct {
	Status  string        `json:"status"`
	Results []googlePlace `json:"results"`
}

type googlePlace struct {
	PlaceID  string `json:"place_id"`
	Name     string `json:"name"`
	Vicinity string `json:"vicinity"`
	Geometry struct {
		Location geocode.LatLng `json:"location"`
	} `json:"geometry"`
	PriceLevel       int      `json:"price_level"`
	Rating           *float64 `json:"rating"`
	UserRatingsTotal *int     `json:"user_ratings_total"`
}

type googleDetailsResponse struct {
	Status string `json:"status"`
	Result struct {
		FormattedAddress     string `json:"formatted_address"`
		FormattedPhoneNumber string `json:"formatted_phone_number"`
		Website              string `json:"website"`
		OpeningHours         struct {
			WeekdayText []string `json:"weekday_text"`
		} `json:"opening_hours"`
		AddressComponents []geocode.AddressComponent `json:"address_components"`
	} `json:"result"`
}

// FetchByPostalCode implements Provider.
func (g *Google) FetchByPostalCode(ctx context.Context, postalCode string) []venues.Candidate {
	key := cache.Key(venues.SourceGoogle, postalCode)
	if cached, hit, err := g.store.Get(ctx, key); err == nil && hit {
		g.log.CacheEvent("hit", key)
		return cached
	} else if err != nil {
		g.log.ProviderError("google", postalCode, err)
	}

	if g.apiKey == "" {
		g.log.ProviderUnconfigured("google")
		return nil
	}

	center, ok := g.centerOf(ctx, postalCode)
	if !ok {
		return nil
	}

	places, err := g.nearbySearch(ctx, center)
	if err != nil {
		g.log.ProviderError("google", postalCode, err)
		return nil
	}

	candidates := make([]venues.Candidate, 0, len(places))
	for _, place := range places {
		candidates = append(candidates, g.normalize(ctx, place, postalCode))
	}

	if err := g.store.Set(ctx, key, candidates, g.ttl); err != nil {
		g.log.ProviderError("google", postalCode, err)
	} else {
		g.log.CacheEvent("populate", key)
	}

	return candidates
}

func (g *Google) centerOf(ctx context.Context, postalCode string) (geocode.LatLng, bool) {
	results, err := g.geocoder.Geocode(ctx, postalCode)
	if err != nil {
		g.log.ProviderError("google", postalCode, err)
		return geocode.LatLng{}, false
	}
	if len(results) == 0 {
		return geocode.LatLng{}, false
	}
	return results[0].Geometry.Location, true
}

func (g *Google) nearbySearch(ctx context.Context, center geocode.LatLng) ([]googlePlace, error) {
	var payload googleNearbyResponse
	resp, err := g.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"location": fmt.Sprintf("%f,%f", center.Lat, center.Lng),
			"radius":   googleSearchRadiusM,
			"keyword":  googleSearchKeyword,
			"key":      g.apiKey,
		}).
		SetResult(&payload).
		Get("/maps/api/place/nearbysearch/json")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("nearby search status %d", resp.StatusCode())
	}
	if payload.Status != "OK" && payload.Status != "ZERO_RESULTS" {
		return nil, fmt.Errorf("nearby search status %s", payload.Status)
	}
	return payload.Results, nil
}

func (g *Google) normalize(ctx context.Context, place googlePlace, postalCode string) venues.Candidate {
	candidate := venues.NewCandidate(venues.SourceGoogle, place.PlaceID)
	candidate.Name = place.Name
	candidate.Address = place.Vicinity
	candidate.PostalCode = postalCode
	candidate.Country = "USA"
	candidate.Location = venues.NewGeoPoint(place.Geometry.Location.Lat, place.Geometry.Location.Lng)
	candidate.PriceRange = venues.PriceRangeFromLevel(place.PriceLevel)
	candidate.AverageRating = place.Rating
	candidate.ReviewCount = place.UserRatingsTotal
	candidate.Features = []string{"Google Verified"}

	// Details enrichment is best-effort: a failed lookup keeps the basic
	// candidate rather than dropping it.
	details, err := g.details(ctx, place.PlaceID)
	if err != nil {
		g.log.ProviderError("google", postalCode, err)
		return candidate
	}

	if details.Result.FormattedAddress != "" {
		candidate.Address = details.Result.FormattedAddress
	}
	candidate.Phone = phone.NormalizeE164(details.Result.FormattedPhoneNumber)
	candidate.Website = details.Result.Website
	candidate.HoursOfOperation = hoursFromWeekdayText(details.Result.OpeningHours.WeekdayText)

	for _, component := range details.Result.AddressComponents {
		for _, t := range component.Types {
			switch t {
			case "locality":
				candidate.City = component.LongName
			case "administrative_area_level_1":
				candidate.StateProvince = component.ShortName
			case "country":
				candidate.Country = component.ShortName
			case "postal_code":
				candidate.PostalCode = component.LongName
			}
		}
	}

	return candidate
}

func (g *Google) details(ctx context.Context, placeID string) (*googleDetailsResponse, error) {
	var payload googleDetailsResponse
	resp, err := g.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"place_id": placeID,
			"fields":   "formatted_address,formatted_phone_number,website,opening_hours,address_components",
			"key":      g.apiKey,
		}).
		SetResult(&payload).
		Get("/maps/api/place/details/json")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("details status %d", resp.StatusCode())
	}
	if payload.Status != "OK" {
		return nil, fmt.Errorf("details status %s", payload.Status)
	}
	return &payload, nil
}
