package providers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cookiespots_backend/internal/cache"
	"cookiespots_backend/internal/venues"
	"cookiespots_backend/platform/config"
	"cookiespots_backend/platform/logger"
	"cookiespots_backend/platform/phone"

	"github.com/go-resty/resty/v2"
)

const (
	yelpBaseURL    = "https://api.yelp.com"
	yelpCategories = "bakeries,desserts,cookies"
	yelpSearchTerm = "cookies"
	yelpSearchMax  = "20"
)

// Yelp is the Yelp Fusion adapter. A search is one location-based business
// search (Yelp resolves the postal code server-side) plus one details call
// per business to fetch opening hours.
type Yelp struct {
	client *resty.Client
	apiKey string
	store  cache.Cache
	ttl    time.Duration
	log    *logger.Logger
}

// NewYelp creates the Yelp adapter. Yelp authenticates with a bearer token.
func NewYelp(cfg config.ProviderConfig, store cache.Cache, log *logger.Logger) *Yelp {
	client := resty.New().
		SetBaseURL(yelpBaseURL).
		SetTimeout(cfg.GetOutboundTimeout())
	if cfg.GetYelpAPIKey() != "" {
		client.SetAuthToken(cfg.GetYelpAPIKey())
	}

	return &Yelp{
		client: client,
		apiKey: cfg.GetYelpAPIKey(),
		store:  store,
		ttl:    cfg.GetProviderCacheTTL(),
		log:    log,
	}
}

// SetBaseURL overrides the API endpoint. Used by tests with httptest servers.
func (y *Yelp) SetBaseURL(baseURL string) {
	y.client.SetBaseURL(baseURL)
}

// Source implements Provider.
func (y *Yelp) Source() venues.Source {
	return venues.SourceYelp
}

type yelpSearchResponse struct {
	Businesses []yelpBusiness `json:"businesses"`
}

type yelpBusiness struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location struct {
		Address1 string `json:"address1"`
		City     string `json:"city"`
		State    string `json:"state"`
		ZipCode  string `json:"zip_code"`
		Country  string `json:"country"`
	} `json:"location"`
	Coordinates struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"coordinates"`
	Price       string   `json:"price"`
	Rating      *float64 `json:"rating"`
	ReviewCount *int     `json:"review_count"`
	Phone       string   `json:"phone"`
	URL         string   `json:"url"`
}

type yelpDetailsResponse struct {
	Hours []struct {
		Open []yelpOpenSlot `json:"open"`
	} `json:"hours"`
}

// FetchByPostalCode implements Provider.
func (y *Yelp) FetchByPostalCode(ctx context.Context, postalCode string) []venues.Candidate {
	key := cache.Key(venues.SourceYelp, postalCode)
	if cached, hit, err := y.store.Get(ctx, key); err == nil && hit {
		y.log.CacheEvent("hit", key)
		return cached
	} else if err != nil {
		y.log.ProviderError("yelp", postalCode, err)
	}

	if y.apiKey == "" {
		y.log.ProviderUnconfigured("yelp")
		return nil
	}

	businesses, err := y.search(ctx, postalCode)
	if err != nil {
		y.log.ProviderError("yelp", postalCode, err)
		return nil
	}

	candidates := make([]venues.Candidate, 0, len(businesses))
	for _, business := range businesses {
		candidates = append(candidates, y.normalize(ctx, business, postalCode))
	}

	if err := y.store.Set(ctx, key, candidates, y.ttl); err != nil {
		y.log.ProviderError("yelp", postalCode, err)
	} else {
		y.log.CacheEvent("populate", key)
	}

	return candidates
}

func (y *Yelp) search(ctx context.Context, postalCode string) ([]yelpBusiness, error) {
	var payload yelpSearchResponse
	resp, err := y.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"location":   postalCode,
			"term":       yelpSearchTerm,
			"categories": yelpCategories,
			"limit":      yelpSearchMax,
		}).
		SetResult(&payload).
		Get("/v3/businesses/search")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("business search status %d", resp.StatusCode())
	}
	return payload.Businesses, nil
}

func (y *Yelp) normalize(ctx context.Context, business yelpBusiness, postalCode string) venues.Candidate {
	candidate := venues.NewCandidate(venues.SourceYelp, business.ID)
	candidate.Name = business.Name
	candidate.Address = business.Location.Address1
	candidate.City = business.Location.City
	candidate.StateProvince = business.Location.State
	candidate.Country = business.Location.Country
	candidate.PostalCode = business.Location.ZipCode
	if candidate.PostalCode == "" {
		candidate.PostalCode = postalCode
	}
	candidate.Location = venues.NewGeoPoint(business.Coordinates.Latitude, business.Coordinates.Longitude)
	candidate.Phone = phone.NormalizeE164(business.Phone)
	candidate.Website = strings.SplitN(business.URL, "?", 2)[0]
	candidate.PriceRange = priceRangeFromDollars(business.Price)
	candidate.AverageRating = business.Rating
	candidate.ReviewCount = business.ReviewCount
	candidate.Features = []string{"Yelp Verified"}

	// Hours live behind the per-business details endpoint; enrichment
	// failures keep the basic candidate.
	if hours, err := y.hours(ctx, business.ID); err != nil {
		y.log.ProviderError("yelp", postalCode, err)
	} else {
		candidate.HoursOfOperation = hours
	}

	return candidate
}

func (y *Yelp) hours(ctx context.Context, businessID string) (map[string]string, error) {
	var payload yelpDetailsResponse
	resp, err := y.client.R().
		SetContext(ctx).
		SetResult(&payload).
		Get("/v3/businesses/" + businessID)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("business details status %d", resp.StatusCode())
	}
	if len(payload.Hours) == 0 {
		return nil, nil
	}
	return hoursFromYelpSlots(payload.Hours[0].Open), nil
}
