// Package resolver turns a free-text location or a coordinate pair into a
// bounded, ordered set of postal codes for the aggregator to fan out over.
//
// Resolution is an ordered list of rules tried in sequence. Each rule returns
// "no answer" rather than failing; the final static-defaults rule always
// answers. Only the caller supplying neither text nor coordinates is an error.
package resolver

import (
	"context"
	"regexp"

	"cookiespots_backend/internal/geocode"
	"cookiespots_backend/platform/apperr"
	"cookiespots_backend/platform/config"
	"cookiespots_backend/platform/logger"
)

// Query is one resolution request. Exactly one of Text or the coordinate
// pair is expected; when both are present, coordinates win.
type Query struct {
	Text string
	Lat  *float64
	Lng  *float64
}

// HasCoordinates reports whether both coordinates are present.
func (q Query) HasCoordinates() bool {
	return q.Lat != nil && q.Lng != nil
}

var zipPattern = regexp.MustCompile(`^\d{5}$`)

// Resolver resolves queries to postal code sets.
type Resolver struct {
	geocoder geocode.Client
	log      *logger.Logger
	maxCodes int
}

// New creates a resolver bounded by the configured maximum postal-code count.
func New(geocoder geocode.Client, cfg config.SearchConfig, log *logger.Logger) *Resolver {
	return &Resolver{
		geocoder: geocoder,
		log:      log,
		maxCodes: cfg.GetMaxPostalCodes(),
	}
}

// Resolve runs the rule chain and returns a duplicate-free, ordered postal
// code set truncated to the configured maximum.
func (r *Resolver) Resolve(ctx context.Context, q Query) ([]string, error) {
	if !q.HasCoordinates() && q.Text == "" {
		return nil, apperr.BadRequest("either a location or lat/lng coordinates are required").WithOp("resolver.Resolve")
	}

	if q.HasCoordinates() {
		if codes := r.fromCoordinates(ctx, *q.Lat, *q.Lng); len(codes) > 0 {
			return r.truncate(codes), nil
		}
		r.log.ResolverFallback("coordinates", q.Text)
	}

	if q.Text != "" {
		if zipPattern.MatchString(q.Text) {
			return []string{q.Text}, nil
		}

		if codes := r.fromNeighborhood(ctx, q.Text); len(codes) > 0 {
			return r.truncate(codes), nil
		}
		r.log.ResolverFallback("neighborhood_expansion", q.Text)

		if codes := r.fromForwardGeocode(ctx, q.Text); len(codes) > 0 {
			return r.truncate(codes), nil
		}
		r.log.ResolverFallback("forward_geocode", q.Text)
	}

	return r.truncate(defaultPostalCodes(q.Text)), nil
}

// fromCoordinates reverse-geocodes the point and takes the first result's
// postal code component.
func (r *Resolver) fromCoordinates(ctx context.Context, lat, lng float64) []string {
	results, err := r.geocoder.ReverseGeocode(ctx, lat, lng)
	if err != nil || len(results) == 0 {
		return nil
	}
	if code := results[0].PostalCode(); code != "" {
		return []string{code}
	}
	return nil
}

// fromForwardGeocode geocodes the text and collects the postal code from
// every returned result; a place name can match several administrative areas.
func (r *Resolver) fromForwardGeocode(ctx context.Context, text string) []string {
	results, err := r.geocoder.Geocode(ctx, text)
	if err != nil {
		return nil
	}

	codes := make([]string, 0, len(results))
	seen := make(map[string]struct{}, len(results))
	for _, result := range results {
		code := result.PostalCode()
		if code == "" {
			continue
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		codes = append(codes, code)
	}
	return codes
}

// fromNeighborhood geocodes the text to a viewport and reverse-geocodes nine
// sample points (center, corners, edge midpoints) to approximate all the
// postal codes a named neighborhood spans. Expansion runs even when the
// geocoder does not type the place as a neighborhood; a note is logged since
// the input may not be one.
func (r *Resolver) fromNeighborhood(ctx context.Context, text string) []string {
	results, err := r.geocoder.Geocode(ctx, text)
	if err != nil || len(results) == 0 {
		return nil
	}

	place := results[0]
	if place.Geometry.Viewport == nil {
		return nil
	}
	if !place.IsNeighborhood() {
		r.log.Debug("expansion input is not typed as a neighborhood", "input", text, "types", place.Types)
	}

	codes := make([]string, 0, 9)
	seen := make(map[string]struct{}, 9)
	for _, point := range samplePoints(place.Geometry.Location, *place.Geometry.Viewport) {
		pointResults, err := r.geocoder.ReverseGeocode(ctx, point.Lat, point.Lng)
		if err != nil {
			continue
		}
		code := firstPostalCode(pointResults)
		if code == "" {
			continue
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		codes = append(codes, code)
	}
	return codes
}

// samplePoints returns the center, the four viewport corners, and the four
// edge midpoints, in that order.
func samplePoints(center geocode.LatLng, vp geocode.Viewport) []geocode.LatLng {
	ne, sw := vp.Northeast, vp.Southwest
	midLat := (ne.Lat + sw.Lat) / 2
	midLng := (ne.Lng + sw.Lng) / 2

	return []geocode.LatLng{
		center,
		{Lat: ne.Lat, Lng: ne.Lng},
		{Lat: ne.Lat, Lng: sw.Lng},
		{Lat: sw.Lat, Lng: ne.Lng},
		{Lat: sw.Lat, Lng: sw.Lng},
		{Lat: ne.Lat, Lng: midLng},
		{Lat: sw.Lat, Lng: midLng},
		{Lat: midLat, Lng: ne.Lng},
		{Lat: midLat, Lng: sw.Lng},
	}
}

func firstPostalCode(results []geocode.Result) string {
	for _, result := range results {
		if code := result.PostalCode(); code != "" {
			return code
		}
	}
	return ""
}

func (r *Resolver) truncate(codes []string) []string {
	if len(codes) > r.maxCodes {
		return codes[:r.maxCodes]
	}
	return codes
}
