// Package geocode provides forward and reverse geocoding against the Google
// Geocoding API. The resolver depends on the Client interface so tests can
// substitute fakes.
package geocode

import "context"

// LatLng is a coordinate pair as the geocoding API returns it.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Viewport is the recommended bounding box for displaying a result.
type Viewport struct {
	Northeast LatLng `json:"northeast"`
	Southwest LatLng `json:"southwest"`
}

// Geometry holds the location and optional viewport of a result.
type Geometry struct {
	Location LatLng    `json:"location"`
	Viewport *Viewport `json:"viewport,omitempty"`
}

// AddressComponent is one structured part of a geocoded address.
type AddressComponent struct {
	LongName  string   `json:"long_name"`
	ShortName string   `json:"short_name"`
	Types     []string `json:"types"`
}

// Result is one geocoding match.
type Result struct {
	FormattedAddress  string             `json:"formatted_address"`
	Geometry          Geometry           `json:"geometry"`
	AddressComponents []AddressComponent `json:"address_components"`
	Types             []string           `json:"types"`
}

// PostalCode extracts the first postal_code component, or "".
func (r Result) PostalCode() string {
	for _, component := range r.AddressComponents {
		for _, t := range component.Types {
			if t == "postal_code" {
				return component.LongName
			}
		}
	}
	return ""
}

// neighborhoodTypes are the place types that mark a result as a named
// neighborhood rather than a single address.
var neighborhoodTypes = map[string]struct{}{
	"neighborhood":        {},
	"sublocality":         {},
	"sublocality_level_1": {},
	"colloquial_area":     {},
}

// IsNeighborhood reports whether the result's type set includes a
// neighborhood or sublocality marker.
func (r Result) IsNeighborhood() bool {
	for _, t := range r.Types {
		if _, ok := neighborhoodTypes[t]; ok {
			return true
		}
	}
	return false
}

// Client is the geocoding contract the resolver depends on.
type Client interface {
	// Geocode resolves a free-text address to zero or more results.
	Geocode(ctx context.Context, address string) ([]Result, error)
	// ReverseGeocode resolves a coordinate pair to zero or more results.
	ReverseGeocode(ctx context.Context, lat, lng float64) ([]Result, error)
}
