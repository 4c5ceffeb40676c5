// Package venues defines the normalized venue candidate model shared by all
// place-search provider adapters, plus the deduplication pass that collapses
// overlapping results.
package venues

// Source identifies the external provider a candidate came from.
type Source string

const (
	SourceGoogle   Source = "google"
	SourceYelp     Source = "yelp"
	SourceFacebook Source = "facebook"
)

// Weekdays lists the canonical keys of the hours-of-operation map, in order.
var Weekdays = []string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

// GeoPoint is a GeoJSON-style point. Coordinates are [longitude, latitude],
// matching the ordering the downstream geospatial index expects.
type GeoPoint struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// NewGeoPoint builds a point from a latitude/longitude pair.
func NewGeoPoint(lat, lng float64) GeoPoint {
	return GeoPoint{
		Type:        "Point",
		Coordinates: []float64{lng, lat},
	}
}

// Candidate is a normalized place record from one provider, pre-deduplication.
type Candidate struct {
	Name          string `json:"name"`
	Address       string `json:"address"`
	City          string `json:"city"`
	StateProvince string `json:"state_province"`
	Country       string `json:"country"`
	PostalCode    string `json:"postal_code"`

	Location GeoPoint `json:"location"`

	Phone            string            `json:"phone,omitempty"`
	Website          string            `json:"website,omitempty"`
	HoursOfOperation map[string]string `json:"hours_of_operation,omitempty"`
	PriceRange       string            `json:"price_range,omitempty"`

	Source   Source `json:"source"`
	SourceID string `json:"source_id"`

	HasDineIn              bool `json:"has_dine_in"`
	HasTakeout             bool `json:"has_takeout"`
	HasDelivery            bool `json:"has_delivery"`
	IsWheelchairAccessible bool `json:"is_wheelchair_accessible"`
	AcceptsCreditCards     bool `json:"accepts_credit_cards"`

	Features []string `json:"features,omitempty"`

	AverageRating *float64 `json:"average_rating,omitempty"`
	ReviewCount   *int     `json:"review_count,omitempty"`
}

// NewCandidate returns a candidate with the default capability flags applied.
// Providers rarely expose these directly, so adapters start from this policy
// and override only what the provider actually reports.
func NewCandidate(source Source, sourceID string) Candidate {
	return Candidate{
		Source:                 source,
		SourceID:               sourceID,
		HasDineIn:              true,
		HasTakeout:             true,
		HasDelivery:            false,
		IsWheelchairAccessible: true,
		AcceptsCreditCards:     true,
	}
}

// PriceRangeFromLevel maps an integer price level (1-4) to the $-repeated
// convention. Levels outside the range are clamped; zero yields no price.
func PriceRangeFromLevel(level int) string {
	if level <= 0 {
		return ""
	}
	if level > 4 {
		level = 4
	}
	out := ""
	for i := 0; i < level; i++ {
		out += "$"
	}
	return out
}
