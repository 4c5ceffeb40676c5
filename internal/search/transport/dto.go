package transport

import "cookiespots_backend/internal/venues"

type SearchRequest struct {
	Location string   `form:"location" validate:"omitempty,min=2,max=120"`
	Lat      *float64 `form:"lat" validate:"omitempty,min=-90,max=90"`
	Lng      *float64 `form:"lng" validate:"omitempty,min=-180,max=180"`
}

// ProviderStatus reports, per upstream source, whether credentials were
// configured and how many candidates it contributed to this response.
type ProviderStatus struct {
	Source     string `json:"source"`
	Configured bool   `json:"configured"`
	Count      int    `json:"count"`
}

type Metadata struct {
	Total     int              `json:"total"`
	Providers []ProviderStatus `json:"providers"`
}

type SearchResponse struct {
	Success     bool               `json:"success"`
	ZipCodes    []string           `json:"zipCodes"`
	CookieSpots []venues.Candidate `json:"cookieSpots"`
	Metadata    Metadata           `json:"metadata"`
}

type FlushResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
