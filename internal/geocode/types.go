package geocode

// LookupRequest represents the query parameters from the frontend.
type LookupRequest struct {
	Query string `form:"q" binding:"required,min=3"`
}

// Candidate is one geocoded match returned to the frontend.
type Candidate struct {
	FormattedAddress string  `json:"formattedAddress"`
	Lat              float64 `json:"lat"`
	Lng              float64 `json:"lng"`
}

// providerResponse mirrors the relevant parts of the geocoding API payload.
type providerResponse struct {
	Status  string           `json:"status"`
	Results []providerResult `json:"results"`
}

type providerResult struct {
	FormattedAddress string `json:"formatted_address"`
	Geometry         struct {
		Location struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"location"`
	} `json:"geometry"`
}
