package coverage

import (
	"encoding/json"
	"time"
)

// Strength is a coarse qualitative signal bucket.
type Strength string

const (
	StrengthLow    Strength = "low"
	StrengthMedium Strength = "medium"
	StrengthHigh   Strength = "high"
)

// Coordinates is the geographic point a result was computed for.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Observation is the normalized availability judgment for one technology
// derived from one source's response. Observations are built per query and
// discarded after aggregation.
type Observation struct {
	Technology     string          `json:"technology"`
	Available      bool            `json:"available"`
	Strength       Strength        `json:"strength,omitempty"`
	Quality        int             `json:"quality,omitempty"`
	Infrastructure string          `json:"infrastructure,omitempty"`
	Features       json.RawMessage `json:"features,omitempty"`
}

// SourceCoverage groups the observations contributed by one upstream data
// source.
type SourceCoverage struct {
	Source       string        `json:"source"`
	Available    bool          `json:"available"`
	Observations []Observation `json:"observations"`
}

// EndpointError records one endpoint's failure without aborting the lookup.
type EndpointError struct {
	Endpoint string `json:"endpoint"`
	Error    string `json:"error"`
}

// Result is the unit returned to callers and the unit cached.
//
// Success is true iff at least one source contributed coverage data. Errors
// accumulate independently of Success: a successful result may still carry
// errors from technologies that failed while others succeeded.
type Result struct {
	Coordinates Coordinates               `json:"coordinates"`
	Address     string                    `json:"address,omitempty"`
	Province    string                    `json:"province"`
	Timestamp   time.Time                 `json:"timestamp"`
	Sources     map[string]SourceCoverage `json:"coverageBySource"`
	Errors      []EndpointError           `json:"errors"`
	Success     bool                      `json:"success"`
}
