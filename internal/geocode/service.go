// Package geocode proxies address lookups to the geocoding provider so the
// browser never talks to it cross-origin.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"coverage_backend/platform/apperr"
	"coverage_backend/platform/config"
	"coverage_backend/platform/logger"

	"golang.org/x/time/rate"
)

// countryMarker filters geocoder matches to the service area.
const countryMarker = "South Africa"

type Service struct {
	apiURL  string
	apiKey  string
	client  *http.Client
	limiter *rate.Limiter
	log     *logger.Logger
}

func NewService(cfg config.GeocodeConfig, log *logger.Logger) *Service {
	perSec := cfg.GetGeocodeRatePerSec()
	if perSec <= 0 {
		perSec = 5
	}

	return &Service{
		apiURL:  cfg.GetGeocodeAPIURL(),
		apiKey:  cfg.GetGeocodeAPIKey(),
		client:  &http.Client{Timeout: 10 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(perSec), 1),
		log:     log,
	}
}

// Search geocodes a free-form address and returns candidates inside South
// Africa.
func (s *Service) Search(ctx context.Context, query string) ([]Candidate, error) {
	if s.apiKey == "" {
		return nil, apperr.Internal("geocoding service is not configured")
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, apperr.Wrap(apperr.KindTimeout, "geocoding request cancelled", err)
	}

	params := url.Values{}
	params.Set("address", query)
	params.Set("region", "za")
	params.Set("key", s.apiKey)

	reqURL := fmt.Sprintf("%s?%s", s.apiURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "geocoding request failed", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.log.UpstreamError("geocode", err)
		return nil, apperr.Wrap(apperr.KindUpstream, "geocoding service unavailable", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		s.log.Error("geocoding upstream error", "status", resp.StatusCode)
		return nil, apperr.Upstream("geocoding provider error", resp.StatusCode)
	}

	var payload providerResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		s.log.Error("failed to decode geocoding payload", "error", err)
		return nil, apperr.Wrap(apperr.KindUpstream, "geocoding response malformed", err)
	}

	candidates := make([]Candidate, 0, len(payload.Results))
	for _, raw := range payload.Results {
		if !strings.Contains(raw.FormattedAddress, countryMarker) {
			continue
		}
		candidates = append(candidates, Candidate{
			FormattedAddress: raw.FormattedAddress,
			Lat:              raw.Geometry.Location.Lat,
			Lng:              raw.Geometry.Location.Lng,
		})
	}

	return candidates, nil
}
