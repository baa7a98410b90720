package coverage

import (
	"context"
	"fmt"
	"time"

	"coverage_backend/internal/geo"
	"coverage_backend/platform/logger"

	"golang.org/x/sync/singleflight"
)

// Source names under which observation sets are merged. Sources never
// overwrite each other.
const (
	SourceWMS         = "wms"
	SourcePublic      = "public"
	SourcePoint       = "point"
	SourceFeatureInfo = "featureinfo"
)

// ErrOutsideCountry is the message reported when a query point fails the
// country bounds gate.
const ErrOutsideCountry = "Coordinates are outside South Africa"

// fallbackTiers are the alternate sources attempted, in order, when the
// primary WMS tier yields zero observations.
var fallbackTiers = []struct {
	queryType QueryType
	source    string
}{
	{QueryPublic, SourcePublic},
	{QueryPoint, SourcePoint},
	{QueryFeatureInfo, SourceFeatureInfo},
}

// Service is the coverage lookup entry point consumed by the HTTP layer.
type Service struct {
	log    *logger.Logger
	client *Client
	cache  Cache
	ttl    time.Duration
	now    func() time.Time
	group  singleflight.Group
}

// NewService wires the lookup pipeline: bounds gate, cache, fan-out,
// interpretation and aggregation.
func NewService(transport Transport, cache Cache, ttl time.Duration, timeout time.Duration, log *logger.Logger) *Service {
	if ttl == 0 {
		ttl = 5 * time.Minute
	}
	return &Service{
		log:    log,
		client: NewClient(transport, timeout),
		cache:  cache,
		ttl:    ttl,
		now:    time.Now,
	}
}

// CheckCoverage resolves the unified coverage result for a coordinate. It
// never returns an error for domain failures: out-of-bounds points, upstream
// outages and total failures all produce a well-formed negative Result.
func (s *Service) CheckCoverage(ctx context.Context, lat, lng float64, address string) Result {
	p := geo.Point{Lat: lat, Lng: lng}

	// Bounds gate runs before any network activity.
	if !geo.InSouthAfrica(p) {
		return Result{
			Coordinates: Coordinates{Latitude: lat, Longitude: lng},
			Address:     address,
			Province:    geo.Province(p),
			Timestamp:   s.now(),
			Sources:     map[string]SourceCoverage{},
			Errors: []EndpointError{
				{Endpoint: "validation", Error: ErrOutsideCountry},
			},
			Success: false,
		}
	}

	key := cacheKey(lat, lng)
	if cached, ok := s.cache.Get(ctx, key); ok {
		return cached
	}

	// Concurrent identical queries collapse onto one in-flight lookup.
	v, _, _ := s.group.Do(key, func() (interface{}, error) {
		if cached, ok := s.cache.Get(ctx, key); ok {
			return cached, nil
		}

		result := s.lookup(ctx, p, address)
		if result.Success {
			// Only successful results are cached; failures recompute.
			s.cache.Put(ctx, key, result, s.ttl)
		}
		return result, nil
	})

	return v.(Result)
}

// cacheKey rounds to 4 decimal places (~11 m) so repeated UI selections of
// "the same" point share an entry.
func cacheKey(lat, lng float64) string {
	return fmt.Sprintf("%.4f,%.4f", lat, lng)
}

func (s *Service) lookup(ctx context.Context, p geo.Point, address string) Result {
	descs := All()
	sources := make(map[string]SourceCoverage)
	errs := []EndpointError{}

	observations, tierErrs := s.queryTier(ctx, p, descs, QueryWMS, SourceWMS)
	errs = append(errs, tierErrs...)
	if len(observations) > 0 {
		sources[SourceWMS] = newSourceCoverage(SourceWMS, observations)
	} else {
		// Fallback tier: attempted only when the primary source produced
		// nothing, each endpoint independently, merged under its own name.
		for _, tier := range fallbackTiers {
			fallbackObs, fallbackErrs := s.queryTier(ctx, p, descs, tier.queryType, tier.source)
			errs = append(errs, fallbackErrs...)
			if len(fallbackObs) > 0 {
				sources[tier.source] = newSourceCoverage(tier.source, fallbackObs)
			}
		}
	}

	return Result{
		Coordinates: Coordinates{Latitude: p.Lat, Longitude: p.Lng},
		Address:     address,
		Province:    geo.Province(p),
		Timestamp:   s.now(),
		Sources:     sources,
		Errors:      errs,
		Success:     len(sources) > 0,
	}
}

// queryTier settles one fan-out against a single endpoint type and converts
// the outcomes: failed queries become error entries, interpretable responses
// become observations, uninterpretable ones become neither.
func (s *Service) queryTier(ctx context.Context, p geo.Point, descs []Descriptor, qt QueryType, source string) ([]Observation, []EndpointError) {
	results := s.client.QueryAll(ctx, p, descs, qt)

	var observations []Observation
	var errs []EndpointError

	for _, r := range results {
		endpoint := source + "/" + r.Technology

		if r.Err != nil {
			s.log.WithContext(ctx).UpstreamError(endpoint, r.Err)
			errs = append(errs, EndpointError{Endpoint: endpoint, Error: r.Err.Error()})
			continue
		}

		if obs, ok := Interpret(r.Response, r.Technology, s.log); ok {
			observations = append(observations, obs)
		}
	}

	return observations, errs
}

func newSourceCoverage(source string, observations []Observation) SourceCoverage {
	available := false
	for _, o := range observations {
		if o.Available {
			available = true
			break
		}
	}

	return SourceCoverage{
		Source:       source,
		Available:    available,
		Observations: observations,
	}
}
