package coverage

import (
	"context"
	"reflect"
	"strings"
	"testing"
	"time"

	"coverage_backend/platform/logger"
)

func newTestService(transport Transport, clock *time.Time) (*Service, *MemoryCache) {
	now := func() time.Time { return *clock }
	cache := NewMemoryCache(now)

	svc := NewService(transport, cache, 5*time.Minute, time.Second, logger.New("production"))
	svc.now = now

	return svc, cache
}

func featuresWithoutSignal() (RawResponse, error) {
	return jsonResponse(`{"features":[{"properties":{"name":"site-a"}}]}`), nil
}

func TestCheckCoverage_OutOfBounds(t *testing.T) {
	transport := &fakeTransport{
		respond: func(req Request) (RawResponse, error) {
			return featuresWithoutSignal()
		},
	}
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc, _ := newTestService(transport, &clock)

	result := svc.CheckCoverage(context.Background(), 0, 0, "")

	if result.Success {
		t.Fatal("out-of-bounds lookup must not succeed")
	}
	if result.Province != "Unknown" {
		t.Fatalf("expected province Unknown, got %q", result.Province)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected exactly one validation error, got %d", len(result.Errors))
	}
	if result.Errors[0].Endpoint != "validation" || result.Errors[0].Error != ErrOutsideCountry {
		t.Fatalf("unexpected error entry: %+v", result.Errors[0])
	}
	if transport.callCount() != 0 {
		t.Fatalf("bounds gate must run before any transport call, got %d calls", transport.callCount())
	}
}

func TestCheckCoverage_EndToEndJohannesburg(t *testing.T) {
	transport := &fakeTransport{
		respond: func(req Request) (RawResponse, error) {
			return featuresWithoutSignal()
		},
	}
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc, _ := newTestService(transport, &clock)

	result := svc.CheckCoverage(context.Background(), -26.2041, 28.0473, "Johannesburg")

	if !result.Success {
		t.Fatalf("expected success, errors: %+v", result.Errors)
	}
	if result.Province != "Gauteng" {
		t.Fatalf("expected province Gauteng, got %q", result.Province)
	}
	if len(result.Errors) != 0 {
		t.Fatalf("expected no errors, got %+v", result.Errors)
	}

	source, ok := result.Sources[SourceWMS]
	if !ok {
		t.Fatalf("expected a wms source entry, got %v", result.Sources)
	}
	if len(source.Observations) != 8 {
		t.Fatalf("expected 8 observations, got %d", len(source.Observations))
	}

	for _, obs := range source.Observations {
		if !obs.Available {
			t.Fatalf("%s: expected available", obs.Technology)
		}
		if obs.Quality != defaultQualityFor(obs.Technology) {
			t.Fatalf("%s: expected default quality %d, got %d", obs.Technology, defaultQualityFor(obs.Technology), obs.Quality)
		}
	}
}

func TestCheckCoverage_PartialSuccess(t *testing.T) {
	transport := &fakeTransport{
		respond: func(req Request) (RawResponse, error) {
			if req.Technology.ID == "2G" {
				return RawResponse{}, &TransportError{Kind: ErrKindStatus, Status: 502}
			}
			return featuresWithoutSignal()
		},
	}
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc, _ := newTestService(transport, &clock)

	result := svc.CheckCoverage(context.Background(), -26.2041, 28.0473, "")

	if !result.Success {
		t.Fatal("one failing technology must not fail the lookup")
	}
	if len(result.Sources[SourceWMS].Observations) != 7 {
		t.Fatalf("expected 7 observations, got %d", len(result.Sources[SourceWMS].Observations))
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected one error entry, got %+v", result.Errors)
	}
	if !strings.Contains(result.Errors[0].Endpoint, "2G") {
		t.Fatalf("error entry must reference the failed technology: %+v", result.Errors[0])
	}
}

func TestCheckCoverage_CacheHitAndExpiry(t *testing.T) {
	transport := &fakeTransport{
		respond: func(req Request) (RawResponse, error) {
			return featuresWithoutSignal()
		},
	}
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc, _ := newTestService(transport, &clock)

	first := svc.CheckCoverage(context.Background(), -26.2041, 28.0473, "")
	callsAfterFirst := transport.callCount()
	if callsAfterFirst != 8 {
		t.Fatalf("expected 8 transport calls on first lookup, got %d", callsAfterFirst)
	}

	// Minor float jitter must land on the same rounded key.
	clock = clock.Add(time.Minute)
	second := svc.CheckCoverage(context.Background(), -26.20412, 28.04731, "")
	if transport.callCount() != callsAfterFirst {
		t.Fatalf("expected a cache hit, transport calls grew to %d", transport.callCount())
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("cached result must be identical:\nfirst:  %+v\nsecond: %+v", first, second)
	}

	// Past the TTL the entry is evicted and the lookup re-issues queries.
	clock = clock.Add(10 * time.Minute)
	third := svc.CheckCoverage(context.Background(), -26.2041, 28.0473, "")
	if transport.callCount() != callsAfterFirst+8 {
		t.Fatalf("expected fresh transport calls after expiry, got %d total", transport.callCount())
	}
	if third.Timestamp.Equal(first.Timestamp) {
		t.Fatal("expected a freshly computed result after expiry")
	}
}

func TestCheckCoverage_FailedLookupsAreNotCached(t *testing.T) {
	transport := &fakeTransport{
		respond: func(req Request) (RawResponse, error) {
			return RawResponse{}, &TransportError{Kind: ErrKindNetwork}
		},
	}
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc, _ := newTestService(transport, &clock)

	first := svc.CheckCoverage(context.Background(), -26.2041, 28.0473, "")
	if first.Success {
		t.Fatal("expected total failure")
	}
	// Primary tier plus all three fallback tiers, 8 technologies each.
	if transport.callCount() != 32 {
		t.Fatalf("expected 32 transport calls, got %d", transport.callCount())
	}
	if len(first.Errors) != 32 {
		t.Fatalf("every attempted endpoint must be reported, got %d errors", len(first.Errors))
	}

	svc.CheckCoverage(context.Background(), -26.2041, 28.0473, "")
	if transport.callCount() != 64 {
		t.Fatalf("failed lookups must recompute, got %d calls", transport.callCount())
	}
}

func TestCheckCoverage_FallbackTier(t *testing.T) {
	transport := &fakeTransport{
		respond: func(req Request) (RawResponse, error) {
			switch req.Type {
			case QueryWMS:
				// Uninterpretable: contributes neither observation nor error.
				return jsonResponse(`{"oops":`), nil
			case QueryPublic:
				return featuresWithoutSignal()
			default:
				return RawResponse{}, &TransportError{Kind: ErrKindStatus, Status: 500}
			}
		},
	}
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc, _ := newTestService(transport, &clock)

	result := svc.CheckCoverage(context.Background(), -26.2041, 28.0473, "")

	if !result.Success {
		t.Fatal("fallback tier data must make the lookup succeed")
	}
	if _, ok := result.Sources[SourceWMS]; ok {
		t.Fatal("a tier with zero observations must not appear as a source")
	}
	if _, ok := result.Sources[SourcePublic]; !ok {
		t.Fatalf("expected the public source, got %v", result.Sources)
	}
	// Point and feature-info attempts failed and must be reported.
	if len(result.Errors) != 16 {
		t.Fatalf("expected 16 error entries from the failed tiers, got %d", len(result.Errors))
	}
}

func TestCheckCoverage_SuccessWrittenThroughOnce(t *testing.T) {
	transport := &fakeTransport{
		respond: func(req Request) (RawResponse, error) {
			return featuresWithoutSignal()
		},
	}
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc, cache := newTestService(transport, &clock)

	svc.CheckCoverage(context.Background(), -26.2041, 28.0473, "")

	if _, ok := cache.Get(context.Background(), cacheKey(-26.2041, 28.0473)); !ok {
		t.Fatal("successful results must be written through to the cache")
	}
}
