package coverage

import (
	"context"
	"sync"
	"testing"
	"time"

	"coverage_backend/internal/geo"
)

// fakeTransport scripts per-request outcomes and counts calls. It is shared
// by the client, service and handler tests.
type fakeTransport struct {
	mu      sync.Mutex
	calls   int
	respond func(req Request) (RawResponse, error)
}

func (f *fakeTransport) Query(ctx context.Context, req Request) (RawResponse, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return RawResponse{}, &TransportError{Kind: ErrKindTimeout, Err: err}
	}
	return f.respond(req)
}

func (f *fakeTransport) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

var johannesburg = geo.Point{Lat: -26.2041, Lng: 28.0473}

func TestQueryAll_SettlesEveryTechnology(t *testing.T) {
	transport := &fakeTransport{
		respond: func(req Request) (RawResponse, error) {
			if req.Technology.ID == "2G" {
				return RawResponse{}, &TransportError{Kind: ErrKindStatus, Status: 503}
			}
			return jsonResponse(`{"features":[{"properties":{"signal":80}}]}`), nil
		},
	}

	client := NewClient(transport, time.Second)
	results := client.QueryAll(context.Background(), johannesburg, All(), QueryWMS)

	if len(results) != 8 {
		t.Fatalf("expected one settled result per technology, got %d", len(results))
	}

	var failed, succeeded int
	for _, r := range results {
		if r.Err != nil {
			failed++
			if r.Technology != "2G" {
				t.Fatalf("unexpected failure for %s: %v", r.Technology, r.Err)
			}
		} else {
			succeeded++
		}
	}

	if failed != 1 || succeeded != 7 {
		t.Fatalf("expected 1 failure and 7 successes, got %d and %d", failed, succeeded)
	}
}

func TestQueryAll_PreservesDescriptorOrder(t *testing.T) {
	transport := &fakeTransport{
		respond: func(req Request) (RawResponse, error) {
			return jsonResponse(`{"features":[]}`), nil
		},
	}

	client := NewClient(transport, time.Second)
	descs := All()
	results := client.QueryAll(context.Background(), johannesburg, descs, QueryWMS)

	for i, r := range results {
		if r.Technology != descs[i].ID {
			t.Fatalf("result %d: expected %s, got %s", i, descs[i].ID, r.Technology)
		}
	}
}

func TestQueryAll_SlowTechnologyDoesNotBlockOthers(t *testing.T) {
	transport := &blockingTransport{
		blockTech: "3G",
		inner: &fakeTransport{
			respond: func(req Request) (RawResponse, error) {
				return jsonResponse(`{"features":[{"properties":{"signal":80}}]}`), nil
			},
		},
	}

	client := NewClient(transport, 50*time.Millisecond)
	results := client.QueryAll(context.Background(), johannesburg, All(), QueryWMS)

	for _, r := range results {
		if r.Technology == "3G" {
			if r.Err == nil {
				t.Fatal("expected the blocked technology to time out")
			}
			continue
		}
		if r.Err != nil {
			t.Fatalf("sibling %s must not be affected: %v", r.Technology, r.Err)
		}
	}
}

// blockingTransport stalls one technology until its context expires.
type blockingTransport struct {
	blockTech string
	inner     *fakeTransport
}

func (b *blockingTransport) Query(ctx context.Context, req Request) (RawResponse, error) {
	if req.Technology.ID == b.blockTech {
		<-ctx.Done()
		return RawResponse{}, &TransportError{Kind: ErrKindTimeout, Err: ctx.Err()}
	}
	return b.inner.Query(ctx, req)
}
