package coverage

import (
	"context"
	"sync"
	"time"

	"coverage_backend/internal/geo"
)

// TechResult is one technology's settled outcome: either a decoded response
// or the error that prevented one.
type TechResult struct {
	Technology string
	Response   RawResponse
	Err        error
}

// Client fans one coordinate out across technologies. All queries run
// concurrently and every outcome is captured independently; a failing or
// slow technology never aborts its siblings.
type Client struct {
	transport Transport
	timeout   time.Duration
}

// NewClient wraps a Transport with fan-out and a per-request timeout.
func NewClient(transport Transport, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Client{transport: transport, timeout: timeout}
}

// QueryAll settles one query per descriptor against the given endpoint type.
// The result slice preserves descriptor order; arrival order is not
// meaningful and callers must not depend on it.
func (c *Client) QueryAll(ctx context.Context, p geo.Point, descs []Descriptor, qt QueryType) []TechResult {
	results := make([]TechResult, len(descs))

	var wg sync.WaitGroup
	for i, d := range descs {
		wg.Add(1)
		go func(i int, d Descriptor) {
			defer wg.Done()

			qctx, cancel := context.WithTimeout(ctx, c.timeout)
			defer cancel()

			resp, err := c.transport.Query(qctx, Request{Point: p, Technology: d, Type: qt})
			results[i] = TechResult{Technology: d.ID, Response: resp, Err: err}
		}(i, d)
	}
	wg.Wait()

	return results
}
