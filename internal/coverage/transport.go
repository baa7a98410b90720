package coverage

import (
	"context"
	"encoding/json"
	"fmt"

	"coverage_backend/internal/geo"
)

// ResponseKind tags the decoded shape of an upstream response. The shape is
// decided once at the transport boundary so downstream code can match on it
// instead of sniffing bytes.
type ResponseKind int

const (
	// KindBinary is an image or other opaque payload.
	KindBinary ResponseKind = iota
	// KindJSON is a structured feature payload.
	KindJSON
	// KindText is a plain text payload.
	KindText
)

// RawResponse is the tagged union produced by the transport layer. Exactly
// one of Binary, JSON or Text is populated, per Kind.
type RawResponse struct {
	Kind        ResponseKind
	ContentType string
	Binary      []byte
	JSON        json.RawMessage
	Text        string
}

// QueryType selects which upstream endpoint a request targets.
type QueryType string

const (
	// QueryWMS renders a map tile for the technology layer (primary source).
	QueryWMS QueryType = "wms"
	// QueryPoint asks the provider's point API for coverage at a coordinate.
	QueryPoint QueryType = "point"
	// QueryPublic asks the provider's public query endpoint.
	QueryPublic QueryType = "public"
	// QueryFeatureInfo asks WMS GetFeatureInfo for the features under a pixel.
	QueryFeatureInfo QueryType = "featureinfo"
)

// ValidQueryType reports whether qt names a known upstream endpoint.
func ValidQueryType(qt QueryType) bool {
	switch qt {
	case QueryWMS, QueryPoint, QueryPublic, QueryFeatureInfo:
		return true
	}
	return false
}

// Request describes one upstream coverage query.
type Request struct {
	Point      geo.Point
	Technology Descriptor
	Type       QueryType
	// Width, Height and Format override the tile rendering defaults when set.
	Width  int
	Height int
	Format string
}

// Transport issues a single coverage query against the provider.
type Transport interface {
	Query(ctx context.Context, req Request) (RawResponse, error)
}

// TransportErrorKind classifies how an upstream query failed.
type TransportErrorKind int

const (
	// ErrKindNetwork is a connection-level failure.
	ErrKindNetwork TransportErrorKind = iota
	// ErrKindTimeout is a per-request deadline expiry.
	ErrKindTimeout
	// ErrKindStatus is an upstream non-2xx response.
	ErrKindStatus
)

// TransportError is a per-technology query failure. One technology's
// TransportError never aborts its siblings.
type TransportError struct {
	Kind   TransportErrorKind
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	switch e.Kind {
	case ErrKindTimeout:
		return "coverage query timed out"
	case ErrKindStatus:
		return fmt.Sprintf("coverage provider returned status %d", e.Status)
	default:
		if e.Err != nil {
			return fmt.Sprintf("coverage query failed: %v", e.Err)
		}
		return "coverage query failed"
	}
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
