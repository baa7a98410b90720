package coverage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"coverage_backend/internal/geo"
	"coverage_backend/platform/config"
	"coverage_backend/platform/logger"
)

// tileBuffer is the half-width in meters of the bounding box rendered around
// the queried point.
const tileBuffer = 100.0

const (
	defaultTileSize   = 101
	defaultTileFormat = "image/png"
)

// Upstream queries the operator's map service over HTTP. It implements
// Transport.
type Upstream struct {
	baseURL string
	apiKey  string
	client  *http.Client
	log     *logger.Logger
}

// NewUpstream creates the HTTP transport for the coverage provider.
func NewUpstream(cfg config.CoverageConfig, log *logger.Logger) *Upstream {
	timeout := cfg.GetCoverageTimeout()
	if timeout == 0 {
		timeout = 15 * time.Second
	}

	return &Upstream{
		baseURL: strings.TrimRight(cfg.GetCoverageBaseURL(), "/"),
		apiKey:  cfg.GetCoverageAPIKey(),
		client:  &http.Client{Timeout: timeout},
		log:     log,
	}
}

// Query issues one coverage request and decodes the response into the tagged
// union by declared content type.
func (u *Upstream) Query(ctx context.Context, q Request) (RawResponse, error) {
	reqURL := u.buildURL(q)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return RawResponse{}, &TransportError{Kind: ErrKindNetwork, Err: err}
	}

	resp, err := u.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return RawResponse{}, &TransportError{Kind: ErrKindTimeout, Err: err}
		}
		return RawResponse{}, &TransportError{Kind: ErrKindNetwork, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		u.log.Debug("coverage provider non-2xx", "technology", q.Technology.ID, "type", string(q.Type), "status", resp.StatusCode)
		return RawResponse{}, &TransportError{Kind: ErrKindStatus, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return RawResponse{}, &TransportError{Kind: ErrKindNetwork, Err: err}
	}

	return decodeBody(resp.Header.Get("Content-Type"), body), nil
}

func (u *Upstream) buildURL(q Request) string {
	switch q.Type {
	case QueryPoint:
		return u.pointURL("/point", q)
	case QueryPublic:
		return u.pointURL("/public/query", q)
	case QueryFeatureInfo:
		return u.wmsURL(q, true)
	default:
		return u.wmsURL(q, false)
	}
}

func (u *Upstream) pointURL(path string, q Request) string {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(q.Point.Lat, 'f', 6, 64))
	params.Set("lng", strconv.FormatFloat(q.Point.Lng, 'f', 6, 64))
	params.Set("technology", q.Technology.ID)
	u.sign(params)

	return fmt.Sprintf("%s%s?%s", u.baseURL, path, params.Encode())
}

func (u *Upstream) wmsURL(q Request, featureInfo bool) string {
	width, height := q.Width, q.Height
	if width == 0 {
		width = defaultTileSize
	}
	if height == 0 {
		height = defaultTileSize
	}
	format := q.Format
	if format == "" {
		format = defaultTileFormat
	}

	box := geo.BoundingBox(q.Point, tileBuffer)

	params := url.Values{}
	params.Set("service", "WMS")
	params.Set("version", "1.1.1")
	params.Set("layers", q.Technology.LayerID)
	params.Set("styles", q.Technology.StyleID)
	params.Set("srs", "EPSG:3857")
	params.Set("bbox", fmt.Sprintf("%f,%f,%f,%f", box.MinX, box.MinY, box.MaxX, box.MaxY))
	params.Set("width", strconv.Itoa(width))
	params.Set("height", strconv.Itoa(height))
	params.Set("transparent", "true")

	if featureInfo {
		params.Set("request", "GetFeatureInfo")
		params.Set("query_layers", q.Technology.LayerID)
		params.Set("info_format", "application/json")
		// center pixel of the rendered tile
		params.Set("x", strconv.Itoa(width/2))
		params.Set("y", strconv.Itoa(height/2))
	} else {
		params.Set("request", "GetMap")
		params.Set("format", format)
	}
	u.sign(params)

	return fmt.Sprintf("%s/wms?%s", u.baseURL, params.Encode())
}

func (u *Upstream) sign(params url.Values) {
	if u.apiKey != "" {
		params.Set("key", u.apiKey)
	}
}

// decodeBody assigns the tagged response shape from the declared content
// type. Unknown content types fall back to text so the interpreter's marker
// rules still apply.
func decodeBody(contentType string, body []byte) RawResponse {
	ct := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))

	switch {
	case strings.HasPrefix(ct, "image/") || ct == "application/octet-stream":
		return RawResponse{Kind: KindBinary, ContentType: ct, Binary: body}
	case ct == "application/json" || strings.HasSuffix(ct, "+json"):
		return RawResponse{Kind: KindJSON, ContentType: ct, JSON: body}
	default:
		return RawResponse{Kind: KindText, ContentType: ct, Text: string(body)}
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return false
}
