package coverage

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"sync"
	"time"

	"coverage_backend/internal/geo"
	"coverage_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// proxyTimeout is the fixed deadline for the pass-through proxy endpoint.
const proxyTimeout = 10 * time.Second

// CheckRequest is the coverage lookup payload from the frontend. Pointer
// fields let zero coordinates through the required check; the service's
// bounds gate decides what to do with them.
type CheckRequest struct {
	Latitude  *float64 `json:"latitude" binding:"required,min=-90,max=90"`
	Longitude *float64 `json:"longitude" binding:"required,min=-180,max=180"`
	Address   string   `json:"address"`
}

// ProxyRequest is the query-string contract of the coverage transport proxy.
type ProxyRequest struct {
	Lat        *float64 `form:"lat" binding:"required,min=-90,max=90"`
	Lng        *float64 `form:"lng" binding:"required,min=-180,max=180"`
	Technology string   `form:"technology" binding:"required"`
	Type       string   `form:"type" binding:"omitempty,querytype"`
	Width      int      `form:"width" binding:"omitempty,min=1,max=2048"`
	Height     int      `form:"height" binding:"omitempty,min=1,max=2048"`
	Format     string   `form:"format"`
	Inline     bool     `form:"inline"`
}

// Handler exposes the coverage endpoints.
type Handler struct {
	svc       *Service
	transport Transport
}

var registerValidationsOnce sync.Once

// registerValidations wires domain binding rules into gin's validator engine.
func registerValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("querytype", func(fl validator.FieldLevel) bool {
			return ValidQueryType(QueryType(fl.Field().String()))
		})
	}
}

func NewHandler(svc *Service, transport Transport) *Handler {
	registerValidationsOnce.Do(registerValidations)
	return &Handler{svc: svc, transport: transport}
}

// Check handles POST /api/v1/coverage/check. The response is always a
// well-formed result, including out-of-bounds and total-failure cases, so
// the frontend can render a deterministic "no data" state.
func (h *Handler) Check(c *gin.Context) {
	var req CheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "latitude and longitude are required")
		return
	}

	result := h.svc.CheckCoverage(c.Request.Context(), *req.Latitude, *req.Longitude, req.Address)
	httpkit.OK(c, result)
}

// Technologies handles GET /api/v1/coverage/technologies for the frontend
// toggle panel.
func (h *Handler) Technologies(c *gin.Context) {
	httpkit.OK(c, All())
}

// Proxy handles GET /api/v1/coverage/proxy. It relays one upstream query
// with content-type-driven shaping and never echoes upstream URLs or
// credentials in error bodies.
func (h *Handler) Proxy(c *gin.Context) {
	var req ProxyRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid query parameters")
		return
	}

	desc, err := Describe(req.Technology)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "unsupported technology")
		return
	}

	queryType := QueryWMS
	if req.Type != "" {
		queryType = QueryType(req.Type)
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), proxyTimeout)
	defer cancel()

	resp, err := h.transport.Query(ctx, Request{
		Point:      geo.Point{Lat: *req.Lat, Lng: *req.Lng},
		Technology: desc,
		Type:       queryType,
		Width:      req.Width,
		Height:     req.Height,
		Format:     req.Format,
	})
	if err != nil {
		h.relayError(c, err)
		return
	}

	switch resp.Kind {
	case KindBinary:
		if req.Inline {
			httpkit.OK(c, gin.H{
				"type":        "binary",
				"content":     base64.StdEncoding.EncodeToString(resp.Binary),
				"contentType": resp.ContentType,
			})
			return
		}
		contentType := resp.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		c.Data(http.StatusOK, contentType, resp.Binary)
	case KindJSON:
		c.Data(http.StatusOK, "application/json", resp.JSON)
	default:
		httpkit.OK(c, gin.H{"type": "text", "content": resp.Text})
	}
}

func (h *Handler) relayError(c *gin.Context, err error) {
	var terr *TransportError
	if errors.As(err, &terr) {
		switch terr.Kind {
		case ErrKindTimeout:
			httpkit.Error(c, http.StatusGatewayTimeout, "coverage service timed out")
		case ErrKindStatus:
			httpkit.Error(c, terr.Status, "coverage provider error")
		default:
			httpkit.Error(c, http.StatusInternalServerError, "coverage lookup failed")
		}
		return
	}
	httpkit.Error(c, http.StatusInternalServerError, "coverage lookup failed")
}
