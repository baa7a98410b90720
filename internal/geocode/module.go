package geocode

import (
	apphttp "coverage_backend/internal/http"
	"coverage_backend/platform/config"
	"coverage_backend/platform/logger"
)

// Module wires the geocode HTTP routes.
type Module struct {
	handler *Handler
}

func NewModule(cfg config.GeocodeConfig, log *logger.Logger) *Module {
	svc := NewService(cfg, log)
	return &Module{handler: NewHandler(svc)}
}

func (m *Module) Name() string {
	return "geocode"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/geocode", m.handler.Lookup)
}

var _ apphttp.Module = (*Module)(nil)
