package coverage

import (
	apphttp "coverage_backend/internal/http"
)

// Module wires the coverage HTTP routes.
type Module struct {
	handler *Handler
}

func NewModule(svc *Service, transport Transport) *Module {
	return &Module{handler: NewHandler(svc, transport)}
}

func (m *Module) Name() string {
	return "coverage"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/coverage")
	group.POST("/check", m.handler.Check)
	group.GET("/technologies", m.handler.Technologies)
	group.GET("/proxy", m.handler.Proxy)
}

var _ apphttp.Module = (*Module)(nil)
