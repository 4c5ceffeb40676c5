// Package search provides the spot search bounded context module.
// This file defines the module that encapsulates all search setup and route registration.
package search

import (
	"cookiespots_backend/internal/aggregator"
	"cookiespots_backend/internal/cache"
	apphttp "cookiespots_backend/internal/http"
	"cookiespots_backend/internal/resolver"
	"cookiespots_backend/internal/search/handler"
	"cookiespots_backend/internal/search/service"
	"cookiespots_backend/platform/config"
	"cookiespots_backend/platform/logger"
	"cookiespots_backend/platform/validator"
)

// Module is the search bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the search module with all its dependencies.
func NewModule(res *resolver.Resolver, agg *aggregator.Aggregator, store cache.Cache, cfg config.ProviderConfig, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(res, agg, store, cfg, log)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "search"
}

// Service returns the search service for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts search routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1.Group("/spots"))
	m.handler.RegisterAdminRoutes(ctx.Admin)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
