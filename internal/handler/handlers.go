package handler

import (
	"github.com/deppfellow/lead-intake/internal/server"
	"github.com/deppfellow/lead-intake/internal/service"
)

// Handlers groups all HTTP handlers so the router takes a single value.
type Handlers struct {
	Health  *HealthHandler
	OpenAPI *OpenAPIHandler
	Lead    *LeadHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(s),
		OpenAPI: NewOpenAPIHandler(s),
		Lead:    NewLeadHandler(s, services.Lead),
	}
}
