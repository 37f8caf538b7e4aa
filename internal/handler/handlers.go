// Package handler adapts HTTP requests to service calls. Every endpoint
// goes through the same bind, validate, log and trace pipeline.
package handler

import (
	"github.com/deppfellow/lightweight-backend/internal/server"
	"github.com/deppfellow/lightweight-backend/internal/service"
)

type Handlers struct {
	Health  *HealthHandler
	OpenAPI *OpenAPIHandler
	User    *UserHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(s),
		OpenAPI: NewOpenAPIHandler(s),
		User:    NewUserHandler(s, services.User),
	}
}
