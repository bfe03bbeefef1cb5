package handler

import (
	"github.com/deppfellow/consultas-api/internal/server"
	"github.com/deppfellow/consultas-api/internal/service"
)

// Handlers groups every HTTP handler so the router receives a single value.
type Handlers struct {
	Health    *HealthHandler
	OpenAPI   *OpenAPIHandler
	Consultas *ConsultasHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:    NewHealthHandler(s),
		OpenAPI:   NewOpenAPIHandler(s),
		Consultas: NewConsultasHandler(s, services.Consultas),
	}
}
