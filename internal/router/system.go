package router

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/consultas-api/internal/handler"
)

// registerSystemRoutes registers the endpoints that are not consultas:
// health, docs UI and the static assets the docs page loads.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/status", h.Health.CheckHealth)

	r.Static("/static", handler.StaticDir)

	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
}
