// Package router builds the echo instance: global middleware in order, the
// error handler and every route group.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/consultas-api/internal/handler"
	"github.com/deppfellow/consultas-api/internal/middleware"
	"github.com/deppfellow/consultas-api/internal/server"
)

// NewRouter returns the fully wired echo instance. It is the http.Handler
// passed to server.SetupHTTPServer.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true
	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	// Order matters: the request id must exist before the context logger is
	// built, and rejected requests still get their "API" log line.
	router.Use(
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.RateLimit.Limit(),
		middlewares.Global.Recover(),
	)

	registerSystemRoutes(router, h)
	registerConsultasRoutes(router.Group(ConsultasPrefix), h)

	return router
}
