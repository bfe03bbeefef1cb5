package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/consultas-api/internal/middleware"
	"github.com/deppfellow/consultas-api/internal/server"
)

// pinger is satisfied by *database.Database and by the redis adapter below.
type pinger interface {
	Ping(ctx context.Context) error
}

type redisPinger struct {
	ping func(ctx context.Context) error
}

func (r redisPinger) Ping(ctx context.Context) error { return r.ping(ctx) }

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

type CheckResult struct {
	Status       string `json:"status"`
	ResponseTime string `json:"response_time"`
	Error        string `json:"error,omitempty"`
}

type HealthResponse struct {
	Status      string                 `json:"status"`
	Timestamp   time.Time              `json:"timestamp"`
	Environment string                 `json:"environment"`
	Checks      map[string]CheckResult `json:"checks"`
}

// HealthHandler serves GET /status.
type HealthHandler struct {
	Handler
	database pinger
	redis    pinger
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	h := &HealthHandler{Handler: NewHandler(s)}
	if s.DB != nil {
		h.database = s.DB
	}
	if s.Redis != nil {
		h.redis = redisPinger{ping: func(ctx context.Context) error {
			return s.Redis.Ping(ctx).Err()
		}}
	}
	return h
}

// CheckHealth pings the configured dependencies. Only a failing database
// turns the answer into 503; the cache degrades to direct queries.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()
	obs := h.server.Config.Observability

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	response := HealthResponse{
		Status:      StatusHealthy,
		Timestamp:   time.Now().UTC(),
		Environment: h.server.Config.Primary.Env,
		Checks:      make(map[string]CheckResult),
	}

	if h.database != nil && obs.HasCheck("database") {
		result := h.check(c.Request().Context(), "database", h.database, obs.HealthChecks.Timeout)
		response.Checks["database"] = result
		if result.Status != StatusHealthy {
			response.Status = StatusUnhealthy
		}
	}

	if h.redis != nil && obs.HasCheck("redis") {
		response.Checks["redis"] = h.check(c.Request().Context(), "redis", h.redis, obs.HealthChecks.Timeout)
	}

	if response.Status != StatusHealthy {
		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")

		h.recordFailure(map[string]interface{}{
			"check_type":        "overall",
			"operation":         "health_check",
			"error_type":        "overall_unhealthy",
			"total_duration_ms": time.Since(start).Milliseconds(),
		})

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	logger.Debug().
		Dur("total_duration", time.Since(start)).
		Msg("health check passed")

	return c.JSON(http.StatusOK, response)
}

func (h *HealthHandler) check(ctx context.Context, name string, p pinger, timeout time.Duration) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	err := p.Ping(ctx)
	elapsed := time.Since(start)

	if err != nil {
		h.server.Logger.Error().
			Err(err).
			Str("check", name).
			Dur("response_time", elapsed).
			Msg("health check failed")

		h.recordFailure(map[string]interface{}{
			"check_type":       name,
			"operation":        "health_check",
			"error_type":       name + "_unhealthy",
			"response_time_ms": elapsed.Milliseconds(),
			"error_message":    err.Error(),
		})

		return CheckResult{Status: StatusUnhealthy, ResponseTime: elapsed.String(), Error: err.Error()}
	}

	return CheckResult{Status: StatusHealthy, ResponseTime: elapsed.String()}
}

func (h *HealthHandler) recordFailure(attrs map[string]interface{}) {
	if app := h.server.LoggerService.GetApplication(); app != nil {
		app.RecordCustomEvent("HealthCheckError", attrs)
	}
}
