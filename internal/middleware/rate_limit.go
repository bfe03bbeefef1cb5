package middleware

import (
	"time"

	"github.com/deppfellow/consultas-api/internal/errs"
	"github.com/deppfellow/consultas-api/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// visitorTTL is how long an idle client IP keeps its token bucket.
const visitorTTL = 3 * time.Minute

type RateLimitMiddleware struct {
	server *server.Server
}

func NewRateLimitMiddleware(s *server.Server) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		server: s,
	}
}

// Limit returns a per-IP token bucket limiter backed by echo's in-memory
// store. A zero server.rate_limit disables it.
func (r *RateLimitMiddleware) Limit() echo.MiddlewareFunc {
	cfg := r.server.Config.Server
	if cfg.RateLimit <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}

	burst := cfg.RateBurst
	if burst < 1 {
		burst = int(cfg.RateLimit) + 1
	}

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Skipper: middleware.DefaultSkipper,
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(cfg.RateLimit),
				Burst:     burst,
				ExpiresIn: visitorTTL,
			}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return middleware.ErrExtractorError
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			GetLogger(c).Warn().Str("client", identifier).Msg("rate limit exceeded")
			r.RecordRateLimitHit(c.Path())
			return errs.NewTooManyRequestsError("Rate limit exceeded, retry later")
		},
	})
}

// RecordRateLimitHit records a RateLimitHit custom event in New Relic.
func (r *RateLimitMiddleware) RecordRateLimitHit(endpoint string) {
	if app := r.server.LoggerService.GetApplication(); app != nil {
		app.RecordCustomEvent("RateLimitHit", map[string]interface{}{
			"endpoint": endpoint,
		})
	}
}
