// Package server holds the Server container: the config, loggers and clients
// shared by every layer, plus the HTTP server lifecycle.
//
// It owns:
//   - configuration
//   - logger + optional New Relic service wrapper
//   - database pool
//   - redis client and the result cache built on it
//   - kafka event publisher
//   - background job service (asynq)
//   - http.Server
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/consultas-api/internal/config"
	"github.com/deppfellow/consultas-api/internal/database"
	"github.com/deppfellow/consultas-api/internal/lib/cache"
	"github.com/deppfellow/consultas-api/internal/lib/events"
	"github.com/deppfellow/consultas-api/internal/lib/job"
	"github.com/newrelic/go-agent/v3/integrations/nrredis-v9"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	loggerPkg "github.com/deppfellow/consultas-api/internal/logger"
)

// RedisPingTimeout bounds the startup ping.
const RedisPingTimeout = 5 * time.Second

// Server is the application container. It is not the HTTP server itself;
// that one is configured by SetupHTTPServer.
type Server struct {
	Config        *config.Config
	Logger        *zerolog.Logger
	LoggerService *loggerPkg.LoggerService
	DB            *database.Database
	Redis         *redis.Client

	// Cache is the read-through result cache. Disabled when Redis is down at startup.
	Cache *cache.Cache

	// Events publishes pedido events; disabled without brokers.
	Events *events.Publisher

	// Job is nil when jobs are disabled. It is created here but started by
	// StartJobs, after the services have registered the warmer.
	Job *job.JobService

	httpServer *http.Server
}

// New connects to the database and builds the Redis-backed clients.
//
// The database is required. Redis is optional: when the ping fails the cache
// is disabled and requests go straight to Postgres.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) (*Server, error) {
	db, err := database.New(cfg, logger, loggerService)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Address,
	})
	if loggerService.GetApplication() != nil {
		redisClient.AddHook(nrredis.NewHook(redisClient.Options()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), RedisPingTimeout)
	defer cancel()

	var cacheClient redis.UniversalClient = redisClient
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Error().Err(err).Msg("failed to connect to Redis, continuing without cache")
		cacheClient = nil
	}

	server := &Server{
		Config:        cfg,
		Logger:        logger,
		LoggerService: loggerService,
		DB:            db,
		Redis:         redisClient,
		Cache:         cache.New(cacheClient, cfg.Cache, logger),
		Events:        events.NewPublisher(cfg.Events, logger),
	}

	if cfg.Jobs.Enabled {
		server.Job = job.NewJobService(logger, cfg)
	}

	return server, nil
}

// StartJobs starts the asynq worker when jobs are enabled.
func (s *Server) StartJobs() error {
	if s.Job == nil {
		return nil
	}
	if err := s.Job.Start(); err != nil {
		return fmt.Errorf("failed to start job server: %w", err)
	}
	return nil
}

// SetupHTTPServer configures the net/http server around handler.
// Config timeouts are in seconds.
func (s *Server) SetupHTTPServer(handler http.Handler) {
	s.httpServer = &http.Server{
		Addr:         ":" + s.Config.Server.Port,
		Handler:      handler,
		ReadTimeout:  time.Duration(s.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.Config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.Config.Server.IdleTimeout) * time.Second,
	}
}

// Start blocks serving HTTP until Shutdown is called.
func (s *Server) Start() error {
	if s.httpServer == nil {
		return errors.New("HTTP server not initialized")
	}

	s.Logger.Info().
		Str("port", s.Config.Server.Port).
		Str("env", s.Config.Primary.Env).
		Msg("starting server")

	return s.httpServer.ListenAndServe()
}

// Shutdown stops accepting requests, waits for in-flight ones until ctx
// expires, then releases the pool, the job server, the kafka writer and Redis.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown HTTP server: %w", err)
		}
	}

	if err := s.DB.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}

	if s.Job != nil {
		s.Job.Stop()
	}

	if err := s.Events.Close(); err != nil {
		s.Logger.Warn().Err(err).Msg("closing event publisher")
	}

	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			return fmt.Errorf("failed to close redis client: %w", err)
		}
	}

	return nil
}
