package main

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/consultas-api/internal/config"
	"github.com/deppfellow/consultas-api/internal/database"
	"github.com/deppfellow/consultas-api/internal/lib/job"
	"github.com/deppfellow/consultas-api/internal/server"
)

func newTestConfig(redisAddr string) *config.Config {
	return &config.Config{
		Primary:       config.Primary{Env: "test"},
		Server:        config.ServerConfig{Port: "0", CORSAllowedOrigins: []string{"http://localhost:3000"}},
		Redis:         config.RedisConfig{Address: redisAddr},
		Query:         config.DefaultQueryConfig(),
		Cache:         config.DefaultCacheConfig(),
		Jobs:          config.DefaultJobsConfig(),
		Events:        config.DefaultEventsConfig(),
		Observability: config.DefaultObservabilityConfig(),
	}
}

func TestSetup_ShutsDownWhenJobsFailToStart(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := newTestConfig(mr.Addr())
	logger := zerolog.Nop()

	srv := &server.Server{
		Config: cfg,
		Logger: &logger,
		DB:     &database.Database{},
		Job:    job.NewJobService(&logger, cfg),
	}

	// A running worker cannot be started again.
	require.NoError(t, srv.Job.Start())

	err := setup(srv)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to start job server")

	// The worker was shut down with the rest of the server.
	assert.ErrorIs(t, srv.Job.Start(), asynq.ErrServerClosed)
}
