// Package job provides background job processing using Asynq.
//
// Asynq is a Redis-backed job queue:
//   - You enqueue tasks (producer) using asynq.Client.
//   - A server runs workers that process those tasks (consumer) using asynq.Server.
//
// The only task today is consultas:warm, which re-runs the canned consultas
// so their results sit in the cache before the first request.
package job

import (
	"context"

	"github.com/deppfellow/consultas-api/internal/config"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// Warmer is implemented by the consultas service. It is declared here so
// the job package does not import the service layer.
type Warmer interface {
	Calentar(ctx context.Context) error
}

// JobService holds the Asynq client (enqueue) and server (worker execution).
type JobService struct {
	// Client is used to enqueue tasks into Redis.
	Client *asynq.Client

	// server runs worker processes that pull tasks from Redis and execute handlers.
	server *asynq.Server

	logger *zerolog.Logger
	warmer Warmer
}

// NewJobService creates a JobService configured to use Redis from cfg.
//
// Queue weights give "critical" tasks the larger share of the workers;
// the cache warm task runs on "default".
func NewJobService(logger *zerolog.Logger, cfg *config.Config) *JobService {
	redisOpt := asynq.RedisClientOpt{Addr: cfg.Redis.Address}

	client := asynq.NewClient(redisOpt)

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: cfg.Jobs.Concurrency,
			Queues: map[string]int{
				QueueCritical: 6,
				QueueDefault:  3,
				QueueLow:      1,
			},
			Logger:   newAsynqLogger(logger),
			LogLevel: asynq.WarnLevel,
		},
	)

	return &JobService{
		Client: client,
		server: server,
		logger: logger,
	}
}

// SetWarmer registers the dependency used by the consultas:warm handler.
// It must be called before Start.
func (j *JobService) SetWarmer(w Warmer) {
	j.warmer = w
}

// Start registers task handlers and starts the worker server.
// asynq.Server.Start does not block; workers run in their own goroutines.
func (j *JobService) Start() error {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskWarmCache, j.handleWarmCacheTask)

	j.logger.Info().Msg("Starting background job server")

	return j.server.Start(mux)
}

// Stop gracefully stops the job server and closes client resources.
func (j *JobService) Stop() {
	j.logger.Info().Msg("Stopping background job server")
	j.server.Shutdown()
	if err := j.Client.Close(); err != nil {
		j.logger.Warn().Err(err).Msg("closing asynq client")
	}
}
