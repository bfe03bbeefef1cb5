package job

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

// errNoWarmer is returned when a warm task runs before SetWarmer.
// It is wrapped with asynq.SkipRetry since retrying cannot help.
var errNoWarmer = errors.New("no warmer registered")

// handleWarmCacheTask re-runs the canned consultas through the cache.
// Returning an error makes Asynq mark the task failed and schedule a retry.
func (j *JobService) handleWarmCacheTask(ctx context.Context, t *asynq.Task) error {
	var p WarmCachePayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal warm cache payload: %w: %w", err, asynq.SkipRetry)
	}

	if j.warmer == nil {
		return fmt.Errorf("%w: %w", errNoWarmer, asynq.SkipRetry)
	}

	j.logger.Info().
		Str("type", TaskWarmCache).
		Str("reason", p.Reason).
		Msg("Processing cache warm task")

	start := time.Now()
	if err := j.warmer.Calentar(ctx); err != nil {
		j.logger.Error().
			Str("type", TaskWarmCache).
			Str("reason", p.Reason).
			Err(err).
			Msg("Failed to warm cache")
		return err
	}

	j.logger.Info().
		Str("type", TaskWarmCache).
		Str("reason", p.Reason).
		Dur("duration", time.Since(start)).
		Msg("Successfully warmed cache")

	return nil
}
