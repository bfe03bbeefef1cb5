package job

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// TaskWarmCache is the task type name stored in Redis.
	TaskWarmCache = "consultas:warm"

	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"

	warmTimeout  = 30 * time.Second
	warmMaxRetry = 3

	// warmUniqueFor collapses bursts of warm requests into one task.
	warmUniqueFor = time.Minute
)

// WarmCachePayload is the JSON payload of the consultas:warm task.
type WarmCachePayload struct {
	// Reason records who asked for the warm-up ("seed", "pedido_registrado").
	Reason string `json:"reason"`
}

// NewWarmCacheTask constructs the consultas:warm task.
//
// Options:
//   - MaxRetry(3): retry up to 3 times on failure
//   - Queue("default")
//   - Timeout(30s): the handler context is canceled after 30 seconds
//   - Unique(1m): a second enqueue inside the window is rejected as duplicate
func NewWarmCacheTask(reason string) (*asynq.Task, error) {
	payload, err := json.Marshal(WarmCachePayload{Reason: reason})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskWarmCache,
		payload,
		asynq.MaxRetry(warmMaxRetry),
		asynq.Queue(QueueDefault),
		asynq.Timeout(warmTimeout),
		asynq.Unique(warmUniqueFor),
	), nil
}

// EnqueueWarm enqueues a consultas:warm task. A duplicate inside the unique
// window is not an error.
func (j *JobService) EnqueueWarm(ctx context.Context, reason string) error {
	task, err := NewWarmCacheTask(reason)
	if err != nil {
		return fmt.Errorf("building warm task: %w", err)
	}

	info, err := j.Client.EnqueueContext(ctx, task)
	if errors.Is(err, asynq.ErrDuplicateTask) {
		j.logger.Debug().Str("reason", reason).Msg("cache warm already queued")
		return nil
	}
	if err != nil {
		return fmt.Errorf("enqueueing warm task: %w", err)
	}

	j.logger.Info().
		Str("task_id", info.ID).
		Str("queue", info.Queue).
		Str("reason", reason).
		Msg("cache warm enqueued")
	return nil
}
