// Package job runs email delivery through an asynq (Redis) queue.
package job

import (
	"context"
	"fmt"

	"groop/internal/lib/email"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// JobService enqueues email tasks and runs the worker that delivers them.
type JobService struct {
	Client *asynq.Client
	server *asynq.Server
	sender email.Sender
	logger zerolog.Logger
}

var _ email.Dispatcher = (*JobService)(nil)

func NewJobService(redisAddr string, sender email.Sender, logger zerolog.Logger) *JobService {
	client := asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr})

	server := asynq.NewServer(
		asynq.RedisClientOpt{Addr: redisAddr},
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
			Logger: newAsynqLogger(logger),
		},
	)

	return &JobService{
		Client: client,
		server: server,
		sender: sender,
		logger: logger.With().Str("component", "jobs").Logger(),
	}
}

// Dispatch enqueues msg for delivery by the worker.
func (j *JobService) Dispatch(ctx context.Context, msg email.Message) error {
	task, err := NewSendEmailTask(msg)
	if err != nil {
		return err
	}

	info, err := j.Client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("failed to enqueue email task: %w", err)
	}

	j.logger.Debug().Str("task_id", info.ID).Str("queue", info.Queue).Msg("email task enqueued")
	return nil
}

// Start registers the task handlers and starts the worker without blocking.
func (j *JobService) Start() error {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskSendEmail, j.handleSendEmailTask)

	j.logger.Info().Msg("Starting background job server")
	return j.server.Start(mux)
}

func (j *JobService) Stop() {
	j.logger.Info().Msg("Stopping background job server")
	j.server.Shutdown()
	j.Client.Close()
}
