package job

import (
	"encoding/json"
	"time"

	"groop/internal/lib/email"

	"github.com/hibiken/asynq"
)

const TaskSendEmail = "email:send"

// NewSendEmailTask wraps a rendered message in an asynq task.
func NewSendEmailTask(msg email.Message) (*asynq.Task, error) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskSendEmail,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue("default"),
		asynq.Timeout(30*time.Second),
	), nil
}
