package job

import (
	"context"
	"encoding/json"
	"fmt"

	"groop/internal/lib/email"

	"github.com/hibiken/asynq"
)

func (j *JobService) handleSendEmailTask(ctx context.Context, t *asynq.Task) error {
	var msg email.Message
	if err := json.Unmarshal(t.Payload(), &msg); err != nil {
		return fmt.Errorf("failed to unmarshal email payload: %w: %w", err, asynq.SkipRetry)
	}

	if err := j.sender.Send(ctx, msg); err != nil {
		j.logger.Error().
			Str("to", msg.To).
			Str("subject", msg.Subject).
			Err(err).
			Msg("Failed to send email")
		return err
	}

	j.logger.Info().
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Msg("Successfully sent email")
	return nil
}
