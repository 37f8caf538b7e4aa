package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// WelcomeMailer sends the registration welcome e-mail.
type WelcomeMailer interface {
	SendWelcomeEmail(to, firstName, username string) error
}

func (j *JobService) handleWelcomeEmailTask(ctx context.Context, t *asynq.Task) error {
	var p WelcomeEmailPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal welcome email payload: %w: %w", err, asynq.SkipRetry)
	}

	logger := j.logger.With().
		Str("type", "welcome").
		Str("to", p.To).
		Str("username", p.Username).
		Logger()

	logger.Info().Msg("processing welcome email task")

	if err := j.mailer.SendWelcomeEmail(p.To, p.FirstName, p.Username); err != nil {
		logger.Error().Err(err).Msg("failed to send welcome email")
		return err
	}

	logger.Info().Msg("sent welcome email")
	return nil
}
