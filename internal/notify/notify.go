// Package notify delivers email jobs produced by the password reset flow.
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"storefront/internal/models"
	"storefront/pkg/logger"
)

// Mailer sends one email job.
type Mailer interface {
	Send(ctx context.Context, job models.EmailJob) error
}

// LogMailer writes email jobs to the log instead of sending them. The OTP is only logged at debug level.
type LogMailer struct{}

// Send logs job.
func (LogMailer) Send(ctx context.Context, job models.EmailJob) error {
	logger.Info(ctx).Str("type", job.Type).Str("to", job.To).Time("expires_at", job.ExpiresAt).Msg("email dispatched")
	logger.Debug(ctx).Str("to", job.To).Str("otp", job.OTP).Msg("email content")
	return nil
}

// Handler decodes a queued email job and hands it to mailer.
func Handler(mailer Mailer) func(ctx context.Context, body []byte) error {
	return func(ctx context.Context, body []byte) error {
		var job models.EmailJob
		if err := json.Unmarshal(body, &job); err != nil {
			return fmt.Errorf("failed to decode email job: %w", err)
		}
		if err := validate(job); err != nil {
			return err
		}
		return mailer.Send(ctx, job)
	}
}

// Direct delivers jobs synchronously. It stands in for the queue when no broker is configured.
type Direct struct {
	Mailer Mailer
}

// Publish sends payload, which must be a models.EmailJob, straight to the mailer.
func (d Direct) Publish(ctx context.Context, payload interface{}) error {
	job, ok := payload.(models.EmailJob)
	if !ok {
		return fmt.Errorf("unsupported notification payload %T", payload)
	}
	if err := validate(job); err != nil {
		return err
	}
	return d.Mailer.Send(ctx, job)
}

func validate(job models.EmailJob) error {
	if job.Type != models.EmailPasswordResetOTP {
		return fmt.Errorf("unknown email job type %q", job.Type)
	}
	if job.To == "" {
		return fmt.Errorf("email job has no recipient")
	}
	return nil
}
