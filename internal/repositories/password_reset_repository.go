package repositories

import (
	"context"
	"time"

	"storefront/internal/models"
)

// PasswordResetRepository defines the interface for OTP data access.
type PasswordResetRepository interface {
	Create(ctx context.Context, reset *models.PasswordReset) error
	// Find returns the OTP row for email and otp in the given used state.
	Find(ctx context.Context, email, otp string, used bool) (*models.PasswordReset, error)
	MarkUsed(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	DeleteByEmail(ctx context.Context, email string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
