package repositories

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMPasswordResetRepository is a GORM implementation of PasswordResetRepository.
type GORMPasswordResetRepository struct {
	db *gorm.DB
}

// NewGORMPasswordResetRepository creates a new instance of GORMPasswordResetRepository.
func NewGORMPasswordResetRepository(db *gorm.DB) *GORMPasswordResetRepository {
	return &GORMPasswordResetRepository{db: db}
}

// Create stores a new OTP.
func (r *GORMPasswordResetRepository) Create(ctx context.Context, reset *models.PasswordReset) error {
	if reset.ID == "" {
		reset.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(reset).Error; err != nil {
		return fmt.Errorf("failed to create password reset: %w", err)
	}
	return nil
}

// Find looks up the OTP row for email and otp in the given used state.
func (r *GORMPasswordResetRepository) Find(ctx context.Context, email, otp string, used bool) (*models.PasswordReset, error) {
	var reset models.PasswordReset
	err := r.db.WithContext(ctx).
		Where("email = ? AND otp = ? AND is_used = ?", email, otp, used).
		First(&reset).Error
	if err != nil {
		if err = translate(err); err == ErrNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to find password reset: %w", err)
	}
	return &reset, nil
}

// MarkUsed flags the OTP as verified.
func (r *GORMPasswordResetRepository) MarkUsed(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Model(&models.PasswordReset{}).Where("id = ?", id).Update("is_used", true).Error
	if err != nil {
		return fmt.Errorf("failed to mark password reset used: %w", err)
	}
	return nil
}

// Delete removes one OTP row.
func (r *GORMPasswordResetRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Delete(&models.PasswordReset{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete password reset: %w", err)
	}
	return nil
}

// DeleteByEmail removes every OTP issued for email.
func (r *GORMPasswordResetRepository) DeleteByEmail(ctx context.Context, email string) error {
	if err := r.db.WithContext(ctx).Where("email = ?", email).Delete(&models.PasswordReset{}).Error; err != nil {
		return fmt.Errorf("failed to delete password resets: %w", err)
	}
	return nil
}

// DeleteExpired removes OTPs that expired before now.
func (r *GORMPasswordResetRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at < ?", now).Delete(&models.PasswordReset{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete expired password resets: %w", res.Error)
	}
	return res.RowsAffected, nil
}
