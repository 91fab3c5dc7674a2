package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/pkg/logger"

	"golang.org/x/crypto/bcrypt"
)

// Publisher hands a notification to the delivery pipeline.
type Publisher interface {
	Publish(ctx context.Context, payload interface{}) error
}

// PasswordResetService runs the forgot-password OTP flow.
type PasswordResetService struct {
	userRepo  repositories.UserRepository
	resetRepo repositories.PasswordResetRepository
	publisher Publisher
	ttl       time.Duration
	now       func() time.Time
	otp       func() (string, error)
}

// NewPasswordResetService creates a new PasswordResetService. OTPs expire after ttl.
func NewPasswordResetService(
	userRepo repositories.UserRepository,
	resetRepo repositories.PasswordResetRepository,
	publisher Publisher,
	ttl time.Duration,
) *PasswordResetService {
	return &PasswordResetService{
		userRepo:  userRepo,
		resetRepo: resetRepo,
		publisher: publisher,
		ttl:       ttl,
		now:       time.Now,
		otp:       generateOTP,
	}
}

// WithClock replaces the time source. Used by tests.
func (s *PasswordResetService) WithClock(now func() time.Time) *PasswordResetService {
	s.now = now
	return s
}

// WithOTPGenerator replaces the OTP source. Used by tests.
func (s *PasswordResetService) WithOTPGenerator(gen func() (string, error)) *PasswordResetService {
	s.otp = gen
	return s
}

// RequestReset issues a new OTP for a registered email and publishes the email job.
// Earlier OTPs of the email are discarded.
func (s *PasswordResetService) RequestReset(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return notFoundError("email not registered")
		}
		logger.Error(ctx).Err(err).Msg("failed to look up user")
		return systemError("failed to process request", err)
	}

	if err := s.resetRepo.DeleteByEmail(ctx, email); err != nil {
		logger.Error(ctx).Err(err).Msg("failed to discard old OTPs")
		return systemError("failed to process request", err)
	}

	code, err := s.otp()
	if err != nil {
		return systemError("failed to process request", err)
	}
	now := s.now().UTC()
	reset := &models.PasswordReset{
		Email:     email,
		OTP:       code,
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	}
	if err := s.resetRepo.Create(ctx, reset); err != nil {
		logger.Error(ctx).Err(err).Msg("failed to store OTP")
		return systemError("failed to process request", err)
	}

	job := models.EmailJob{
		Type:      models.EmailPasswordResetOTP,
		To:        email,
		Name:      user.Name,
		OTP:       code,
		ExpiresAt: reset.ExpiresAt,
	}
	if s.publisher == nil {
		return systemError("failed to send email", fmt.Errorf("no notification publisher configured"))
	}
	if err := s.publisher.Publish(ctx, job); err != nil {
		logger.Error(ctx).Err(err).Msg("failed to publish OTP email")
		return systemError("failed to send email", err)
	}
	return nil
}

// VerifyOTP marks an unused, unexpired OTP as verified. Expired OTPs are deleted.
func (s *PasswordResetService) VerifyOTP(ctx context.Context, email, otp string) error {
	email = normalizeEmail(email)
	reset, err := s.resetRepo.Find(ctx, email, otp, false)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return validationError("invalid OTP")
		}
		logger.Error(ctx).Err(err).Msg("failed to look up OTP")
		return systemError("failed to verify OTP", err)
	}

	if reset.Expired(s.now()) {
		if err := s.resetRepo.Delete(ctx, reset.ID); err != nil {
			logger.Warn(ctx).Err(err).Msg("failed to delete expired OTP")
		}
		return validationError("OTP expired")
	}

	if err := s.resetRepo.MarkUsed(ctx, reset.ID); err != nil {
		logger.Error(ctx).Err(err).Msg("failed to mark OTP used")
		return systemError("failed to verify OTP", err)
	}
	return nil
}

// ResetPassword sets a new password once the OTP has been verified, then consumes the OTP.
func (s *PasswordResetService) ResetPassword(ctx context.Context, email, otp, newPassword string) error {
	email = normalizeEmail(email)
	reset, err := s.resetRepo.Find(ctx, email, otp, true)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return validationError("OTP not verified")
		}
		logger.Error(ctx).Err(err).Msg("failed to look up OTP")
		return systemError("failed to reset password", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return systemError("failed to reset password", fmt.Errorf("failed to hash password: %w", err))
	}
	if err := s.userRepo.UpdatePassword(ctx, email, string(hash)); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return notFoundError("email not registered")
		}
		logger.Error(ctx).Err(err).Msg("failed to update password")
		return systemError("failed to reset password", err)
	}

	if err := s.resetRepo.Delete(ctx, reset.ID); err != nil {
		logger.Warn(ctx).Err(err).Msg("failed to delete consumed OTP")
	}
	return nil
}

// PurgeExpired deletes OTPs that are past their expiry.
func (s *PasswordResetService) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := s.resetRepo.DeleteExpired(ctx, s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired OTPs: %w", err)
	}
	return n, nil
}

// RunSweeper purges expired OTPs every interval until ctx is done.
func (s *PasswordResetService) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.PurgeExpired(ctx)
			if err != nil {
				logger.Error(ctx).Err(err).Msg("OTP sweep failed")
				continue
			}
			if n > 0 {
				logger.Debug(ctx).Int64("deleted", n).Msg("expired OTPs purged")
			}
		}
	}
}

// generateOTP returns a uniformly random 6-digit code.
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("failed to generate OTP: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
