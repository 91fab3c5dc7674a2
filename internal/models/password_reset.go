package models

import "time"

// PasswordReset holds a one-time password issued for an email address.
type PasswordReset struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Email     string    `json:"email" gorm:"type:varchar(255);not null;index"`
	OTP       string    `json:"-" gorm:"column:otp;type:varchar(6);not null"`
	ExpiresAt time.Time `json:"expiresAt" gorm:"not null;index"`
	IsUsed    bool      `json:"isUsed" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"createdAt"`
}

// Expired reports whether the OTP is past its expiry at now.
func (p *PasswordReset) Expired(now time.Time) bool {
	return now.After(p.ExpiresAt)
}

// Email job types published to the notification queue.
const (
	EmailPasswordResetOTP = "password_reset_otp"
)

// EmailJob is the notification message consumed by the mail worker.
type EmailJob struct {
	Type      string    `json:"type"`
	To        string    `json:"to"`
	Name      string    `json:"name"`
	OTP       string    `json:"otp"`
	ExpiresAt time.Time `json:"expiresAt"`
}
