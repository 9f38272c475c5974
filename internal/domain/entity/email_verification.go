package entity

import (
	"time"

	"github.com/google/uuid"
)

// VerificationPurpose distinguishes what a code is issued for
type VerificationPurpose string

const (
	PurposeEmailVerify   VerificationPurpose = "email_verify"
	PurposePasswordReset VerificationPurpose = "password_reset"
)

// EmailVerification stores a one-time 6-digit code mailed to a user
type EmailVerification struct {
	ID        int64               `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uuid.UUID           `gorm:"type:uuid;not null;index" json:"user_id"`
	Email     string              `gorm:"type:varchar(255);not null;index" json:"email"`
	Code      string              `gorm:"type:char(6);not null" json:"-"`
	Purpose   VerificationPurpose `gorm:"type:varchar(20);not null;index" json:"purpose"`
	Used      bool                `gorm:"not null;default:false" json:"used"`
	ExpiresAt time.Time           `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time           `gorm:"autoCreateTime" json:"created_at"`
}

func (EmailVerification) TableName() string {
	return "email_verifications"
}

// IsExpired reports whether the code is past its expiry.
func (v *EmailVerification) IsExpired(now time.Time) bool {
	return now.After(v.ExpiresAt)
}
