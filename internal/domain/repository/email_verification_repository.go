package repository

import (
	"telemed-platform/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EmailVerificationRepository interface {
	Create(db *gorm.DB, verification *entity.EmailVerification) error
	// FindLatestValid returns the newest unused, unexpired code for the user
	// and purpose, or nil when none exists.
	FindLatestValid(db *gorm.DB, userID uuid.UUID, purpose entity.VerificationPurpose) (*entity.EmailVerification, error)
	MarkUsed(db *gorm.DB, id int64) error
}
