package repository

import (
	"errors"
	"time"

	"telemed-platform/internal/domain/entity"
	domainRepo "telemed-platform/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type emailVerificationRepository struct{}

func NewEmailVerificationRepository() domainRepo.EmailVerificationRepository {
	return &emailVerificationRepository{}
}

func (r *emailVerificationRepository) Create(db *gorm.DB, verification *entity.EmailVerification) error {
	return db.Create(verification).Error
}

func (r *emailVerificationRepository) FindLatestValid(db *gorm.DB, userID uuid.UUID, purpose entity.VerificationPurpose) (*entity.EmailVerification, error) {
	var verification entity.EmailVerification
	err := db.Where("user_id = ? AND purpose = ? AND used = false AND expires_at > ?", userID, purpose, time.Now()).
		Order("created_at DESC").
		First(&verification).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &verification, nil
}

func (r *emailVerificationRepository) MarkUsed(db *gorm.DB, id int64) error {
	return db.Model(&entity.EmailVerification{}).
		Where("id = ?", id).
		Update("used", true).Error
}
