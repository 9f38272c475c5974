package repository

import (
	"telemed-platform/internal/domain/entity"
	domainRepo "telemed-platform/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type notificationRepository struct {
	store[entity.Notification]
}

func NewNotificationRepository() domainRepo.NotificationRepository {
	return &notificationRepository{}
}

func (r *notificationRepository) Create(db *gorm.DB, notification *entity.Notification) error {
	return r.create(db, notification)
}

func (r *notificationRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Notification, error) {
	return r.findByID(db, id)
}

func (r *notificationRepository) List(db *gorm.DB, opts domainRepo.ListOptions) ([]entity.Notification, int64, error) {
	return r.list(db, opts)
}

func (r *notificationRepository) MarkRead(db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.Model(&entity.Notification{}).
		Where("id = ? AND read = false", id).
		Update("read", true)
	return result.RowsAffected, result.Error
}

func (r *notificationRepository) MarkAllRead(db *gorm.DB, userID uuid.UUID) (int64, error) {
	result := db.Model(&entity.Notification{}).
		Where("user_id = ? AND read = false", userID).
		Update("read", true)
	return result.RowsAffected, result.Error
}

func (r *notificationRepository) Delete(db *gorm.DB, id uuid.UUID) error {
	return r.deleteByID(db, id)
}
