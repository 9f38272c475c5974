package repository

import (
	"telemed-platform/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationRepository interface {
	Create(db *gorm.DB, notification *entity.Notification) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Notification, error)
	List(db *gorm.DB, opts ListOptions) ([]entity.Notification, int64, error)
	MarkRead(db *gorm.DB, id uuid.UUID) (int64, error)
	MarkAllRead(db *gorm.DB, userID uuid.UUID) (int64, error)
	Delete(db *gorm.DB, id uuid.UUID) error
}
