package repository

import (
	"telemed-platform/internal/domain/entity"

	"gorm.io/gorm"
)

type AuditLogRepository interface {
	Create(db *gorm.DB, log *entity.AuditLog) error
	List(db *gorm.DB, opts ListOptions) ([]entity.AuditLog, int64, error)
}
