package repository

import (
	"telemed-platform/internal/domain/entity"
	domainRepo "telemed-platform/internal/domain/repository"

	"gorm.io/gorm"
)

type auditLogRepository struct {
	store[entity.AuditLog]
}

func NewAuditLogRepository() domainRepo.AuditLogRepository {
	return &auditLogRepository{}
}

func (r *auditLogRepository) Create(db *gorm.DB, log *entity.AuditLog) error {
	return r.create(db, log)
}

func (r *auditLogRepository) List(db *gorm.DB, opts domainRepo.ListOptions) ([]entity.AuditLog, int64, error) {
	return r.list(db, opts)
}
