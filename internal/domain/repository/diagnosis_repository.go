package repository

import (
	"telemed-platform/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DiagnosisSessionRepository interface {
	Create(db *gorm.DB, session *entity.DiagnosisSession) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.DiagnosisSession, error)
	Update(db *gorm.DB, session *entity.DiagnosisSession) error
	List(db *gorm.DB, opts ListOptions) ([]entity.DiagnosisSession, int64, error)
}

type DiagnosisMessageRepository interface {
	Create(db *gorm.DB, message *entity.DiagnosisMessage) error
	FindBySession(db *gorm.DB, sessionID uuid.UUID, opts ListOptions) ([]entity.DiagnosisMessage, int64, error)
}
