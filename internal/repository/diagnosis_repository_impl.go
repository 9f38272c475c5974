package repository

import (
	"telemed-platform/internal/domain/entity"
	domainRepo "telemed-platform/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type diagnosisSessionRepository struct {
	store[entity.DiagnosisSession]
}

func NewDiagnosisSessionRepository() domainRepo.DiagnosisSessionRepository {
	return &diagnosisSessionRepository{}
}

func (r *diagnosisSessionRepository) Create(db *gorm.DB, session *entity.DiagnosisSession) error {
	return r.create(db, session)
}

func (r *diagnosisSessionRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.DiagnosisSession, error) {
	return r.findByID(db, id)
}

func (r *diagnosisSessionRepository) Update(db *gorm.DB, session *entity.DiagnosisSession) error {
	return r.save(db, session)
}

func (r *diagnosisSessionRepository) List(db *gorm.DB, opts domainRepo.ListOptions) ([]entity.DiagnosisSession, int64, error) {
	return r.list(db, opts)
}

type diagnosisMessageRepository struct {
	store[entity.DiagnosisMessage]
}

func NewDiagnosisMessageRepository() domainRepo.DiagnosisMessageRepository {
	return &diagnosisMessageRepository{}
}

func (r *diagnosisMessageRepository) Create(db *gorm.DB, message *entity.DiagnosisMessage) error {
	return r.create(db, message)
}

func (r *diagnosisMessageRepository) FindBySession(db *gorm.DB, sessionID uuid.UUID, opts domainRepo.ListOptions) ([]entity.DiagnosisMessage, int64, error) {
	opts = opts.WithFilter("session_id", sessionID)
	if opts.OrderBy == "" {
		opts.OrderBy = "created_at"
	}
	return r.list(db, opts)
}
