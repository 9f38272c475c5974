package repository

import (
	"telemed-platform/internal/domain/entity"
	domainRepo "telemed-platform/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type medicalRecordRepository struct {
	store[entity.MedicalRecord]
}

func NewMedicalRecordRepository() domainRepo.MedicalRecordRepository {
	return &medicalRecordRepository{}
}

func (r *medicalRecordRepository) Create(db *gorm.DB, record *entity.MedicalRecord) error {
	return r.create(db, record)
}

func (r *medicalRecordRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.MedicalRecord, error) {
	return r.findByID(db, id, "Attachments", "Author", "Patient")
}

func (r *medicalRecordRepository) Update(db *gorm.DB, record *entity.MedicalRecord) error {
	return r.save(db, record)
}

func (r *medicalRecordRepository) Delete(db *gorm.DB, id uuid.UUID) error {
	return r.deleteByID(db, id)
}

func (r *medicalRecordRepository) List(db *gorm.DB, opts domainRepo.ListOptions) ([]entity.MedicalRecord, int64, error) {
	return r.list(db, opts, "Attachments")
}
