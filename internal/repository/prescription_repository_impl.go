package repository

import (
	"telemed-platform/internal/domain/entity"
	domainRepo "telemed-platform/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type prescriptionRepository struct {
	store[entity.Prescription]
}

func NewPrescriptionRepository() domainRepo.PrescriptionRepository {
	return &prescriptionRepository{}
}

func (r *prescriptionRepository) Create(db *gorm.DB, prescription *entity.Prescription) error {
	return r.create(db, prescription)
}

func (r *prescriptionRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Prescription, error) {
	return r.findByID(db, id, "Patient", "Doctor")
}

func (r *prescriptionRepository) Update(db *gorm.DB, prescription *entity.Prescription) error {
	return r.save(db, prescription)
}

func (r *prescriptionRepository) List(db *gorm.DB, opts domainRepo.ListOptions) ([]entity.Prescription, int64, error) {
	return r.list(db, opts, "Doctor")
}
