package repository

import (
	"errors"

	"telemed-platform/internal/domain/entity"
	domainRepo "telemed-platform/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type consultationRepository struct {
	store[entity.Consultation]
}

func NewConsultationRepository() domainRepo.ConsultationRepository {
	return &consultationRepository{}
}

func (r *consultationRepository) Create(db *gorm.DB, consultation *entity.Consultation) error {
	return r.create(db, consultation)
}

func (r *consultationRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Consultation, error) {
	return r.findByID(db, id, "Appointment", "Patient", "Doctor")
}

func (r *consultationRepository) FindByAppointmentID(db *gorm.DB, appointmentID uuid.UUID) (*entity.Consultation, error) {
	var consultation entity.Consultation
	err := db.Where("appointment_id = ?", appointmentID).First(&consultation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &consultation, nil
}

func (r *consultationRepository) Update(db *gorm.DB, consultation *entity.Consultation) error {
	return r.save(db, consultation)
}

func (r *consultationRepository) List(db *gorm.DB, opts domainRepo.ListOptions) ([]entity.Consultation, int64, error) {
	return r.list(db, opts, "Appointment")
}
