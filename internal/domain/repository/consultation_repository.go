package repository

import (
	"telemed-platform/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ConsultationRepository interface {
	Create(db *gorm.DB, consultation *entity.Consultation) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Consultation, error)
	FindByAppointmentID(db *gorm.DB, appointmentID uuid.UUID) (*entity.Consultation, error)
	Update(db *gorm.DB, consultation *entity.Consultation) error
	List(db *gorm.DB, opts ListOptions) ([]entity.Consultation, int64, error)
}
