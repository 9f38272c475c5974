package repository

import (
	"telemed-platform/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PrescriptionRepository interface {
	Create(db *gorm.DB, prescription *entity.Prescription) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Prescription, error)
	Update(db *gorm.DB, prescription *entity.Prescription) error
	List(db *gorm.DB, opts ListOptions) ([]entity.Prescription, int64, error)
}
