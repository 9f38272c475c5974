package repository

import (
	"time"

	"telemed-platform/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(db *gorm.DB, appointment *entity.Appointment) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error)
	Update(db *gorm.DB, appointment *entity.Appointment) error
	Delete(db *gorm.DB, id uuid.UUID) error
	List(db *gorm.DB, opts ListOptions) ([]entity.Appointment, int64, error)
	// FindOverlapping returns a non-cancelled appointment of the patient with
	// the same doctor whose time window intersects [startsAt, endsAt).
	FindOverlapping(db *gorm.DB, patientID, doctorID uuid.UUID, startsAt, endsAt time.Time) (*entity.Appointment, error)
	// UpdateStatus atomically moves the appointment to target when its
	// current status is one of from. Zero affected rows means a concurrent
	// transition won the race.
	UpdateStatus(db *gorm.DB, id uuid.UUID, target entity.AppointmentStatus, from ...entity.AppointmentStatus) (int64, error)
}
