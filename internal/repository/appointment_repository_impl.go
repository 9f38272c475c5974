package repository

import (
	"errors"
	"time"

	"telemed-platform/internal/domain/entity"
	domainRepo "telemed-platform/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type appointmentRepository struct {
	store[entity.Appointment]
}

func NewAppointmentRepository() domainRepo.AppointmentRepository {
	return &appointmentRepository{}
}

func (r *appointmentRepository) Create(db *gorm.DB, appointment *entity.Appointment) error {
	return r.create(db, appointment)
}

func (r *appointmentRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	return r.findByID(db, id, "Patient", "Doctor")
}

func (r *appointmentRepository) Update(db *gorm.DB, appointment *entity.Appointment) error {
	return r.save(db, appointment)
}

func (r *appointmentRepository) Delete(db *gorm.DB, id uuid.UUID) error {
	return r.deleteByID(db, id)
}

func (r *appointmentRepository) List(db *gorm.DB, opts domainRepo.ListOptions) ([]entity.Appointment, int64, error) {
	return r.list(db, opts, "Patient", "Doctor")
}

func (r *appointmentRepository) FindOverlapping(db *gorm.DB, patientID, doctorID uuid.UUID, startsAt, endsAt time.Time) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := db.Where("patient_id = ? AND doctor_id = ? AND status != ? AND starts_at < ? AND ends_at > ?",
		patientID, doctorID, entity.AppointmentStatusCancelled, endsAt, startsAt).
		First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

// UpdateStatus performs a compare-and-set on the status column. A concurrent
// transition that committed first leaves the row outside from, so the update
// matches nothing and the caller sees 0 affected rows.
func (r *appointmentRepository) UpdateStatus(db *gorm.DB, id uuid.UUID, target entity.AppointmentStatus, from ...entity.AppointmentStatus) (int64, error) {
	result := db.Model(&entity.Appointment{}).
		Where("id = ? AND status IN ?", id, from).
		Update("status", target)
	return result.RowsAffected, result.Error
}
