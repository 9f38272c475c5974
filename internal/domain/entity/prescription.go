package entity

import (
	"time"

	"github.com/google/uuid"
)

// PrescriptionStatus represents the status of a prescription
type PrescriptionStatus string

const (
	PrescriptionStatusActive    PrescriptionStatus = "active"
	PrescriptionStatusCompleted PrescriptionStatus = "completed"
	PrescriptionStatusCancelled PrescriptionStatus = "cancelled"
)

// Prescription represents medication prescribed by a doctor to a patient
type Prescription struct {
	ID            uuid.UUID          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PatientID     uuid.UUID          `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorID      uuid.UUID          `gorm:"type:uuid;not null;index" json:"doctor_id"`
	AppointmentID *uuid.UUID         `gorm:"type:uuid;index" json:"appointment_id,omitempty"`
	Medication    string             `gorm:"type:varchar(255);not null" json:"medication"`
	Dosage        string             `gorm:"type:varchar(100);not null" json:"dosage"`
	Instructions  string             `gorm:"type:text" json:"instructions,omitempty"`
	Status        PrescriptionStatus `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	IssuedAt      time.Time          `gorm:"not null" json:"issued_at"`
	CreatedAt     time.Time          `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time          `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient User `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Doctor  User `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (Prescription) TableName() string {
	return "prescriptions"
}
