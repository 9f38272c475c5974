package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ConsultationStatus represents the lifecycle of a video consultation
type ConsultationStatus string

const (
	ConsultationStatusScheduled ConsultationStatus = "scheduled"
	ConsultationStatusActive    ConsultationStatus = "active"
	ConsultationStatusEnded     ConsultationStatus = "ended"
)

// Consultation represents a video consultation session tied to an appointment
type Consultation struct {
	ID            uuid.UUID          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	AppointmentID uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex" json:"appointment_id"`
	PatientID     uuid.UUID          `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorID      uuid.UUID          `gorm:"type:uuid;not null;index" json:"doctor_id"`
	RoomName      string             `gorm:"type:varchar(100);uniqueIndex;not null" json:"room_name"`
	Status        ConsultationStatus `gorm:"type:varchar(20);not null;default:'scheduled';index" json:"status"`
	Fee           decimal.Decimal    `gorm:"type:decimal(10,2);not null;default:0" json:"fee"`
	Notes         string             `gorm:"type:text" json:"notes,omitempty"`
	StartedAt     *time.Time         `json:"started_at,omitempty"`
	EndedAt       *time.Time         `json:"ended_at,omitempty"`
	CreatedAt     time.Time          `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time          `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Appointment Appointment `gorm:"foreignKey:AppointmentID" json:"appointment,omitempty"`
	Patient     User        `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Doctor      User        `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (Consultation) TableName() string {
	return "consultations"
}

// IsParticipant reports whether the given user takes part in the consultation.
func (c *Consultation) IsParticipant(userID uuid.UUID) bool {
	return c.PatientID == userID || c.DoctorID == userID
}

// IsEnded checks if the consultation has ended
func (c *Consultation) IsEnded() bool {
	return c.Status == ConsultationStatusEnded
}
