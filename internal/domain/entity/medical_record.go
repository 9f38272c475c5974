package entity

import (
	"time"

	"github.com/google/uuid"
)

// MedicalRecordType classifies a medical record entry
type MedicalRecordType string

const (
	RecordTypeConsultationNote MedicalRecordType = "consultation_note"
	RecordTypeLabResult        MedicalRecordType = "lab_result"
	RecordTypePrescription     MedicalRecordType = "prescription"
	RecordTypeImagingReport    MedicalRecordType = "imaging_report"
	RecordTypeVaccination      MedicalRecordType = "vaccination"
	RecordTypeAllergy          MedicalRecordType = "allergy"
	RecordTypeDischargeSummary MedicalRecordType = "discharge_summary"
)

// MedicalRecord represents a clinical entry authored by a doctor for a patient
type MedicalRecord struct {
	ID         uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PatientID  uuid.UUID         `gorm:"type:uuid;not null;index" json:"patient_id"`
	AuthorID   uuid.UUID         `gorm:"type:uuid;not null;index" json:"author_id"`
	RecordType MedicalRecordType `gorm:"type:varchar(50);not null;index" json:"record_type"`
	Title      string            `gorm:"type:varchar(255);not null" json:"title"`
	Summary    string            `gorm:"type:text" json:"summary,omitempty"`
	Details    string            `gorm:"type:text" json:"details,omitempty"`
	RecordDate time.Time         `gorm:"not null" json:"record_date"`
	CreatedAt  time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient     User         `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Author      User         `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Attachments []FileObject `gorm:"foreignKey:RecordID" json:"attachments,omitempty"`
}

func (MedicalRecord) TableName() string {
	return "medical_records"
}
