package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateMedicalRecordRequest struct {
	PatientID  uuid.UUID `json:"patient_id" validate:"required"`
	RecordType string    `json:"record_type" validate:"required,oneof=consultation_note lab_result prescription imaging_report vaccination allergy discharge_summary"`
	Title      string    `json:"title" validate:"required,max=255"`
	Summary    string    `json:"summary" validate:"omitempty"`
	Details    string    `json:"details" validate:"omitempty"`
	RecordDate string    `json:"record_date" validate:"required"`
}

type UpdateMedicalRecordRequest struct {
	Title   *string `json:"title" validate:"omitempty,max=255"`
	Summary *string `json:"summary" validate:"omitempty"`
	Details *string `json:"details" validate:"omitempty"`
}

type AttachmentResponse struct {
	ID          uuid.UUID `json:"id"`
	ObjectName  string    `json:"object_name"`
	ContentType string    `json:"content_type,omitempty"`
	Size        int64     `json:"size"`
	PublicURL   string    `json:"public_url"`
}

type MedicalRecordResponse struct {
	ID          uuid.UUID            `json:"id"`
	PatientID   uuid.UUID            `json:"patient_id"`
	AuthorID    uuid.UUID            `json:"author_id"`
	RecordType  string               `json:"record_type"`
	Title       string               `json:"title"`
	Summary     string               `json:"summary,omitempty"`
	Details     string               `json:"details,omitempty"`
	RecordDate  time.Time            `json:"record_date"`
	Attachments []AttachmentResponse `json:"attachments,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

type MedicalRecordListResponse struct {
	Records []MedicalRecordResponse `json:"records"`
	Total   int64                   `json:"total"`
}
