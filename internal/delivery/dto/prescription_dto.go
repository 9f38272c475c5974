package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreatePrescriptionRequest struct {
	PatientID     uuid.UUID  `json:"patient_id" validate:"required"`
	AppointmentID *uuid.UUID `json:"appointment_id" validate:"omitempty"`
	Medication    string     `json:"medication" validate:"required,max=255"`
	Dosage        string     `json:"dosage" validate:"required,max=100"`
	Instructions  string     `json:"instructions" validate:"omitempty"`
}

type UpdatePrescriptionRequest struct {
	Dosage       *string `json:"dosage" validate:"omitempty,max=100"`
	Instructions *string `json:"instructions" validate:"omitempty"`
	Status       *string `json:"status" validate:"omitempty,oneof=active completed cancelled"`
}

type PrescriptionResponse struct {
	ID            uuid.UUID  `json:"id"`
	PatientID     uuid.UUID  `json:"patient_id"`
	DoctorID      uuid.UUID  `json:"doctor_id"`
	DoctorName    string     `json:"doctor_name,omitempty"`
	AppointmentID *uuid.UUID `json:"appointment_id,omitempty"`
	Medication    string     `json:"medication"`
	Dosage        string     `json:"dosage"`
	Instructions  string     `json:"instructions,omitempty"`
	Status        string     `json:"status"`
	IssuedAt      time.Time  `json:"issued_at"`
	CreatedAt     time.Time  `json:"created_at"`
}

type PrescriptionListResponse struct {
	Prescriptions []PrescriptionResponse `json:"prescriptions"`
	Total         int64                  `json:"total"`
}
