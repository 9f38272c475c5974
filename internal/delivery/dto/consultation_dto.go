package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateConsultationRequest struct {
	AppointmentID uuid.UUID       `json:"appointment_id" validate:"required"`
	Fee           decimal.Decimal `json:"fee"`
}

type EndConsultationRequest struct {
	Notes string `json:"notes" validate:"omitempty"`
}

type ConsultationResponse struct {
	ID            uuid.UUID       `json:"id"`
	AppointmentID uuid.UUID       `json:"appointment_id"`
	PatientID     uuid.UUID       `json:"patient_id"`
	DoctorID      uuid.UUID       `json:"doctor_id"`
	RoomName      string          `json:"room_name"`
	Status        string          `json:"status"`
	Fee           decimal.Decimal `json:"fee"`
	Notes         string          `json:"notes,omitempty"`
	StartedAt     *time.Time      `json:"started_at,omitempty"`
	EndedAt       *time.Time      `json:"ended_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// RoomTokenResponse carries the signed credential a participant presents to
// join the consultation room.
type RoomTokenResponse struct {
	RoomName  string `json:"room_name"`
	RoomToken string `json:"room_token"`
}

type ConsultationListResponse struct {
	Consultations []ConsultationResponse `json:"consultations"`
	Total         int64                  `json:"total"`
}
