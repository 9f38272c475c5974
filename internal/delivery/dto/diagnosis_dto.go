package dto

import (
	"time"

	"github.com/google/uuid"
)

type StartDiagnosisRequest struct {
	Age int    `json:"age" validate:"required,gte=0,lte=130"`
	Sex string `json:"sex" validate:"required,oneof=male female"`
}

type DiagnosisMessageRequest struct {
	Symptoms string `json:"symptoms" validate:"required,max=4000"`
}

type DiagnosisConditionResponse struct {
	Name        string  `json:"name"`
	Probability float64 `json:"probability"`
}

type DiagnosisMessageResponse struct {
	ID          int64                        `json:"id"`
	SessionID   uuid.UUID                    `json:"session_id"`
	Role        string                       `json:"role"`
	Content     string                       `json:"content"`
	Conditions  []DiagnosisConditionResponse `json:"conditions,omitempty"`
	TriageLevel string                       `json:"triage_level,omitempty"`
	CreatedAt   time.Time                    `json:"created_at"`
}

type DiagnosisSessionResponse struct {
	ID        uuid.UUID                  `json:"id"`
	PatientID uuid.UUID                  `json:"patient_id"`
	Status    string                     `json:"status"`
	Summary   string                     `json:"summary,omitempty"`
	Messages  []DiagnosisMessageResponse `json:"messages,omitempty"`
	CreatedAt time.Time                  `json:"created_at"`
}

type DiagnosisSessionListResponse struct {
	Sessions []DiagnosisSessionResponse `json:"sessions"`
	Total    int64                      `json:"total"`
}
