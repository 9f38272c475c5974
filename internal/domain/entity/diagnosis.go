package entity

import (
	"time"

	"github.com/google/uuid"
)

// DiagnosisSessionStatus represents the lifecycle of a symptom-checker session
type DiagnosisSessionStatus string

const (
	DiagnosisStatusOpen   DiagnosisSessionStatus = "open"
	DiagnosisStatusClosed DiagnosisSessionStatus = "closed"
)

// DiagnosisMessageRole describes who authored a diagnosis message
type DiagnosisMessageRole string

const (
	DiagnosisRolePatient   DiagnosisMessageRole = "patient"
	DiagnosisRoleAssistant DiagnosisMessageRole = "assistant"
)

// DiagnosisSession represents one symptom-checker conversation
type DiagnosisSession struct {
	ID        uuid.UUID              `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PatientID uuid.UUID              `gorm:"type:uuid;not null;index" json:"patient_id"`
	Age       int                    `gorm:"not null" json:"age"`
	Sex       string                 `gorm:"type:varchar(10);not null" json:"sex"`
	Status    DiagnosisSessionStatus `gorm:"type:varchar(20);not null;default:'open';index" json:"status"`
	Summary   string                 `gorm:"type:text" json:"summary,omitempty"`
	CreatedAt time.Time              `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time              `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient  User               `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Messages []DiagnosisMessage `gorm:"foreignKey:SessionID" json:"messages,omitempty"`
}

func (DiagnosisSession) TableName() string {
	return "diagnosis_sessions"
}

// IsClosed checks if the session has been closed
func (s *DiagnosisSession) IsClosed() bool {
	return s.Status == DiagnosisStatusClosed
}

// DiagnosisMessage is a single exchange in a diagnosis session
type DiagnosisMessage struct {
	ID        int64                `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionID uuid.UUID            `gorm:"type:uuid;not null;index" json:"session_id"`
	Role      DiagnosisMessageRole `gorm:"type:varchar(20);not null" json:"role"`
	Content   string               `gorm:"type:text;not null" json:"content"`
	Result    JSON                 `gorm:"type:jsonb" json:"result,omitempty"`
	CreatedAt time.Time            `gorm:"autoCreateTime;index" json:"created_at"`
}

func (DiagnosisMessage) TableName() string {
	return "diagnosis_messages"
}
