package entity

import (
	"time"

	"github.com/google/uuid"
)

// Notification types
const (
	NotificationTypeAppointmentCreated   = "appointment.created"
	NotificationTypeAppointmentConfirmed = "appointment.confirmed"
	NotificationTypeAppointmentCancelled = "appointment.cancelled"
	NotificationTypePrescriptionIssued   = "prescription.issued"
	NotificationTypeChatMessage          = "chat.message"
	NotificationTypeRecordAdded          = "record.added"
)

// Notification represents an in-app notification for a user
type Notification struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Type      string    `gorm:"type:varchar(50);not null;index" json:"type"`
	Title     string    `gorm:"type:varchar(255);not null" json:"title"`
	Message   string    `gorm:"type:text" json:"message,omitempty"`
	Data      JSON      `gorm:"type:jsonb" json:"data,omitempty"`
	Read      bool      `gorm:"not null;default:false;index" json:"read"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Notification) TableName() string {
	return "notifications"
}
