package entity

import (
	"time"

	"github.com/google/uuid"
)

// Storage bucket names
const (
	BucketAvatars     = "avatars"
	BucketAttachments = "attachments"
)

// FileObject is the metadata row for an object held in the file store
type FileObject struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	OwnerID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"owner_id"`
	RecordID    *uuid.UUID `gorm:"type:uuid;index" json:"record_id,omitempty"`
	Bucket      string     `gorm:"type:varchar(100);not null" json:"bucket"`
	ObjectName  string     `gorm:"type:varchar(255);not null;index" json:"object_name"`
	ContentType string     `gorm:"type:varchar(100)" json:"content_type,omitempty"`
	Size        int64      `gorm:"not null" json:"size"`
	PublicURL   string     `gorm:"type:text;not null" json:"public_url"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	Owner User `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
}

func (FileObject) TableName() string {
	return "file_objects"
}
