package entity

import (
	"time"

	"github.com/google/uuid"
)

// ChatChannelType classifies a chat channel
type ChatChannelType string

const (
	ChannelTypeDirect       ChatChannelType = "direct"
	ChannelTypeConsultation ChatChannelType = "consultation"
)

// ChatChannel represents a conversation between users
type ChatChannel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name      string          `gorm:"type:varchar(255)" json:"name,omitempty"`
	Type      ChatChannelType `gorm:"type:varchar(20);not null;default:'direct'" json:"type"`
	CreatedBy uuid.UUID       `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Members  []ChatChannelMember `gorm:"foreignKey:ChannelID" json:"members,omitempty"`
	Messages []ChatMessage       `gorm:"foreignKey:ChannelID" json:"messages,omitempty"`
}

func (ChatChannel) TableName() string {
	return "chat_channels"
}

// HasMember reports whether the user belongs to the channel.
func (c *ChatChannel) HasMember(userID uuid.UUID) bool {
	for _, m := range c.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// ChatChannelMember links a user to a channel
type ChatChannelMember struct {
	ChannelID uuid.UUID `gorm:"type:uuid;primaryKey" json:"channel_id"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey;index" json:"user_id"`
	JoinedAt  time.Time `gorm:"autoCreateTime" json:"joined_at"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (ChatChannelMember) TableName() string {
	return "chat_channel_members"
}

// ChatMessage represents a single message in a channel
type ChatMessage struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ChannelID uuid.UUID `gorm:"type:uuid;not null;index" json:"channel_id"`
	SenderID  uuid.UUID `gorm:"type:uuid;not null;index" json:"sender_id"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`

	// Relationships
	Sender User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
