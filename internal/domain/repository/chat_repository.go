package repository

import (
	"telemed-platform/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatChannelRepository interface {
	Create(db *gorm.DB, channel *entity.ChatChannel) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.ChatChannel, error)
	// FindDirectChannel returns the existing direct channel shared by exactly
	// the two users, or nil when none exists yet.
	FindDirectChannel(db *gorm.DB, userA, userB uuid.UUID) (*entity.ChatChannel, error)
	FindByMember(db *gorm.DB, userID uuid.UUID) ([]entity.ChatChannel, error)
	AddMember(db *gorm.DB, member *entity.ChatChannelMember) error
}

type ChatMessageRepository interface {
	Create(db *gorm.DB, message *entity.ChatMessage) error
	FindByChannel(db *gorm.DB, channelID uuid.UUID, opts ListOptions) ([]entity.ChatMessage, int64, error)
}
