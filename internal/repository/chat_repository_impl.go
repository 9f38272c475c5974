package repository

import (
	"errors"

	"telemed-platform/internal/domain/entity"
	domainRepo "telemed-platform/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type chatChannelRepository struct {
	store[entity.ChatChannel]
}

func NewChatChannelRepository() domainRepo.ChatChannelRepository {
	return &chatChannelRepository{}
}

func (r *chatChannelRepository) Create(db *gorm.DB, channel *entity.ChatChannel) error {
	return r.create(db, channel)
}

func (r *chatChannelRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.ChatChannel, error) {
	return r.findByID(db, id, "Members", "Members.User")
}

func (r *chatChannelRepository) FindDirectChannel(db *gorm.DB, userA, userB uuid.UUID) (*entity.ChatChannel, error) {
	var channel entity.ChatChannel
	err := db.
		Joins("JOIN chat_channel_members a ON a.channel_id = chat_channels.id AND a.user_id = ?", userA).
		Joins("JOIN chat_channel_members b ON b.channel_id = chat_channels.id AND b.user_id = ?", userB).
		Where("chat_channels.type = ?", entity.ChannelTypeDirect).
		Preload("Members").
		First(&channel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &channel, nil
}

func (r *chatChannelRepository) FindByMember(db *gorm.DB, userID uuid.UUID) ([]entity.ChatChannel, error) {
	var channels []entity.ChatChannel
	err := db.
		Joins("JOIN chat_channel_members m ON m.channel_id = chat_channels.id AND m.user_id = ?", userID).
		Preload("Members.User").
		Order("chat_channels.updated_at DESC, chat_channels.id").
		Find(&channels).Error
	if err != nil {
		return nil, err
	}
	return channels, nil
}

func (r *chatChannelRepository) AddMember(db *gorm.DB, member *entity.ChatChannelMember) error {
	return db.Create(member).Error
}

type chatMessageRepository struct {
	store[entity.ChatMessage]
}

func NewChatMessageRepository() domainRepo.ChatMessageRepository {
	return &chatMessageRepository{}
}

func (r *chatMessageRepository) Create(db *gorm.DB, message *entity.ChatMessage) error {
	return r.create(db, message)
}

func (r *chatMessageRepository) FindByChannel(db *gorm.DB, channelID uuid.UUID, opts domainRepo.ListOptions) ([]entity.ChatMessage, int64, error) {
	opts = opts.WithFilter("channel_id", channelID)
	return r.list(db, opts, "Sender")
}
