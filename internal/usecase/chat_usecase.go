package usecase

import (
	"context"
	"errors"

	"telemed-platform/internal/converter"
	"telemed-platform/internal/delivery/dto"
	"telemed-platform/internal/domain/entity"
	"telemed-platform/internal/domain/repository"
	"telemed-platform/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrChannelNotFound  = errors.New("chat channel not found")
	ErrNotChannelMember = errors.New("not a member of this channel")
	ErrSelfChannel      = errors.New("cannot open a channel with yourself")
	ErrMemberNotFound   = errors.New("channel member not found")
)

type ChatUsecase interface {
	OpenDirectChannel(ctx context.Context, userID uuid.UUID, req *dto.CreateChannelRequest) (*dto.ChannelResponse, error)
	ListMyChannels(ctx context.Context, userID uuid.UUID) (*dto.ChannelListResponse, error)
	SendMessage(ctx context.Context, senderID uuid.UUID, channelID uuid.UUID, req *dto.SendMessageRequest) (*dto.MessageResponse, error)
	ListMessages(ctx context.Context, userID uuid.UUID, channelID uuid.UUID, limit, offset int) (*dto.MessageListResponse, error)
}

type chatUsecase struct {
	db          *gorm.DB
	log         *logrus.Logger
	channelRepo repository.ChatChannelRepository
	messageRepo repository.ChatMessageRepository
	userRepo    repository.UserRepository
	notifier    *Notifier
	realtime    *service.RealtimeService
}

func NewChatUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	channelRepo repository.ChatChannelRepository,
	messageRepo repository.ChatMessageRepository,
	userRepo repository.UserRepository,
	notifier *Notifier,
	realtime *service.RealtimeService,
) ChatUsecase {
	return &chatUsecase{
		db:          db,
		log:         log,
		channelRepo: channelRepo,
		messageRepo: messageRepo,
		userRepo:    userRepo,
		notifier:    notifier,
		realtime:    realtime,
	}
}

// OpenDirectChannel returns the existing direct channel between the two users
// or creates one. Opening the same pair twice never yields two channels.
func (u *chatUsecase) OpenDirectChannel(ctx context.Context, userID uuid.UUID, req *dto.CreateChannelRequest) (*dto.ChannelResponse, error) {
	if req.MemberID == userID {
		return nil, ErrSelfChannel
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	member, err := u.userRepo.FindByID(tx, req.MemberID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, ErrMemberNotFound
	}

	existing, err := u.channelRepo.FindDirectChannel(tx, userID, req.MemberID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		tx.Rollback()
		return converter.ChannelToResponse(existing), nil
	}

	channel := &entity.ChatChannel{
		Name:      req.Name,
		Type:      entity.ChannelTypeDirect,
		CreatedBy: userID,
	}
	if err := u.channelRepo.Create(tx, channel); err != nil {
		u.log.Warnf("Failed to create chat channel: %+v", err)
		return nil, err
	}
	for _, id := range []uuid.UUID{userID, req.MemberID} {
		if err := u.channelRepo.AddMember(tx, &entity.ChatChannelMember{ChannelID: channel.ID, UserID: id}); err != nil {
			u.log.Warnf("Failed to add channel member: %+v", err)
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	channel.Members = []entity.ChatChannelMember{
		{ChannelID: channel.ID, UserID: userID},
		{ChannelID: channel.ID, UserID: req.MemberID},
	}
	return converter.ChannelToResponse(channel), nil
}

func (u *chatUsecase) ListMyChannels(ctx context.Context, userID uuid.UUID) (*dto.ChannelListResponse, error) {
	channels, err := u.channelRepo.FindByMember(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to list channels: %+v", err)
		return nil, err
	}

	return &dto.ChannelListResponse{
		Channels: converter.ChannelsToResponses(channels),
		Total:    len(channels),
	}, nil
}

func (u *chatUsecase) SendMessage(ctx context.Context, senderID uuid.UUID, channelID uuid.UUID, req *dto.SendMessageRequest) (*dto.MessageResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	channel, err := u.channelRepo.FindByID(tx, channelID)
	if err != nil {
		return nil, err
	}
	if channel == nil {
		return nil, ErrChannelNotFound
	}
	if !channel.HasMember(senderID) {
		return nil, ErrNotChannelMember
	}

	message := &entity.ChatMessage{
		ChannelID: channelID,
		SenderID:  senderID,
		Body:      req.Body,
	}
	if err := u.messageRepo.Create(tx, message); err != nil {
		u.log.Warnf("Failed to create chat message: %+v", err)
		return nil, err
	}

	for _, member := range channel.Members {
		if member.UserID == senderID {
			continue
		}
		if err := u.notifier.Notify(tx, member.UserID, entity.NotificationTypeChatMessage,
			"New message",
			"You have a new chat message",
			entity.JSON{"channel_id": channelID.String(), "message_id": message.ID.String()},
		); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	event := service.NewChangeEvent(entity.ChatMessage{}.TableName(), service.ActionInsert, message.ID.String(), message)
	if err := u.realtime.Publish(ctx, event); err != nil {
		u.log.Warnf("Failed to publish chat message: %+v", err)
	}

	return converter.MessageToResponse(message), nil
}

func (u *chatUsecase) ListMessages(ctx context.Context, userID uuid.UUID, channelID uuid.UUID, limit, offset int) (*dto.MessageListResponse, error) {
	db := u.db.WithContext(ctx)

	channel, err := u.channelRepo.FindByID(db, channelID)
	if err != nil {
		return nil, err
	}
	if channel == nil {
		return nil, ErrChannelNotFound
	}
	if !channel.HasMember(userID) {
		return nil, ErrNotChannelMember
	}

	messages, total, err := u.messageRepo.FindByChannel(db, channelID, repository.ListOptions{
		OrderBy: "created_at desc",
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		u.log.Warnf("Failed to list messages: %+v", err)
		return nil, err
	}

	return &dto.MessageListResponse{
		Messages: converter.MessagesToResponses(messages),
		Total:    total,
	}, nil
}
