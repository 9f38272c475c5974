package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateChannelRequest struct {
	MemberID uuid.UUID `json:"member_id" validate:"required"`
	Name     string    `json:"name" validate:"omitempty,max=255"`
}

type SendMessageRequest struct {
	Body string `json:"body" validate:"required,max=4000"`
}

type ChannelMemberResponse struct {
	UserID   uuid.UUID `json:"user_id"`
	FullName string    `json:"full_name,omitempty"`
}

type ChannelResponse struct {
	ID        uuid.UUID               `json:"id"`
	Name      string                  `json:"name,omitempty"`
	Type      string                  `json:"type"`
	Members   []ChannelMemberResponse `json:"members,omitempty"`
	CreatedAt time.Time               `json:"created_at"`
}

type ChannelListResponse struct {
	Channels []ChannelResponse `json:"channels"`
	Total    int               `json:"total"`
}

type MessageResponse struct {
	ID         uuid.UUID `json:"id"`
	ChannelID  uuid.UUID `json:"channel_id"`
	SenderID   uuid.UUID `json:"sender_id"`
	SenderName string    `json:"sender_name,omitempty"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}

type MessageListResponse struct {
	Messages []MessageResponse `json:"messages"`
	Total    int64             `json:"total"`
}
