package converter

import (
	"telemed-platform/internal/delivery/dto"
	"telemed-platform/internal/domain/entity"

	"github.com/google/uuid"
)

// ChannelToResponse converts a ChatChannel entity to its API view
func ChannelToResponse(channel *entity.ChatChannel) *dto.ChannelResponse {
	if channel == nil {
		return nil
	}

	response := &dto.ChannelResponse{
		ID:        channel.ID,
		Name:      channel.Name,
		Type:      string(channel.Type),
		CreatedAt: channel.CreatedAt,
	}

	for _, member := range channel.Members {
		m := dto.ChannelMemberResponse{UserID: member.UserID}
		if member.User.ID != uuid.Nil {
			m.FullName = member.User.FullName
		}
		response.Members = append(response.Members, m)
	}

	return response
}

func ChannelsToResponses(channels []entity.ChatChannel) []dto.ChannelResponse {
	responses := make([]dto.ChannelResponse, len(channels))
	for i, channel := range channels {
		resp := ChannelToResponse(&channel)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}

// MessageToResponse converts a ChatMessage entity to its API view
func MessageToResponse(message *entity.ChatMessage) *dto.MessageResponse {
	if message == nil {
		return nil
	}

	response := &dto.MessageResponse{
		ID:        message.ID,
		ChannelID: message.ChannelID,
		SenderID:  message.SenderID,
		Body:      message.Body,
		CreatedAt: message.CreatedAt,
	}
	if message.Sender.ID != uuid.Nil {
		response.SenderName = message.Sender.FullName
	}

	return response
}

func MessagesToResponses(messages []entity.ChatMessage) []dto.MessageResponse {
	responses := make([]dto.MessageResponse, len(messages))
	for i, message := range messages {
		resp := MessageToResponse(&message)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}
