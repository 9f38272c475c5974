package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"telemed-platform/internal/delivery/dto"
	"telemed-platform/internal/delivery/http/middleware"
	"telemed-platform/internal/usecase"
	"telemed-platform/pkg/response"
	"telemed-platform/pkg/validator"
)

type ChatHandler struct {
	chatUsecase usecase.ChatUsecase
	validator   *validator.CustomValidator
}

func NewChatHandler(chatUsecase usecase.ChatUsecase, validator *validator.CustomValidator) *ChatHandler {
	return &ChatHandler{
		chatUsecase: chatUsecase,
		validator:   validator,
	}
}

// OpenChannel opens (or returns) the direct channel with another user
// @Summary Open direct channel
// @Tags Chat
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateChannelRequest true "Channel Request"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /chat/channels [post]
func (h *ChatHandler) OpenChannel(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	var req dto.CreateChannelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	channel, err := h.chatUsecase.OpenDirectChannel(r.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrSelfChannel):
			response.Error(w, http.StatusBadRequest, err.Error(), nil)
		case errors.Is(err, usecase.ErrMemberNotFound):
			response.NotFound(w, "User not found")
		default:
			response.InternalServerError(w, "Failed to open channel")
		}
		return
	}

	response.Success(w, http.StatusOK, "Channel ready", channel)
}

// ListChannels lists the caller's chat channels
// @Summary List channels
// @Tags Chat
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /chat/channels [get]
func (h *ChatHandler) ListChannels(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	channels, err := h.chatUsecase.ListMyChannels(r.Context(), userID)
	if err != nil {
		response.InternalServerError(w, "Failed to list channels")
		return
	}

	response.Success(w, http.StatusOK, "Channels retrieved", channels)
}

// SendMessage posts a message to a channel
// @Summary Send message
// @Tags Chat
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Channel ID"
// @Param request body dto.SendMessageRequest true "Message Request"
// @Success 201 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /chat/channels/{id}/messages [post]
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	channelID, err := pathUUID(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid channel ID", nil)
		return
	}

	var req dto.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	message, err := h.chatUsecase.SendMessage(r.Context(), userID, channelID, &req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Success(w, http.StatusCreated, "Message sent", message)
}

// ListMessages returns a channel's message history, newest first
// @Summary List messages
// @Tags Chat
// @Security BearerAuth
// @Produce json
// @Param id path string true "Channel ID"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /chat/channels/{id}/messages [get]
func (h *ChatHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	limit, offset := parsePagination(r)

	channelID, err := pathUUID(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid channel ID", nil)
		return
	}

	messages, err := h.chatUsecase.ListMessages(r.Context(), userID, channelID, limit, offset)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Messages retrieved", messages, response.NewMeta(limit, offset, messages.Total))
}

func (h *ChatHandler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, usecase.ErrChannelNotFound):
		response.NotFound(w, "Channel not found")
	case errors.Is(err, usecase.ErrNotChannelMember):
		response.Forbidden(w, err.Error())
	default:
		response.InternalServerError(w, "Failed to process chat request")
	}
}
