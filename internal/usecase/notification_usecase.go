package usecase

import (
	"context"
	"errors"

	"telemed-platform/internal/converter"
	"telemed-platform/internal/delivery/dto"
	"telemed-platform/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrNotNotificationOwner = errors.New("not the owner of this notification")
)

type NotificationUsecase interface {
	ListMine(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit, offset int) (*dto.NotificationListResponse, error)
	MarkRead(ctx context.Context, userID uuid.UUID, id uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
	Delete(ctx context.Context, userID uuid.UUID, id uuid.UUID) error
}

type notificationUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	notificationRepo repository.NotificationRepository
}

func NewNotificationUsecase(db *gorm.DB, log *logrus.Logger, notificationRepo repository.NotificationRepository) NotificationUsecase {
	return &notificationUsecase{
		db:               db,
		log:              log,
		notificationRepo: notificationRepo,
	}
}

func (u *notificationUsecase) ListMine(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit, offset int) (*dto.NotificationListResponse, error) {
	opts := repository.ListOptions{
		OrderBy: "created_at desc",
		Limit:   limit,
		Offset:  offset,
	}
	opts = opts.WithFilter("user_id", userID)
	if unreadOnly {
		opts = opts.WithFilter("read", false)
	}

	notifications, total, err := u.notificationRepo.List(u.db.WithContext(ctx), opts)
	if err != nil {
		u.log.Warnf("Failed to list notifications: %+v", err)
		return nil, err
	}

	return &dto.NotificationListResponse{
		Notifications: converter.NotificationsToResponses(notifications),
		Total:         total,
	}, nil
}

func (u *notificationUsecase) MarkRead(ctx context.Context, userID uuid.UUID, id uuid.UUID) error {
	notification, err := u.owned(ctx, userID, id)
	if err != nil {
		return err
	}

	if _, err := u.notificationRepo.MarkRead(u.db.WithContext(ctx), notification.ID); err != nil {
		u.log.Warnf("Failed to mark notification read: %+v", err)
		return err
	}
	return nil
}

func (u *notificationUsecase) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	updated, err := u.notificationRepo.MarkAllRead(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to mark notifications read: %+v", err)
		return 0, err
	}
	return updated, nil
}

func (u *notificationUsecase) Delete(ctx context.Context, userID uuid.UUID, id uuid.UUID) error {
	notification, err := u.owned(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := u.notificationRepo.Delete(u.db.WithContext(ctx), notification.ID); err != nil {
		u.log.Warnf("Failed to delete notification: %+v", err)
		return err
	}
	return nil
}

func (u *notificationUsecase) owned(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*dto.NotificationResponse, error) {
	notification, err := u.notificationRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}
	if notification == nil {
		return nil, ErrNotificationNotFound
	}
	if notification.UserID != userID {
		return nil, ErrNotNotificationOwner
	}
	return converter.NotificationToResponse(notification), nil
}
