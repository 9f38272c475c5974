package usecase

import (
	"context"

	"telemed-platform/internal/domain/entity"
	"telemed-platform/internal/domain/repository"
	"telemed-platform/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Notifier writes in-app notifications and pushes them onto the realtime
// feed. The row is written on the caller's transaction; the feed event is
// best-effort and may race the commit by a moment.
type Notifier struct {
	log              *logrus.Logger
	notificationRepo repository.NotificationRepository
	realtime         *service.RealtimeService
}

func NewNotifier(log *logrus.Logger, notificationRepo repository.NotificationRepository, realtime *service.RealtimeService) *Notifier {
	return &Notifier{
		log:              log,
		notificationRepo: notificationRepo,
		realtime:         realtime,
	}
}

func (n *Notifier) Notify(tx *gorm.DB, userID uuid.UUID, notificationType, title, message string, data entity.JSON) error {
	notification := &entity.Notification{
		UserID:  userID,
		Type:    notificationType,
		Title:   title,
		Message: message,
		Data:    data,
	}
	if err := n.notificationRepo.Create(tx, notification); err != nil {
		n.log.Warnf("Failed to create notification: %+v", err)
		return err
	}

	event := service.NewChangeEvent(entity.Notification{}.TableName(), service.ActionInsert, notification.ID.String(), notification)
	if err := n.realtime.Publish(context.Background(), event); err != nil {
		n.log.Warnf("Failed to publish notification event: %+v", err)
	}
	return nil
}
