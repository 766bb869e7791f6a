package in

import (
	"context"

	"github.com/suchimauz/blood4life-appointment-scheduler/internal/core/domain"
)

type NotificationUseCase interface {
	List(ctx context.Context) ([]domain.Notification, error)
	UnreadCount(ctx context.Context) (int, error)
	MarkAsRead(ctx context.Context, notificationID int64) error
	MarkAllAsRead(ctx context.Context) error

	// Приём push-уведомления из websocket, слияние обязано быть идемпотентным
	MergePushed(ctx context.Context, notification domain.Notification)
}
