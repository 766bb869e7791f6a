package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/suchimauz/blood4life-appointment-scheduler/internal/core/domain"
	"github.com/suchimauz/blood4life-appointment-scheduler/internal/core/ports/out"
)

// Интервал фонового опроса, страхует недоступный websocket
const notificationPollInterval = 60 * time.Second

// NotificationService держит локальную копию уведомлений.
// Одно и то же уведомление может прийти и по push, и через опрос,
// поэтому слияние идёт по id и идемпотентно
type NotificationService struct {
	notificationPort out.NotificationPort
	logger           out.LoggerPort

	mu     sync.Mutex
	byID   map[int64]domain.Notification
	order  []int64 // новые в начале
	unread int
}

func NewNotificationService(
	notificationPort out.NotificationPort,
	logger out.LoggerPort,
) *NotificationService {
	return &NotificationService{
		notificationPort: notificationPort,
		logger:           logger.WithModule("NotificationService"),
		byID:             make(map[int64]domain.Notification),
	}
}

// StartPolling запускает фоновый опрос счётчика, остановка через контекст
func (s *NotificationService) StartPolling(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(notificationPollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := s.refresh(ctx); err != nil {
					s.logger.Warn("notifications.poll.failed", out.LogFields{
						"error": err.Error(),
					})
				}
			}
		}
	}()
}

// refresh перечитывает список и счётчик, бэкенд — источник истины
func (s *NotificationService) refresh(ctx context.Context) error {
	notifications, err := s.notificationPort.GetNotifications(ctx)
	if err != nil {
		return fmt.Errorf("notifications.fetch_failed: %w", err)
	}

	count, err := s.notificationPort.GetUnreadCount(ctx)
	if err != nil {
		return fmt.Errorf("notifications.unread_count.fetch_failed: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.byID = make(map[int64]domain.Notification, len(notifications))
	s.order = s.order[:0]
	for _, notification := range notifications {
		s.byID[notification.ID] = notification
		s.order = append(s.order, notification.ID)
	}
	s.unread = count

	return nil
}

func (s *NotificationService) List(ctx context.Context) ([]domain.Notification, error) {
	if err := s.refresh(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	notifications := make([]domain.Notification, 0, len(s.order))
	for _, id := range s.order {
		notifications = append(notifications, s.byID[id])
	}
	return notifications, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context) (int, error) {
	count, err := s.notificationPort.GetUnreadCount(ctx)
	if err != nil {
		// Сеть упала, отдаём последний известный счётчик
		s.mu.Lock()
		defer s.mu.Unlock()
		s.logger.Warn("notifications.unread_count.fallback", out.LogFields{
			"error": err.Error(),
		})
		return s.unread, nil
	}

	s.mu.Lock()
	s.unread = count
	s.mu.Unlock()

	return count, nil
}

// MergePushed вливает уведомление из websocket.
// Повтор по id — no-op, счётчик не инкрементируется дважды
func (s *NotificationService) MergePushed(ctx context.Context, notification domain.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[notification.ID]; exists {
		s.logger.Debug("notifications.push.duplicate", out.LogFields{
			"notificationId": notification.ID,
		})
		return
	}

	s.byID[notification.ID] = notification
	s.order = append([]int64{notification.ID}, s.order...)
	if !notification.Read {
		s.unread++
	}

	s.logger.Debug("notifications.push.merged", out.LogFields{
		"notificationId": notification.ID,
		"unread":         s.unread,
	})
}

func (s *NotificationService) MarkAsRead(ctx context.Context, notificationID int64) error {
	if err := s.notificationPort.MarkAsRead(ctx, notificationID); err != nil {
		return fmt.Errorf("notifications.mark_read.failed: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if notification, exists := s.byID[notificationID]; exists && !notification.Read {
		notification.Read = true
		s.byID[notificationID] = notification
		if s.unread > 0 {
			s.unread--
		}
	}

	return nil
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context) error {
	if err := s.notificationPort.MarkAllAsRead(ctx); err != nil {
		return fmt.Errorf("notifications.mark_all_read.failed: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, notification := range s.byID {
		notification.Read = true
		s.byID[id] = notification
	}
	s.unread = 0

	return nil
}
