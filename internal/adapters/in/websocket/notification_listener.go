package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"github.com/suchimauz/blood4life-appointment-scheduler/internal/config"
	"github.com/suchimauz/blood4life-appointment-scheduler/internal/core/domain"
	"github.com/suchimauz/blood4life-appointment-scheduler/internal/core/ports/in"
	"github.com/suchimauz/blood4life-appointment-scheduler/internal/core/ports/out"
)

// Пауза перед переподключением, пока сокет лежит, работает опрос раз в минуту
const reconnectDelay = 5 * time.Second

// NotificationListener подписывается на push-уведомления бэкенда.
// Дубликаты с опросом гасятся идемпотентным слиянием в сервисе
type NotificationListener struct {
	useCase       in.NotificationUseCase
	cfg           *config.Config
	logger        out.LoggerPort
	recipientType domain.NotificationRecipientType
	recipientID   int64

	cancel context.CancelFunc
}

func NewNotificationListener(
	useCase in.NotificationUseCase,
	cfg *config.Config,
	logger out.LoggerPort,
	recipientType domain.NotificationRecipientType,
	recipientID int64,
) *NotificationListener {
	if !cfg.WebSocket.Enabled {
		logger.Info("websocket.disabled", out.LogFields{
			"message": "WebSocket is disabled, listener will not be started",
		})
		return nil
	}

	return &NotificationListener{
		useCase:       useCase,
		cfg:           cfg,
		logger:        logger,
		recipientType: recipientType,
		recipientID:   recipientID,
	}
}

func (l *NotificationListener) topic() string {
	return fmt.Sprintf("/topic/notifications/%s/%d", l.recipientType, l.recipientID)
}

func (l *NotificationListener) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	l.cancel = cancel

	go l.run(ctx)

	return nil
}

func (l *NotificationListener) Stop() error {
	if l == nil || l.cancel == nil {
		return nil
	}

	l.cancel()
	return nil
}

// run держит соединение живым, разрыв приводит к переподключению
func (l *NotificationListener) run(ctx context.Context) {
	url := l.cfg.WebSocket.URL + l.topic()

	for {
		if ctx.Err() != nil {
			return
		}

		conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
		if err != nil {
			l.logger.Warn("websocket.connect.failed", out.LogFields{
				"url":   url,
				"error": err.Error(),
			})

			select {
			case <-ctx.Done():
				return
			case <-time.After(reconnectDelay):
				continue
			}
		}

		l.logger.Info("websocket.connected", out.LogFields{
			"topic": l.topic(),
		})

		l.readLoop(ctx, conn)
		conn.Close()
	}
}

func (l *NotificationListener) readLoop(ctx context.Context, conn *websocket.Conn) {
	// Закрытие по контексту прерывает блокирующее чтение
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				l.logger.Warn("websocket.read.failed", out.LogFields{
					"error": err.Error(),
				})
			}
			return
		}

		var notification domain.Notification
		if err := json.Unmarshal(message, &notification); err != nil {
			l.logger.Error("websocket.message.decode_failed", out.LogFields{
				"error":   err.Error(),
				"message": string(message),
			})
			continue
		}

		l.useCase.MergePushed(ctx, notification)

		l.logger.Debug("websocket.notification.received", out.LogFields{
			"notificationId": notification.ID,
		})
	}
}
