package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/suchimauz/blood4life-appointment-scheduler/internal/config"
	"github.com/suchimauz/blood4life-appointment-scheduler/internal/core/domain"
	"github.com/suchimauz/blood4life-appointment-scheduler/internal/core/ports/out"
)

// AppointmentListener слушает изменения записей на бэкенде и сбрасывает
// кэш списков затронутого донора. Переходы статусов делаются на стороне
// бэкенда, без этого канала кэш жил бы до вытеснения
type AppointmentListener struct {
	conn      *amqp.Connection
	channel   *amqp.Channel
	cachePort out.CachePort
	cfg       *config.Config
	logger    out.LoggerPort
}

type (
	CacheHitType         string
	CacheHitResourceType string
)

const (
	CacheHitResourceTypeAppointment CacheHitResourceType = "appointment"
)

const (
	CacheHitTypeStore      CacheHitType = "store"
	CacheHitTypeInvalidate CacheHitType = "invalidate"
)

type CacheMessageRoutingKey struct {
	Source       string
	Receiver     string
	ResourceType CacheHitResourceType
	CacheHitType CacheHitType
}

type CacheAppointmentMessage struct {
	Appointment domain.Appointment `json:"appointment"`
}

func NewAppointmentListener(cachePort out.CachePort, cfg *config.Config, logger out.LoggerPort) (*AppointmentListener, error) {
	if !cfg.RabbitMQ.Enabled {
		logger.Info("rabbitmq.disabled", out.LogFields{
			"message": "RabbitMQ is disabled, listener will not be started",
		})
		return nil, nil
	}

	conn, err := amqp.Dial(cfg.RabbitMQ.URL)
	if err != nil {
		logger.Error("rabbitmq.connect.failed", out.LogFields{
			"error": err.Error(),
			"url":   cfg.RabbitMQ.URL,
		})
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		logger.Error("rabbitmq.channel.failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}

	return &AppointmentListener{
		conn:      conn,
		channel:   channel,
		cachePort: cachePort,
		cfg:       cfg,
		logger:    logger,
	}, nil
}

func (l *AppointmentListener) Start(ctx context.Context) error {
	queue, err := l.channel.QueueDeclare(
		l.cfg.RabbitMQ.AppointmentQueue,
		true,  // durable
		true,  // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return err
	}

	msgs, err := l.channel.Consume(
		queue.Name,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return err
	}

	l.logger.Info("appointment.queue.started", out.LogFields{
		"queue": queue.Name,
	})

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-msgs:
				if err := l.processAppointmentMessage(ctx, msg); err != nil {
					l.logger.Error("appointment.message.process_failed", out.LogFields{
						"error": err.Error(),
					})
					msg.Nack(false, true) // requeue message
					continue
				}
				msg.Ack(false)
			}
		}
	}()

	return nil
}

func (l *AppointmentListener) Stop() error {
	if l == nil || l.channel == nil {
		return nil
	}

	if err := l.channel.Close(); err != nil {
		return err
	}
	return l.conn.Close()
}

// Пример routingKey:
// blood4life.appointment-scheduler.appointment.v1.store
// blood4life.appointment-scheduler.appointment.v1.invalidate
func (l *AppointmentListener) parseCacheMessageRoutingKey(msg amqp.Delivery) (CacheMessageRoutingKey, error) {
	routingKey := msg.RoutingKey
	parts := strings.Split(routingKey, ".")

	if len(parts) < 5 {
		return CacheMessageRoutingKey{}, fmt.Errorf("invalid routing key: %s", routingKey)
	}

	return CacheMessageRoutingKey{
		Source:       parts[0],
		Receiver:     parts[1],
		ResourceType: CacheHitResourceType(parts[2]),
		CacheHitType: CacheHitType(parts[4]),
	}, nil
}

func (l *AppointmentListener) processAppointmentMessage(ctx context.Context, msg amqp.Delivery) error {
	routingKey, err := l.parseCacheMessageRoutingKey(msg)
	if err != nil {
		return err
	}

	if routingKey.ResourceType != CacheHitResourceTypeAppointment {
		return nil
	}

	var msgJson CacheAppointmentMessage
	if err := json.Unmarshal(msg.Body, &msgJson); err != nil {
		return err
	}

	l.logger.Info("appointment.message.received", out.LogFields{
		"appointmentId": msgJson.Appointment.ID,
		"donorId":       msgJson.Appointment.BloodDonorID,
		"type":          routingKey.CacheHitType,
	})

	// В обоих случаях локальный список донора устарел.
	// Следующее чтение перечитает его из хранилища
	if l.cachePort != nil && (routingKey.CacheHitType == CacheHitTypeStore || routingKey.CacheHitType == CacheHitTypeInvalidate) {
		l.cachePort.InvalidateDonorAppointments(ctx, msgJson.Appointment.BloodDonorID)

		l.logger.Debug("appointment.message.cache_invalidated", out.LogFields{
			"donorId": msgJson.Appointment.BloodDonorID,
		})
	}

	return nil
}
