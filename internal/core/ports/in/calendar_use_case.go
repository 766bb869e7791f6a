package in

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/suchimauz/blood4life-appointment-scheduler/internal/core/domain"
)

type CalendarUseCase interface {
	// Сетка месяца с классификацией дней по кампаниям, read-only вариант
	CampaignMonth(ctx context.Context, year int, month time.Month) (*domain.CalendarMonth, error)

	// Сетка месяца для выбора даты внутри потока бронирования
	BookingMonth(ctx context.Context, flowID uuid.UUID, year int, month time.Month) (*domain.CalendarMonth, error)
}
