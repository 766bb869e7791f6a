package in

import (
	"context"

	"github.com/google/uuid"
	"github.com/suchimauz/blood4life-appointment-scheduler/internal/core/domain"
	"github.com/suchimauz/blood4life-appointment-scheduler/internal/core/json_types"
)

type BookingUseCase interface {
	// Открытие потока, проверка допуска выполняется до показа формы
	StartFlow(ctx context.Context, donorID int64) (*domain.BookingFlowSnapshot, error)

	// Шаги формы
	SelectHospital(ctx context.Context, flowID uuid.UUID, hospitalID int64) (*domain.BookingFlowSnapshot, error)
	SelectDate(ctx context.Context, flowID uuid.UUID, date json_types.Date) (*domain.BookingFlowSnapshot, error)
	SelectTime(ctx context.Context, flowID uuid.UUID, hour json_types.HourMinute) (*domain.BookingFlowSnapshot, error)

	// Отправка и закрытие
	Submit(ctx context.Context, flowID uuid.UUID) (*domain.BookingFlowSnapshot, error)
	CloseFlow(ctx context.Context, flowID uuid.UUID) error
	GetFlow(ctx context.Context, flowID uuid.UUID) (*domain.BookingFlowSnapshot, error)

	// Список записей донора и удаление с обязательным подтверждением
	ListDonorAppointments(ctx context.Context, donorID int64) ([]domain.Appointment, error)
	DeleteAppointment(ctx context.Context, donorID int64, appointmentID int64, confirmed bool) error

	// Справочник госпиталей для формы выбора
	ListHospitals(ctx context.Context) ([]domain.Hospital, error)
}
