package out

import (
	"context"

	"github.com/suchimauz/blood4life-appointment-scheduler/internal/core/domain"
)

type CachePort interface {
	// Кэширование списков записей донора
	GetDonorAppointments(ctx context.Context, donorID int64) ([]domain.Appointment, bool)
	StoreDonorAppointments(ctx context.Context, donorID int64, appointments []domain.Appointment)
	InvalidateDonorAppointments(ctx context.Context, donorID int64)

	// Кэширование справочника госпиталей
	GetHospitals(ctx context.Context) ([]domain.Hospital, bool)
	StoreHospitals(ctx context.Context, hospitals []domain.Hospital)
	InvalidateHospitals(ctx context.Context)
}
