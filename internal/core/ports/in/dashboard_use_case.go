package in

import (
	"context"

	"github.com/suchimauz/blood4life-appointment-scheduler/internal/core/domain"
)

// Витрины для кабинетов госпиталя и администратора
type DashboardUseCase interface {
	AllAppointments(ctx context.Context) ([]domain.Appointment, error)
	TodayHospitalAppointments(ctx context.Context, hospitalID int64) ([]domain.AppointmentWithDonor, error)
}
