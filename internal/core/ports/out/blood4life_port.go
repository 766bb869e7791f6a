package out

import (
	"context"

	"github.com/suchimauz/blood4life-appointment-scheduler/internal/core/domain"
)

// AppointmentStorePort — удалённое хранилище записей на донацию.
// Переходы статусов происходят на стороне бэкенда, мы только читаем,
// создаём и удаляем
type AppointmentStorePort interface {
	GetDonorAppointments(ctx context.Context, donorID int64) ([]domain.Appointment, error)
	GetAllAppointments(ctx context.Context) ([]domain.Appointment, error)
	GetTodayHospitalAppointments(ctx context.Context, hospitalID int64) ([]domain.AppointmentWithDonor, error)
	CreateAppointment(ctx context.Context, appointment domain.Appointment) (*domain.Appointment, error)
	DeleteAppointment(ctx context.Context, appointmentID int64) error
}

// DirectoryPort — справочник госпиталей, кампаний и доноров
type DirectoryPort interface {
	GetHospitals(ctx context.Context) ([]domain.Hospital, error)
	GetCampaigns(ctx context.Context) ([]domain.Campaign, error)
	GetDonor(ctx context.Context, donorID int64) (*domain.Donor, error)
}

// NotificationPort — REST-часть уведомлений, push приходит отдельно по websocket
type NotificationPort interface {
	GetNotifications(ctx context.Context) ([]domain.Notification, error)
	GetUnreadCount(ctx context.Context) (int, error)
	MarkAsRead(ctx context.Context, notificationID int64) error
	MarkAllAsRead(ctx context.Context) error
}
