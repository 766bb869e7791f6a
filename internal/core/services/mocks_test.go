package services

import (
	"context"
	"errors"

	"github.com/suchimauz/blood4life-appointment-scheduler/internal/core/domain"
	"github.com/suchimauz/blood4life-appointment-scheduler/internal/core/ports/out"
)

var errBackendDown = errors.New("backend unavailable")

type nopLogger struct{}

func (nopLogger) Debug(event string, fields out.LogFields) {}
func (nopLogger) Info(event string, fields out.LogFields) {}
func (nopLogger) Warn(event string, fields out.LogFields) {}
func (nopLogger) Error(event string, fields out.LogFields) {}
func (l nopLogger) WithFields(fields out.LogFields) out.LoggerPort { return l }
func (l nopLogger) WithModule(module string) out.LoggerPort        { return l }

type mockAppointmentStore struct {
	getDonorAppointmentsFn         func(ctx context.Context, donorID int64) ([]domain.Appointment, error)
	getAllAppointmentsFn           func(ctx context.Context) ([]domain.Appointment, error)
	getTodayHospitalAppointmentsFn func(ctx context.Context, hospitalID int64) ([]domain.AppointmentWithDonor, error)
	createAppointmentFn            func(ctx context.Context, appointment domain.Appointment) (*domain.Appointment, error)
	deleteAppointmentFn            func(ctx context.Context, appointmentID int64) error
}

func (m *mockAppointmentStore) GetDonorAppointments(ctx context.Context, donorID int64) ([]domain.Appointment, error) {
	if m.getDonorAppointmentsFn != nil {
		return m.getDonorAppointmentsFn(ctx, donorID)
	}
	return nil, nil
}

func (m *mockAppointmentStore) GetAllAppointments(ctx context.Context) ([]domain.Appointment, error) {
	if m.getAllAppointmentsFn != nil {
		return m.getAllAppointmentsFn(ctx)
	}
	return nil, nil
}

func (m *mockAppointmentStore) GetTodayHospitalAppointments(ctx context.Context, hospitalID int64) ([]domain.AppointmentWithDonor, error) {
	if m.getTodayHospitalAppointmentsFn != nil {
		return m.getTodayHospitalAppointmentsFn(ctx, hospitalID)
	}
	return nil, nil
}

func (m *mockAppointmentStore) CreateAppointment(ctx context.Context, appointment domain.Appointment) (*domain.Appointment, error) {
	if m.createAppointmentFn != nil {
		return m.createAppointmentFn(ctx, appointment)
	}
	created := appointment
	created.ID = 1
	return &created, nil
}

func (m *mockAppointmentStore) DeleteAppointment(ctx context.Context, appointmentID int64) error {
	if m.deleteAppointmentFn != nil {
		return m.deleteAppointmentFn(ctx, appointmentID)
	}
	return nil
}

type mockDirectory struct {
	getHospitalsFn func(ctx context.Context) ([]domain.Hospital, error)
	getCampaignsFn func(ctx context.Context) ([]domain.Campaign, error)
	getDonorFn     func(ctx context.Context, donorID int64) (*domain.Donor, error)
}

func (m *mockDirectory) GetHospitals(ctx context.Context) ([]domain.Hospital, error) {
	if m.getHospitalsFn != nil {
		return m.getHospitalsFn(ctx)
	}
	return nil, nil
}

func (m *mockDirectory) GetCampaigns(ctx context.Context) ([]domain.Campaign, error) {
	if m.getCampaignsFn != nil {
		return m.getCampaignsFn(ctx)
	}
	return nil, nil
}

func (m *mockDirectory) GetDonor(ctx context.Context, donorID int64) (*domain.Donor, error) {
	if m.getDonorFn != nil {
		return m.getDonorFn(ctx, donorID)
	}
	return &domain.Donor{ID: donorID, Gender: domain.DonorGenderMale}, nil
}

type mockNotificationPort struct {
	getNotificationsFn func(ctx context.Context) ([]domain.Notification, error)
	getUnreadCountFn   func(ctx context.Context) (int, error)
	markAsReadFn       func(ctx context.Context, notificationID int64) error
	markAllAsReadFn    func(ctx context.Context) error
}

func (m *mockNotificationPort) GetNotifications(ctx context.Context) ([]domain.Notification, error) {
	if m.getNotificationsFn != nil {
		return m.getNotificationsFn(ctx)
	}
	return nil, nil
}

func (m *mockNotificationPort) GetUnreadCount(ctx context.Context) (int, error) {
	if m.getUnreadCountFn != nil {
		return m.getUnreadCountFn(ctx)
	}
	return 0, nil
}

func (m *mockNotificationPort) MarkAsRead(ctx context.Context, notificationID int64) error {
	if m.markAsReadFn != nil {
		return m.markAsReadFn(ctx, notificationID)
	}
	return nil
}

func (m *mockNotificationPort) MarkAllAsRead(ctx context.Context) error {
	if m.markAllAsReadFn != nil {
		return m.markAllAsReadFn(ctx)
	}
	return nil
}
