package services

import (
	"context"
	"fmt"

	"github.com/suchimauz/blood4life-appointment-scheduler/internal/core/domain"
	"github.com/suchimauz/blood4life-appointment-scheduler/internal/core/ports/out"
)

type DashboardService struct {
	storePort out.AppointmentStorePort
	logger    out.LoggerPort
}

func NewDashboardService(storePort out.AppointmentStorePort, logger out.LoggerPort) *DashboardService {
	return &DashboardService{
		storePort: storePort,
		logger:    logger.WithModule("DashboardService"),
	}
}

func (s *DashboardService) AllAppointments(ctx context.Context) ([]domain.Appointment, error) {
	appointments, err := s.storePort.GetAllAppointments(ctx)
	if err != nil {
		s.logger.Error("dashboard.appointments_all.fetch_failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("dashboard.appointments_all.fetch_failed: %w", err)
	}
	return appointments, nil
}

func (s *DashboardService) TodayHospitalAppointments(ctx context.Context, hospitalID int64) ([]domain.AppointmentWithDonor, error) {
	appointments, err := s.storePort.GetTodayHospitalAppointments(ctx, hospitalID)
	if err != nil {
		s.logger.Error("dashboard.appointments_today.fetch_failed", out.LogFields{
			"hospitalId": hospitalID,
			"error":      err.Error(),
		})
		return nil, fmt.Errorf("dashboard.appointments_today.fetch_failed: %w", err)
	}
	return appointments, nil
}
