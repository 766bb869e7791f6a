package services

import (
	"context"
	"fmt"

	"github.com/suchimauz/blood4life-appointment-scheduler/internal/core/domain"
	"github.com/suchimauz/blood4life-appointment-scheduler/internal/core/json_types"
	"github.com/suchimauz/blood4life-appointment-scheduler/internal/core/ports/out"
	"github.com/suchimauz/blood4life-appointment-scheduler/internal/utils"
)

type EligibilityService struct {
	storePort     out.AppointmentStorePort
	directoryPort out.DirectoryPort
	logger        out.LoggerPort
}

func NewEligibilityService(
	storePort out.AppointmentStorePort,
	directoryPort out.DirectoryPort,
	logger out.LoggerPort,
) *EligibilityService {
	return &EligibilityService{
		storePort:     storePort,
		directoryPort: directoryPort,
		logger:        logger.WithModule("EligibilityService"),
	}
}

// EvaluateEligibility — чистая функция над уже загруженной историей.
// Порядок проверок важен: будущая запись блокирует независимо от истории
// завершённых донаций
func EvaluateEligibility(donor domain.Donor, appointments []domain.Appointment, today json_types.Date) domain.Eligibility {
	waitingDays := donor.WaitingPeriodDays()

	// Донор не может держать две будущие записи одновременно.
	// Дата доступности считается от даты будущей записи, чисто информационно
	for _, appointment := range appointments {
		if appointment.IsUpcoming(today) {
			return domain.Eligibility{
				Allowed:       false,
				Reason:        domain.EligibilityReasonUpcomingAppointment,
				AvailableDate: appointment.DateAppointment.AddDays(waitingDays),
			}
		}
	}

	// Ищем последнюю завершённую донацию
	var lastDonationDate json_types.Date
	hasCompleted := false
	for _, appointment := range appointments {
		if !appointment.IsCompleted() {
			continue
		}
		if !hasCompleted || lastDonationDate.Before(appointment.DateAppointment) {
			lastDonationDate = appointment.DateAppointment
			hasCompleted = true
		}
	}

	if hasCompleted {
		availableDate := lastDonationDate.AddDays(waitingDays)
		if today.Before(availableDate) {
			return domain.Eligibility{
				Allowed:       false,
				Reason:        domain.EligibilityReasonWaitingPeriod,
				AvailableDate: availableDate,
				DaysRemaining: utils.DaysBetween(today.Date, availableDate.Date),
			}
		}
		return domain.Eligibility{Allowed: true}
	}

	// Истории нет, следующий допустимый день — дата регистрации донора
	return domain.Eligibility{
		Allowed:       true,
		AvailableDate: donor.RegistrationDate,
	}
}

func (s *EligibilityService) CheckEligibility(ctx context.Context, donorID int64) (*domain.Eligibility, error) {
	s.logger.Info("eligibility.check.started", out.LogFields{
		"donorId": donorID,
	})

	donor, err := s.directoryPort.GetDonor(ctx, donorID)
	if err != nil {
		s.logger.Error("eligibility.check.donor.fetch_failed", out.LogFields{
			"donorId": donorID,
			"error":   err.Error(),
		})
		return nil, fmt.Errorf("eligibility.check.donor.fetch_failed: %w", err)
	}

	// Ошибка загрузки истории закрывает бронирование, а не пропускает его
	appointments, err := s.storePort.GetDonorAppointments(ctx, donorID)
	if err != nil {
		s.logger.Error("eligibility.check.appointments.fetch_failed", out.LogFields{
			"donorId": donorID,
			"error":   err.Error(),
		})
		return nil, fmt.Errorf("eligibility.check.appointments.fetch_failed: %w", err)
	}

	eligibility := EvaluateEligibility(*donor, appointments, utils.Today())

	s.logger.Debug("eligibility.check.finished", out.LogFields{
		"donorId":       donorID,
		"allowed":       eligibility.Allowed,
		"reason":        eligibility.Reason,
		"daysRemaining": eligibility.DaysRemaining,
	})

	return &eligibility, nil
}
