package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/suchimauz/blood4life-appointment-scheduler/internal/core/domain"
	"github.com/suchimauz/blood4life-appointment-scheduler/internal/core/json_types"
	"github.com/suchimauz/blood4life-appointment-scheduler/internal/core/ports/out"
	"github.com/suchimauz/blood4life-appointment-scheduler/internal/utils"
)

// bookingFlow — внутреннее состояние одного потока бронирования.
// Все поля читаются и меняются только под mu
type bookingFlow struct {
	mu sync.Mutex

	id    uuid.UUID
	donor domain.Donor
	state domain.BookingFlowState

	eligibility *domain.Eligibility
	hospitalID  int64
	campaign    *domain.Campaign
	date        json_types.Date
	hour        json_types.HourMinute
	submitError string

	// Номер выбора госпиталя. Ответ справочника применяется только если
	// к его приходу номер не изменился, поздние ответы отбрасываются
	selectionSeq uint64
}

func (f *bookingFlow) snapshot() *domain.BookingFlowSnapshot {
	return &domain.BookingFlowSnapshot{
		FlowID:      f.id,
		DonorID:     f.donor.ID,
		State:       f.state,
		Eligibility: f.eligibility,
		HospitalID:  f.hospitalID,
		Campaign:    f.campaign,
		Date:        f.date,
		Hour:        f.hour,
		SubmitError: f.submitError,
		CanSubmit: f.state == domain.BookingFlowStateOpenForm &&
			f.hospitalID != 0 && f.campaign != nil &&
			!f.date.IsZero() && !f.hour.IsZero(),
	}
}

type BookingService struct {
	storePort     out.AppointmentStorePort
	directoryPort out.DirectoryPort
	cachePort     out.CachePort
	logger        out.LoggerPort

	mu    sync.RWMutex
	flows map[uuid.UUID]*bookingFlow
}

func NewBookingService(
	storePort out.AppointmentStorePort,
	directoryPort out.DirectoryPort,
	cachePort out.CachePort,
	logger out.LoggerPort,
) *BookingService {
	return &BookingService{
		storePort:     storePort,
		directoryPort: directoryPort,
		cachePort:     cachePort,
		logger:        logger.WithModule("BookingService"),
		flows:         make(map[uuid.UUID]*bookingFlow),
	}
}

// StartFlow проверяет допуск до показа формы. Заблокированный поток
// не регистрируется, снимок возвращается терминальным
func (s *BookingService) StartFlow(ctx context.Context, donorID int64) (*domain.BookingFlowSnapshot, error) {
	s.logger.Info("booking.flow.start", out.LogFields{
		"donorId": donorID,
	})

	donor, err := s.directoryPort.GetDonor(ctx, donorID)
	if err != nil {
		s.logger.Error("booking.flow.donor.fetch_failed", out.LogFields{
			"donorId": donorID,
			"error":   err.Error(),
		})
		return nil, fmt.Errorf("booking.flow.donor.fetch_failed: %w", err)
	}

	// Ошибка предварительной проверки закрывает поток, а не пропускает его
	appointments, err := s.ListDonorAppointments(ctx, donorID)
	if err != nil {
		s.logger.Error("booking.flow.eligibility.fetch_failed", out.LogFields{
			"donorId": donorID,
			"error":   err.Error(),
		})
		return nil, fmt.Errorf("booking.flow.eligibility.fetch_failed: %w", err)
	}

	eligibility := EvaluateEligibility(*donor, appointments, utils.Today())

	flow := &bookingFlow{
		id:          uuid.New(),
		donor:       *donor,
		eligibility: &eligibility,
	}

	if !eligibility.Allowed {
		// Терминальное состояние, поток сразу закрыт и не хранится
		flow.state = domain.BookingFlowStateBlocked
		s.logger.Info("booking.flow.blocked", out.LogFields{
			"donorId":       donorID,
			"reason":        eligibility.Reason,
			"availableDate": eligibility.AvailableDate.String(),
		})
		return flow.snapshot(), nil
	}

	flow.state = domain.BookingFlowStateOpenForm

	s.mu.Lock()
	s.flows[flow.id] = flow
	s.mu.Unlock()

	s.logger.Debug("booking.flow.opened", out.LogFields{
		"donorId": donorID,
		"flowId":  flow.id,
	})

	return flow.snapshot(), nil
}

func (s *BookingService) getFlow(flowID uuid.UUID) (*bookingFlow, error) {
	s.mu.RLock()
	flow, exists := s.flows[flowID]
	s.mu.RUnlock()

	if !exists {
		return nil, ErrFlowNotFound
	}
	return flow, nil
}

func (s *BookingService) GetFlow(ctx context.Context, flowID uuid.UUID) (*domain.BookingFlowSnapshot, error) {
	flow, err := s.getFlow(flowID)
	if err != nil {
		return nil, err
	}

	flow.mu.Lock()
	defer flow.mu.Unlock()
	return flow.snapshot(), nil
}

// SelectHospital запоминает выбор и резолвит активную кампанию госпиталя.
// Запрос к справочнику идёт вне блокировки, применяется только свежий ответ
func (s *BookingService) SelectHospital(ctx context.Context, flowID uuid.UUID, hospitalID int64) (*domain.BookingFlowSnapshot, error) {
	flow, err := s.getFlow(flowID)
	if err != nil {
		return nil, err
	}

	flow.mu.Lock()
	if flow.state != domain.BookingFlowStateOpenForm {
		flow.mu.Unlock()
		return nil, ErrFlowClosed
	}

	// Смена госпиталя сбрасывает зависимые выборы
	flow.hospitalID = hospitalID
	flow.campaign = nil
	flow.date = json_types.Date{}
	flow.hour = json_types.HourMinute{}
	flow.selectionSeq++
	seq := flow.selectionSeq
	flow.mu.Unlock()

	campaigns, err := s.directoryPort.GetCampaigns(ctx)

	flow.mu.Lock()
	defer flow.mu.Unlock()

	// Пока ходили за кампаниями, поток могли закрыть или выбрать другой
	// госпиталь, такой ответ уже никому не нужен
	if flow.state != domain.BookingFlowStateOpenForm || flow.selectionSeq != seq {
		s.logger.Debug("booking.flow.hospital.stale_response", out.LogFields{
			"flowId":     flowID,
			"hospitalId": hospitalID,
		})
		return flow.snapshot(), nil
	}

	if err != nil {
		s.logger.Error("booking.flow.campaigns.fetch_failed", out.LogFields{
			"flowId":     flowID,
			"hospitalId": hospitalID,
			"error":      err.Error(),
		})
		// Кампания не зарезолвлена, отправка останется запрещённой
		return flow.snapshot(), nil
	}

	// Берём первую кампанию госпиталя как активную для привязки записи
	for i := range campaigns {
		if campaigns[i].HospitalID == hospitalID {
			campaign := campaigns[i]
			flow.campaign = &campaign
			break
		}
	}

	if flow.campaign == nil {
		s.logger.Warn("booking.flow.campaign.not_found", out.LogFields{
			"flowId":     flowID,
			"hospitalId": hospitalID,
		})
	}

	return flow.snapshot(), nil
}

func (s *BookingService) SelectDate(ctx context.Context, flowID uuid.UUID, date json_types.Date) (*domain.BookingFlowSnapshot, error) {
	flow, err := s.getFlow(flowID)
	if err != nil {
		return nil, err
	}

	flow.mu.Lock()
	defer flow.mu.Unlock()

	if flow.state != domain.BookingFlowStateOpenForm {
		return nil, ErrFlowClosed
	}
	if flow.hospitalID == 0 {
		return nil, ErrHospitalNotSelected
	}
	if !IsDaySelectable(true, date, utils.Today()) {
		return nil, ErrDateNotSelectable
	}

	flow.date = date
	// Новая дата сбрасывает выбранное время
	flow.hour = json_types.HourMinute{}

	return flow.snapshot(), nil
}

func (s *BookingService) SelectTime(ctx context.Context, flowID uuid.UUID, hour json_types.HourMinute) (*domain.BookingFlowSnapshot, error) {
	flow, err := s.getFlow(flowID)
	if err != nil {
		return nil, err
	}

	flow.mu.Lock()
	defer flow.mu.Unlock()

	if flow.state != domain.BookingFlowStateOpenForm {
		return nil, ErrFlowClosed
	}
	if flow.date.IsZero() {
		return nil, ErrDateNotSelectable
	}
	if !IsValidTimeSlot(hour) {
		return nil, ErrInvalidTimeSlot
	}

	flow.hour = hour

	return flow.snapshot(), nil
}

// Submit создаёт запись со статусом Programada. Неудача показывает ошибку
// и оставляет форму открытой для повтора, успех закрывает поток
func (s *BookingService) Submit(ctx context.Context, flowID uuid.UUID) (*domain.BookingFlowSnapshot, error) {
	flow, err := s.getFlow(flowID)
	if err != nil {
		return nil, err
	}

	flow.mu.Lock()
	if flow.state != domain.BookingFlowStateOpenForm {
		flow.mu.Unlock()
		return nil, ErrFlowClosed
	}
	if flow.hospitalID == 0 || flow.date.IsZero() || flow.hour.IsZero() {
		flow.mu.Unlock()
		return nil, ErrIncompleteSelection
	}
	if flow.campaign == nil {
		flow.mu.Unlock()
		return nil, ErrNoCampaign
	}

	appointment := domain.Appointment{
		CampaignID:      flow.campaign.ID,
		BloodDonorID:    flow.donor.ID,
		DateAppointment: flow.date,
		HourAppointment: flow.hour,
		Status:          domain.AppointmentStatusScheduled(),
	}
	flow.state = domain.BookingFlowStateSubmitting
	flow.submitError = ""
	donorID := flow.donor.ID
	flow.mu.Unlock()

	s.logger.Info("booking.flow.submit", out.LogFields{
		"flowId":     flowID,
		"donorId":    donorID,
		"campaignId": appointment.CampaignID,
		"date":       appointment.DateAppointment.String(),
		"hour":       appointment.HourAppointment.String(),
	})

	created, err := s.storePort.CreateAppointment(ctx, appointment)

	flow.mu.Lock()
	defer flow.mu.Unlock()

	// Поток могли закрыть во время запроса, результат тогда не применяем
	if flow.state != domain.BookingFlowStateSubmitting {
		return flow.snapshot(), nil
	}

	if err != nil {
		s.logger.Error("booking.flow.submit_failed", out.LogFields{
			"flowId":  flowID,
			"donorId": donorID,
			"error":   err.Error(),
		})
		flow.state = domain.BookingFlowStateOpenForm
		flow.submitError = err.Error()
		return flow.snapshot(), nil
	}

	flow.state = domain.BookingFlowStateClosed

	s.mu.Lock()
	delete(s.flows, flowID)
	s.mu.Unlock()

	// Локальный список устарел, при следующем чтении перечитаем из хранилища
	if s.cachePort != nil {
		s.cachePort.InvalidateDonorAppointments(ctx, donorID)
	}

	s.logger.Info("booking.flow.submitted", out.LogFields{
		"flowId":        flowID,
		"donorId":       donorID,
		"appointmentId": created.ID,
	})

	return flow.snapshot(), nil
}

// CloseFlow останавливает поток, запросы в полёте становятся no-op
func (s *BookingService) CloseFlow(ctx context.Context, flowID uuid.UUID) error {
	flow, err := s.getFlow(flowID)
	if err != nil {
		return err
	}

	flow.mu.Lock()
	flow.state = domain.BookingFlowStateClosed
	flow.mu.Unlock()

	s.mu.Lock()
	delete(s.flows, flowID)
	s.mu.Unlock()

	s.logger.Debug("booking.flow.closed", out.LogFields{
		"flowId": flowID,
	})

	return nil
}

func (s *BookingService) ListDonorAppointments(ctx context.Context, donorID int64) ([]domain.Appointment, error) {
	if s.cachePort != nil {
		if appointments, exists := s.cachePort.GetDonorAppointments(ctx, donorID); exists {
			s.logger.Debug("booking.appointments.cache.hit", out.LogFields{
				"donorId": donorID,
				"count":   len(appointments),
			})
			return appointments, nil
		}
	}

	appointments, err := s.storePort.GetDonorAppointments(ctx, donorID)
	if err != nil {
		return nil, fmt.Errorf("booking.appointments.fetch_failed: %w", err)
	}

	if s.cachePort != nil {
		s.cachePort.StoreDonorAppointments(ctx, donorID, appointments)
	}

	return appointments, nil
}

func (s *BookingService) ListHospitals(ctx context.Context) ([]domain.Hospital, error) {
	if s.cachePort != nil {
		if hospitals, exists := s.cachePort.GetHospitals(ctx); exists {
			return hospitals, nil
		}
	}

	hospitals, err := s.directoryPort.GetHospitals(ctx)
	if err != nil {
		return nil, fmt.Errorf("booking.hospitals.fetch_failed: %w", err)
	}

	if s.cachePort != nil {
		s.cachePort.StoreHospitals(ctx, hospitals)
	}

	return hospitals, nil
}

// DeleteAppointment удаляет запись после явного подтверждения.
// Неудача оставляет локальный список нетронутым
func (s *BookingService) DeleteAppointment(ctx context.Context, donorID int64, appointmentID int64, confirmed bool) error {
	if !confirmed {
		return ErrDeleteNotConfirmed
	}

	s.logger.Info("booking.appointment.delete", out.LogFields{
		"donorId":       donorID,
		"appointmentId": appointmentID,
	})

	if err := s.storePort.DeleteAppointment(ctx, appointmentID); err != nil {
		s.logger.Error("booking.appointment.delete_failed", out.LogFields{
			"donorId":       donorID,
			"appointmentId": appointmentID,
			"error":         err.Error(),
		})
		return fmt.Errorf("booking.appointment.delete_failed: %w", err)
	}

	if s.cachePort != nil {
		s.cachePort.InvalidateDonorAppointments(ctx, donorID)
	}

	return nil
}
