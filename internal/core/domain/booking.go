package domain

import (
	"github.com/google/uuid"
	"github.com/suchimauz/blood4life-appointment-scheduler/internal/core/json_types"
)

// Состояния потока бронирования.
// Closed -> EligibilityChecking -> { Blocked | OpenForm }
// OpenForm -> ... -> Submitting -> { Closed | OpenForm с ошибкой }
type BookingFlowState string

const (
	BookingFlowStateClosed              BookingFlowState = "closed"
	BookingFlowStateEligibilityChecking BookingFlowState = "eligibility_checking"
	// Терминальное состояние, донору нельзя бронировать
	BookingFlowStateBlocked    BookingFlowState = "blocked"
	BookingFlowStateOpenForm   BookingFlowState = "open_form"
	BookingFlowStateSubmitting BookingFlowState = "submitting"
)

// BookingFlowSnapshot — срез состояния потока, который уходит наружу.
// Внутреннее состояние потока живёт в сервисе под мьютексом
type BookingFlowSnapshot struct {
	FlowID      uuid.UUID             `json:"flowId"`
	DonorID     int64                 `json:"donorId"`
	State       BookingFlowState      `json:"state"`
	Eligibility *Eligibility          `json:"eligibility,omitempty"`
	HospitalID  int64                 `json:"hospitalId,omitempty"`
	Campaign    *Campaign             `json:"campaign,omitempty"`
	Date        json_types.Date       `json:"date,omitempty"`
	Hour        json_types.HourMinute `json:"hour,omitempty"`
	// Последняя ошибка отправки, поток остаётся открытым для повтора
	SubmitError string `json:"submitError,omitempty"`
	// Отправка разрешена только когда собраны все четыре составляющие
	CanSubmit bool `json:"canSubmit"`
}
