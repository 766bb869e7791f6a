package domain

import (
	"github.com/suchimauz/blood4life-appointment-scheduler/internal/core/json_types"
)

type EligibilityReason string

const (
	EligibilityReasonUpcomingAppointment EligibilityReason = "upcoming_appointment"
	EligibilityReasonWaitingPeriod       EligibilityReason = "waiting_period"
)

// Eligibility — результат проверки, может ли донор создать новую запись
type Eligibility struct {
	Allowed       bool              `json:"allowed"`
	Reason        EligibilityReason `json:"reason,omitempty"`
	AvailableDate json_types.Date   `json:"availableDate,omitempty"`
	DaysRemaining int               `json:"daysRemaining,omitempty"`
}
