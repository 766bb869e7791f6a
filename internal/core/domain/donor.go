package domain

import (
	"github.com/suchimauz/blood4life-appointment-scheduler/internal/core/json_types"
)

// Значения пола так и приходят от бэкенда строками на испанском
type DonorGender string

const (
	DonorGenderMale   DonorGender = "Masculino"
	DonorGenderFemale DonorGender = "Femenino"
)

const (
	// Обязательный период ожидания между донациями в днях
	WaitingPeriodDaysMale    = 90
	WaitingPeriodDaysDefault = 120
)

type Donor struct {
	ID               int64           `json:"id"`
	FirstName        string          `json:"firstName"`
	LastName         string          `json:"lastName"`
	Gender           DonorGender     `json:"gender"`
	DNI              string          `json:"dni"`
	RegistrationDate json_types.Date `json:"registrationDate"`
}

// WaitingPeriodDays возвращает период ожидания донора.
// Правило бизнесовое и двухзначное: мужчины ждут 90 дней, все остальные
// значения, включая пустое, получают длинный период в 120 дней
func (d Donor) WaitingPeriodDays() int {
	if d.Gender == DonorGenderMale {
		return WaitingPeriodDaysMale
	}
	return WaitingPeriodDaysDefault
}
