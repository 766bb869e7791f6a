package domain

import (
	"github.com/suchimauz/blood4life-appointment-scheduler/internal/core/json_types"
)

type Campaign struct {
	ID                    int64           `json:"id"`
	HospitalID            int64           `json:"hospitalId"`
	HospitalName          string          `json:"hospitalName"`
	Name                  string          `json:"name"`
	Description           string          `json:"description"`
	StartDate             json_types.Date `json:"startDate"`
	EndDate               json_types.Date `json:"endDate"`
	Location              string          `json:"location,omitempty"`
	RequiredDonorQuantity int             `json:"requiredDonorQuantity"`
	CurrentDonorCount     int             `json:"currentDonorCount"`
}

// CoversDay: день попадает в интервал [startDate, endDate] включительно
func (c Campaign) CoversDay(day json_types.Date) bool {
	return !day.Before(c.StartDate) && !c.EndDate.Before(day)
}

// IsActive: кампания идёт прямо сейчас
func (c Campaign) IsActive(today json_types.Date) bool {
	return c.CoversDay(today)
}

func (c Campaign) EndsBefore(today json_types.Date) bool {
	return c.EndDate.Before(today)
}

func (c Campaign) StartsAfter(today json_types.Date) bool {
	return today.Before(c.StartDate)
}

type Hospital struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	Email   string `json:"email,omitempty"`
}
