package domain

import (
	"github.com/suchimauz/blood4life-appointment-scheduler/internal/core/json_types"
)

// Статусы приходят от бэкенда парой id+name, id первичен при проверках
type AppointmentStatusID int

const (
	AppointmentStatusScheduledID AppointmentStatusID = 1
	AppointmentStatusConfirmedID AppointmentStatusID = 2
	AppointmentStatusCompletedID AppointmentStatusID = 3
)

const (
	AppointmentStatusScheduledName = "Programada"
	AppointmentStatusConfirmedName = "Confirmada"
	AppointmentStatusCompletedName = "Completada"
)

type AppointmentStatus struct {
	ID   AppointmentStatusID `json:"id"`
	Name string              `json:"name"`
}

func AppointmentStatusScheduled() AppointmentStatus {
	return AppointmentStatus{ID: AppointmentStatusScheduledID, Name: AppointmentStatusScheduledName}
}

type Appointment struct {
	ID              int64                 `json:"id"`
	CampaignID      int64                 `json:"campaignId"`
	BloodDonorID    int64                 `json:"bloodDonorId"`
	DateAppointment json_types.Date       `json:"dateAppointment"`
	HourAppointment json_types.HourMinute `json:"hourAppointment,omitempty"`
	Status          AppointmentStatus     `json:"appointmentStatus"`
	HospitalComment string                `json:"hospitalComment,omitempty"`
}

// IsUpcoming: запись ещё держит донора, статус запланирована/подтверждена
// и дата не раньше сегодняшнего дня
func (a Appointment) IsUpcoming(today json_types.Date) bool {
	if a.Status.ID != AppointmentStatusScheduledID && a.Status.ID != AppointmentStatusConfirmedID {
		return false
	}
	return !a.DateAppointment.Before(today)
}

func (a Appointment) IsCompleted() bool {
	return a.Status.ID == AppointmentStatusCompletedID
}

// AppointmentWithDonor — запись с краткой информацией о доноре,
// её отдаёт эндпоинт сегодняшних записей госпиталя
type AppointmentWithDonor struct {
	Appointment
	BloodDonor                 *DonorSummary `json:"bloodDonor,omitempty"`
	DonorCompletedAppointments int           `json:"donorCompletedAppointments,omitempty"`
}

type DonorSummary struct {
	ID          int64  `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	DNI         string `json:"dni"`
	BloodType   string `json:"bloodType,omitempty"`
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Gender      string `json:"gender,omitempty"`
}
