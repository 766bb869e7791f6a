package domain

import (
	"github.com/suchimauz/blood4life-appointment-scheduler/internal/core/json_types"
)

// Классификация дня в календаре кампаний
type DayClassification string

const (
	// Нет ни одной кампании либо кампании дня разошлись во мнениях
	DayClassificationNeutral DayClassification = "neutral"
	// Хотя бы одна кампания дня идёт сегодня
	DayClassificationActive DayClassification = "active"
	// Все кампании дня ещё не начались
	DayClassificationFuture DayClassification = "future"
	// Все кампании дня уже закончились
	DayClassificationPast DayClassification = "past"
)

// CalendarDay — одна ячейка сетки месяца.
// Empty выставлен у ведущих пустых ячеек до первого числа
type CalendarDay struct {
	Empty          bool              `json:"empty,omitempty"`
	Day            int               `json:"day,omitempty"`
	Date           json_types.Date   `json:"date,omitempty"`
	Classification DayClassification `json:"classification,omitempty"`
	Campaigns      []Campaign        `json:"campaigns,omitempty"`
	// Бейдж с количеством показывается от двух кампаний
	CampaignCount int  `json:"campaignCount,omitempty"`
	IsToday       bool `json:"isToday,omitempty"`
	Selectable    bool `json:"selectable,omitempty"`
	Selected      bool `json:"selected,omitempty"`
}

// CalendarMonth — сетка одного месяца, ведущие пустые ячейки включены
type CalendarMonth struct {
	Year  int           `json:"year"`
	Month int           `json:"month"` // с нуля, как в исходном виджете
	Days  []CalendarDay `json:"days"`
	// Слоты времени предлагаются после выбора дня
	TimeSlots []string `json:"timeSlots,omitempty"`
}

// Режим отображения для быстрой навигации по месяцам и десятилетиям
type CalendarView string

const (
	CalendarViewDays   CalendarView = "days"
	CalendarViewMonths CalendarView = "months"
	CalendarViewYears  CalendarView = "years"
)
