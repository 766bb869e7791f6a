package utils

import (
	"time"

	"github.com/suchimauz/blood4life-appointment-scheduler/internal/core/json_types"
)

// StartOfDay обнуляет время, оставляя таймзону прежней
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Today возвращает сегодняшний календарный день
func Today() json_types.Date {
	now := time.Now()
	return json_types.NewDate(now.Year(), now.Month(), now.Day())
}

// DaysBetween считает полные дни от from до to с округлением вверх
func DaysBetween(from, to time.Time) int {
	diff := to.Sub(from)
	days := int(diff / (24 * time.Hour))
	if diff%(24*time.Hour) > 0 {
		days++
	}
	return days
}

// IsWeekend: суббота или воскресенье
func IsWeekend(d json_types.Date) bool {
	weekday := d.Date.Weekday()
	return weekday == time.Saturday || weekday == time.Sunday
}

// DaysInMonth возвращает количество дней в месяце.
// Нулевой день следующего месяца — последний день текущего
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// FirstWeekdayOffset возвращает смещение первого числа месяца
// в сетке с понедельника: 0 для понедельника, 6 для воскресенья
func FirstWeekdayOffset(year int, month time.Month) int {
	weekday := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Weekday()
	if weekday == time.Sunday {
		return 6
	}
	return int(weekday) - 1
}
