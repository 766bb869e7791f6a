package json_types

import (
	"encoding/json"
	"fmt"
	"time"
)

func parseDate(str string) (time.Time, error) {
	// Бэкенд присылает дату записи без времени
	parsedDate, err := time.Parse("2006-01-02", str)
	if err != nil {
		// Если не удалось, пробуем дату со временем без таймзоны
		parsedDate, err = time.Parse("2006-01-02T15:04:05", str)
		if err != nil {
			// Последняя попытка, полный RFC3339
			parsedDate, err = time.Parse(time.RFC3339, str)
			if err != nil {
				return time.Time{}, fmt.Errorf("failed to parse date: %v", err)
			}
		}
	}

	return parsedDate, nil
}

// Date хранит дату с точностью до дня, на проводе выглядит как "2006-01-02"
type Date struct {
	Date time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Date: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func (t *Date) UnmarshalJSON(data []byte) error {
	// Убираем кавычки вокруг строки
	str := string(data[1 : len(data)-1])

	parsedDate, err := parseDate(str)
	if err != nil {
		return err
	}

	// Отбрасываем время, если оно вдруг пришло
	parsedDate = time.Date(parsedDate.Year(), parsedDate.Month(), parsedDate.Day(), 0, 0, 0, 0, time.UTC)

	*t = Date{Date: parsedDate}
	return nil
}

func (t Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Date.Format("2006-01-02"))
}

func (t Date) String() string {
	return t.Date.Format("2006-01-02")
}

func (t Date) IsZero() bool {
	return t.Date.IsZero()
}

// Before сравнивает только календарные дни
func (t Date) Before(other Date) bool {
	return t.Date.Before(other.Date)
}

func (t Date) Equal(other Date) bool {
	return t.Date.Equal(other.Date)
}

func (t Date) AddDays(days int) Date {
	return Date{Date: t.Date.AddDate(0, 0, days)}
}
