package json_types

import (
	"encoding/json"
	"fmt"
	"time"
)

// HourMinute хранит время слота, на проводе выглядит как "14:30"
type HourMinute struct {
	Time time.Time
}

func (t *HourMinute) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}

	// Убираем кавычки вокруг строки
	str := string(data[1 : len(data)-1])
	if str == "" {
		return nil
	}

	parsedTime, err := time.Parse("15:04", str)
	if err != nil {
		// Некоторые эндпоинты присылают время с секундами
		parsedTime, err = time.Parse("15:04:05", str)
		if err != nil {
			return fmt.Errorf("failed to parse time: %v", err)
		}
	}
	*t = HourMinute{Time: parsedTime}
	return nil
}

func (t HourMinute) MarshalJSON() ([]byte, error) {
	if t.Time.IsZero() {
		return json.Marshal(nil)
	}

	return json.Marshal(t.Time.Format("15:04"))
}

func (t HourMinute) String() string {
	return t.Time.Format("15:04")
}

func (t HourMinute) IsZero() bool {
	return t.Time.IsZero()
}
