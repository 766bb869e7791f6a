package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/suchimauz/blood4life-appointment-scheduler/internal/core/domain"
	"github.com/suchimauz/blood4life-appointment-scheduler/internal/core/json_types"
	"github.com/suchimauz/blood4life-appointment-scheduler/internal/core/ports/in"
	"github.com/suchimauz/blood4life-appointment-scheduler/internal/core/ports/out"
	"github.com/suchimauz/blood4life-appointment-scheduler/internal/utils"
)

const (
	// Границы рабочего дня пункта сдачи крови
	firstSlotHour = 8
	lastSlotHour  = 18
)

type CalendarService struct {
	directoryPort out.DirectoryPort
	booking       in.BookingUseCase
	logger        out.LoggerPort
}

func NewCalendarService(
	directoryPort out.DirectoryPort,
	booking in.BookingUseCase,
	logger out.LoggerPort,
) *CalendarService {
	return &CalendarService{
		directoryPort: directoryPort,
		booking:       booking,
		logger:        logger.WithModule("CalendarService"),
	}
}

// CampaignsOnDay отбирает кампании, чей интервал покрывает день
func CampaignsOnDay(campaigns []domain.Campaign, day json_types.Date) []domain.Campaign {
	var onDay []domain.Campaign
	for _, campaign := range campaigns {
		if campaign.CoversDay(day) {
			onDay = append(onDay, campaign)
		}
	}
	return onDay
}

// ClassifyDay классифицирует день по кампаниям, которые его покрывают.
// Активная кампания побеждает всегда. Будущее и прошлое присваиваются
// только при единогласии всех кампаний дня, смешанный день без активной
// кампании остаётся нейтральным
func ClassifyDay(campaignsOnDay []domain.Campaign, today json_types.Date) domain.DayClassification {
	if len(campaignsOnDay) == 0 {
		return domain.DayClassificationNeutral
	}

	for _, campaign := range campaignsOnDay {
		if campaign.IsActive(today) {
			return domain.DayClassificationActive
		}
	}

	allFuture := true
	allPast := true
	for _, campaign := range campaignsOnDay {
		if !campaign.StartsAfter(today) {
			allFuture = false
		}
		if !campaign.EndsBefore(today) {
			allPast = false
		}
	}

	if allFuture {
		return domain.DayClassificationFuture
	}
	if allPast {
		return domain.DayClassificationPast
	}

	return domain.DayClassificationNeutral
}

// BuildCampaignMonth собирает read-only сетку месяца.
// Месяц нумеруется с нуля, неделя начинается с понедельника
func BuildCampaignMonth(campaigns []domain.Campaign, year int, month time.Month, today json_types.Date) *domain.CalendarMonth {
	daysInMonth := utils.DaysInMonth(year, month)
	offset := utils.FirstWeekdayOffset(year, month)

	days := make([]domain.CalendarDay, 0, offset+daysInMonth)

	// Пустые ячейки до первого числа
	for i := 0; i < offset; i++ {
		days = append(days, domain.CalendarDay{Empty: true})
	}

	for day := 1; day <= daysInMonth; day++ {
		date := json_types.NewDate(year, month, day)
		onDay := CampaignsOnDay(campaigns, date)

		cell := domain.CalendarDay{
			Day:            day,
			Date:           date,
			Classification: ClassifyDay(onDay, today),
			Campaigns:      onDay,
			IsToday:        date.Equal(today),
		}
		// Бейдж с количеством показывается от двух кампаний
		if len(onDay) >= 2 {
			cell.CampaignCount = len(onDay)
		}

		days = append(days, cell)
	}

	return &domain.CalendarMonth{
		Year:  year,
		Month: int(month) - 1,
		Days:  days,
	}
}

// IsDaySelectable: день доступен для бронирования, когда выбран госпиталь,
// день не выходной и не в прошлом
func IsDaySelectable(hospitalSelected bool, date, today json_types.Date) bool {
	if !hospitalSelected {
		return false
	}
	if utils.IsWeekend(date) {
		return false
	}
	return !date.Before(today)
}

// BuildBookingMonth собирает интерактивную сетку выбора даты
func BuildBookingMonth(hospitalSelected bool, selected json_types.Date, year int, month time.Month, today json_types.Date) *domain.CalendarMonth {
	daysInMonth := utils.DaysInMonth(year, month)
	offset := utils.FirstWeekdayOffset(year, month)

	days := make([]domain.CalendarDay, 0, offset+daysInMonth)
	for i := 0; i < offset; i++ {
		days = append(days, domain.CalendarDay{Empty: true})
	}

	for day := 1; day <= daysInMonth; day++ {
		date := json_types.NewDate(year, month, day)
		days = append(days, domain.CalendarDay{
			Day:        day,
			Date:       date,
			IsToday:    date.Equal(today),
			Selectable: IsDaySelectable(hospitalSelected, date, today),
			Selected:   !selected.IsZero() && date.Equal(selected),
		})
	}

	return &domain.CalendarMonth{
		Year:      year,
		Month:     int(month) - 1,
		Days:      days,
		TimeSlots: TimeSlots(),
	}
}

// TimeSlots перечисляет слоты с 08:00 до 18:00 по полчаса,
// 18:00 включительно, 18:30 уже нет
func TimeSlots() []string {
	var slots []string
	for hour := firstSlotHour; hour <= lastSlotHour; hour++ {
		slots = append(slots, fmt.Sprintf("%02d:00", hour))
		if hour != lastSlotHour {
			slots = append(slots, fmt.Sprintf("%02d:30", hour))
		}
	}
	return slots
}

// IsValidTimeSlot проверяет, что время попадает в сетку слотов
func IsValidTimeSlot(hour json_types.HourMinute) bool {
	if hour.IsZero() {
		return false
	}
	h := hour.Time.Hour()
	m := hour.Time.Minute()
	if m != 0 && m != 30 {
		return false
	}
	if h < firstSlotHour || h > lastSlotHour {
		return false
	}
	// Последний слот ровно 18:00
	if h == lastSlotHour && m != 0 {
		return false
	}
	return true
}

// Навигация по месяцам, границы года оборачиваются стандартной арифметикой дат

func NextMonth(year int, month time.Month) (int, time.Month) {
	next := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	return next.Year(), next.Month()
}

func PrevMonth(year int, month time.Month) (int, time.Month) {
	prev := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	return prev.Year(), prev.Month()
}

// DecadeRange возвращает границы десятилетия для выбора года
func DecadeRange(year int) (int, int) {
	start := year / 10 * 10
	return start, start + 9
}

func (s *CalendarService) CampaignMonth(ctx context.Context, year int, month time.Month) (*domain.CalendarMonth, error) {
	s.logger.Info("calendar.campaign_month.started", out.LogFields{
		"year":  year,
		"month": int(month),
	})

	campaigns, err := s.directoryPort.GetCampaigns(ctx)
	if err != nil {
		s.logger.Error("calendar.campaign_month.campaigns.fetch_failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("calendar.campaign_month.campaigns.fetch_failed: %w", err)
	}

	return BuildCampaignMonth(campaigns, year, month, utils.Today()), nil
}

func (s *CalendarService) BookingMonth(ctx context.Context, flowID uuid.UUID, year int, month time.Month) (*domain.CalendarMonth, error) {
	flow, err := s.booking.GetFlow(ctx, flowID)
	if err != nil {
		return nil, err
	}

	return BuildBookingMonth(flow.HospitalID != 0, flow.Date, year, month, utils.Today()), nil
}
