package services

import "errors"

var (
	ErrFlowNotFound = errors.New("booking flow not found")
	ErrFlowClosed   = errors.New("booking flow is closed")

	ErrHospitalNotSelected = errors.New("hospital is not selected")
	// Запись обязана ссылаться на кампанию, без неё отправка запрещена
	ErrNoCampaign          = errors.New("no campaign resolved for selected hospital")
	ErrDateNotSelectable   = errors.New("date is not selectable")
	ErrInvalidTimeSlot     = errors.New("time is outside the slot grid")
	ErrIncompleteSelection = errors.New("hospital, campaign, date and time are all required")

	// Удаление только через явное подтверждение
	ErrDeleteNotConfirmed = errors.New("delete requires explicit confirmation")
)
