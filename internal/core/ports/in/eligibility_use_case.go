package in

import (
	"context"

	"github.com/suchimauz/blood4life-appointment-scheduler/internal/core/domain"
)

type EligibilityUseCase interface {
	// Проверка допуска по истории записей донора
	CheckEligibility(ctx context.Context, donorID int64) (*domain.Eligibility, error)
}
