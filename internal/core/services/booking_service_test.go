package services

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suchimauz/blood4life-appointment-scheduler/internal/core/domain"
	"github.com/suchimauz/blood4life-appointment-scheduler/internal/core/json_types"
	"github.com/suchimauz/blood4life-appointment-scheduler/internal/utils"
)

// nextWeekdayFrom сдвигает дату вперёд до первого буднего дня
func nextWeekdayFrom(d json_types.Date) json_types.Date {
	for utils.IsWeekend(d) {
		d = d.AddDays(1)
	}
	return d
}

func twoHospitalCampaigns() []domain.Campaign {
	start := utils.Today().AddDays(-5)
	end := utils.Today().AddDays(30)
	return []domain.Campaign{
		campaign(101, 1, start, end),
		campaign(202, 2, start, end),
	}
}

func newTestBookingService(store *mockAppointmentStore, directory *mockDirectory) *BookingService {
	return NewBookingService(store, directory, nil, nopLogger{})
}

func openFlow(t *testing.T, service *BookingService) *domain.BookingFlowSnapshot {
	t.Helper()

	snapshot, err := service.StartFlow(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, domain.BookingFlowStateOpenForm, snapshot.State)
	return snapshot
}

func TestStartFlowBlockedIsNotRegistered(t *testing.T) {
	store := &mockAppointmentStore{
		getDonorAppointmentsFn: func(ctx context.Context, donorID int64) ([]domain.Appointment, error) {
			return []domain.Appointment{scheduledAppointment(utils.Today().AddDays(3))}, nil
		},
	}
	service := newTestBookingService(store, &mockDirectory{})

	snapshot, err := service.StartFlow(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, domain.BookingFlowStateBlocked, snapshot.State)
	assert.False(t, snapshot.CanSubmit)
	require.NotNil(t, snapshot.Eligibility)
	assert.False(t, snapshot.Eligibility.Allowed)

	// Заблокированный поток терминален и не хранится
	_, err = service.GetFlow(context.Background(), snapshot.FlowID)
	assert.ErrorIs(t, err, ErrFlowNotFound)
}

func TestStartFlowFailsClosedOnFetchError(t *testing.T) {
	store := &mockAppointmentStore{
		getDonorAppointmentsFn: func(ctx context.Context, donorID int64) ([]domain.Appointment, error) {
			return nil, errBackendDown
		},
	}
	service := newTestBookingService(store, &mockDirectory{})

	snapshot, err := service.StartFlow(context.Background(), 1)

	require.Error(t, err)
	assert.Nil(t, snapshot)
}

func TestSelectHospitalResolvesCampaign(t *testing.T) {
	directory := &mockDirectory{
		getCampaignsFn: func(ctx context.Context) ([]domain.Campaign, error) {
			return twoHospitalCampaigns(), nil
		},
	}
	service := newTestBookingService(&mockAppointmentStore{}, directory)
	flow := openFlow(t, service)

	snapshot, err := service.SelectHospital(context.Background(), flow.FlowID, 2)

	require.NoError(t, err)
	assert.Equal(t, int64(2), snapshot.HospitalID)
	require.NotNil(t, snapshot.Campaign)
	assert.Equal(t, int64(202), snapshot.Campaign.ID)
	assert.False(t, snapshot.CanSubmit, "без даты и времени отправка запрещена")
}

func TestSelectHospitalWithoutCampaignKeepsSubmitDisabled(t *testing.T) {
	directory := &mockDirectory{
		getCampaignsFn: func(ctx context.Context) ([]domain.Campaign, error) {
			// Кампании есть, но ни одна не принадлежит выбранному госпиталю
			return twoHospitalCampaigns(), nil
		},
	}
	service := newTestBookingService(&mockAppointmentStore{}, directory)
	flow := openFlow(t, service)

	snapshot, err := service.SelectHospital(context.Background(), flow.FlowID, 99)
	require.NoError(t, err)
	assert.Nil(t, snapshot.Campaign)

	date := nextWeekdayFrom(utils.Today().AddDays(7))
	_, err = service.SelectDate(context.Background(), flow.FlowID, date)
	require.NoError(t, err)
	snapshot, err = service.SelectTime(context.Background(), flow.FlowID, hourMinute(14, 0))
	require.NoError(t, err)
	assert.False(t, snapshot.CanSubmit)

	_, err = service.Submit(context.Background(), flow.FlowID)
	assert.ErrorIs(t, err, ErrNoCampaign)
}

func TestSelectDateValidation(t *testing.T) {
	directory := &mockDirectory{
		getCampaignsFn: func(ctx context.Context) ([]domain.Campaign, error) {
			return twoHospitalCampaigns(), nil
		},
	}
	service := newTestBookingService(&mockAppointmentStore{}, directory)
	flow := openFlow(t, service)

	// Дата до выбора госпиталя
	_, err := service.SelectDate(context.Background(), flow.FlowID, nextWeekdayFrom(utils.Today()))
	assert.ErrorIs(t, err, ErrHospitalNotSelected)

	_, err = service.SelectHospital(context.Background(), flow.FlowID, 1)
	require.NoError(t, err)

	// Прошлое недоступно
	_, err = service.SelectDate(context.Background(), flow.FlowID, utils.Today().AddDays(-1))
	assert.ErrorIs(t, err, ErrDateNotSelectable)

	// Время до выбора даты
	_, err = service.SelectTime(context.Background(), flow.FlowID, hourMinute(14, 0))
	assert.ErrorIs(t, err, ErrDateNotSelectable)

	date := nextWeekdayFrom(utils.Today().AddDays(7))
	_, err = service.SelectDate(context.Background(), flow.FlowID, date)
	require.NoError(t, err)

	// Время вне сетки слотов
	_, err = service.SelectTime(context.Background(), flow.FlowID, hourMinute(18, 30))
	assert.ErrorIs(t, err, ErrInvalidTimeSlot)
}

func TestSubmitCreatesScheduledAppointment(t *testing.T) {
	var created domain.Appointment
	store := &mockAppointmentStore{
		createAppointmentFn: func(ctx context.Context, appointment domain.Appointment) (*domain.Appointment, error) {
			created = appointment
			stored := appointment
			stored.ID = 42
			return &stored, nil
		},
	}
	directory := &mockDirectory{
		getCampaignsFn: func(ctx context.Context) ([]domain.Campaign, error) {
			return twoHospitalCampaigns(), nil
		},
	}
	service := newTestBookingService(store, directory)
	flow := openFlow(t, service)

	_, err := service.SelectHospital(context.Background(), flow.FlowID, 1)
	require.NoError(t, err)

	date := nextWeekdayFrom(utils.Today().AddDays(7))
	_, err = service.SelectDate(context.Background(), flow.FlowID, date)
	require.NoError(t, err)

	snapshot, err := service.SelectTime(context.Background(), flow.FlowID, hourMinute(14, 0))
	require.NoError(t, err)
	assert.True(t, snapshot.CanSubmit)

	snapshot, err = service.Submit(context.Background(), flow.FlowID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingFlowStateClosed, snapshot.State)

	assert.Equal(t, int64(101), created.CampaignID)
	assert.Equal(t, int64(1), created.BloodDonorID)
	assert.True(t, created.DateAppointment.Equal(date))
	assert.Equal(t, "14:00", created.HourAppointment.String())
	assert.Equal(t, domain.AppointmentStatusScheduledID, created.Status.ID)
	assert.Equal(t, domain.AppointmentStatusScheduledName, created.Status.Name)

	// Успешная отправка закрывает поток
	_, err = service.GetFlow(context.Background(), flow.FlowID)
	assert.ErrorIs(t, err, ErrFlowNotFound)
}

func TestSubmitFailureKeepsFormOpen(t *testing.T) {
	store := &mockAppointmentStore{
		createAppointmentFn: func(ctx context.Context, appointment domain.Appointment) (*domain.Appointment, error) {
			return nil, errBackendDown
		},
	}
	directory := &mockDirectory{
		getCampaignsFn: func(ctx context.Context) ([]domain.Campaign, error) {
			return twoHospitalCampaigns(), nil
		},
	}
	service := newTestBookingService(store, directory)
	flow := openFlow(t, service)

	_, err := service.SelectHospital(context.Background(), flow.FlowID, 1)
	require.NoError(t, err)
	_, err = service.SelectDate(context.Background(), flow.FlowID, nextWeekdayFrom(utils.Today().AddDays(7)))
	require.NoError(t, err)
	_, err = service.SelectTime(context.Background(), flow.FlowID, hourMinute(10, 30))
	require.NoError(t, err)

	snapshot, err := service.Submit(context.Background(), flow.FlowID)

	require.NoError(t, err)
	assert.Equal(t, domain.BookingFlowStateOpenForm, snapshot.State)
	assert.NotEmpty(t, snapshot.SubmitError)
	assert.True(t, snapshot.CanSubmit, "выбор сохранён, можно повторить")

	// Поток жив, форма открыта
	current, err := service.GetFlow(context.Background(), flow.FlowID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingFlowStateOpenForm, current.State)
}

func TestSubmitWithIncompleteSelection(t *testing.T) {
	directory := &mockDirectory{
		getCampaignsFn: func(ctx context.Context) ([]domain.Campaign, error) {
			return twoHospitalCampaigns(), nil
		},
	}
	service := newTestBookingService(&mockAppointmentStore{}, directory)
	flow := openFlow(t, service)

	_, err := service.Submit(context.Background(), flow.FlowID)
	assert.ErrorIs(t, err, ErrIncompleteSelection)
}

func TestCloseFlowMakesInflightSubmitNoop(t *testing.T) {
	service := newTestBookingService(&mockAppointmentStore{}, &mockDirectory{})
	flow := openFlow(t, service)

	require.NoError(t, service.CloseFlow(context.Background(), flow.FlowID))

	_, err := service.GetFlow(context.Background(), flow.FlowID)
	assert.ErrorIs(t, err, ErrFlowNotFound)

	_, err = service.SelectHospital(context.Background(), flow.FlowID, 1)
	assert.ErrorIs(t, err, ErrFlowNotFound)
}

func TestDeleteAppointmentRequiresConfirmation(t *testing.T) {
	deleteCalls := 0
	store := &mockAppointmentStore{
		deleteAppointmentFn: func(ctx context.Context, appointmentID int64) error {
			deleteCalls++
			return nil
		},
	}
	service := newTestBookingService(store, &mockDirectory{})

	err := service.DeleteAppointment(context.Background(), 1, 10, false)

	assert.ErrorIs(t, err, ErrDeleteNotConfirmed)
	assert.Zero(t, deleteCalls, "без подтверждения запрос к бэкенду не уходит")

	require.NoError(t, service.DeleteAppointment(context.Background(), 1, 10, true))
	assert.Equal(t, 1, deleteCalls)
}

func TestDeleteAppointmentFailurePropagates(t *testing.T) {
	store := &mockAppointmentStore{
		deleteAppointmentFn: func(ctx context.Context, appointmentID int64) error {
			return errBackendDown
		},
	}
	service := newTestBookingService(store, &mockDirectory{})

	err := service.DeleteAppointment(context.Background(), 1, 10, true)

	assert.ErrorIs(t, err, errBackendDown)
}

// Поздний ответ справочника по предыдущему выбору госпиталя не должен
// перетирать более свежий выбор
func TestSelectHospitalDiscardsStaleResponse(t *testing.T) {
	var calls int32
	firstEntered := make(chan struct{})
	firstRelease := make(chan struct{})
	secondEntered := make(chan struct{})
	secondRelease := make(chan struct{})

	directory := &mockDirectory{
		getCampaignsFn: func(ctx context.Context) ([]domain.Campaign, error) {
			switch atomic.AddInt32(&calls, 1) {
			case 1:
				close(firstEntered)
				<-firstRelease
			case 2:
				close(secondEntered)
				<-secondRelease
			}
			return twoHospitalCampaigns(), nil
		},
	}
	service := newTestBookingService(&mockAppointmentStore{}, directory)
	flow := openFlow(t, service)

	var wg sync.WaitGroup
	wg.Add(2)

	// Первый выбор: госпиталь 1, ответ задержим
	go func() {
		defer wg.Done()
		_, err := service.SelectHospital(context.Background(), flow.FlowID, 1)
		assert.NoError(t, err)
	}()
	<-firstEntered

	// Второй выбор: госпиталь 2, его ответ придёт раньше
	go func() {
		defer wg.Done()
		_, err := service.SelectHospital(context.Background(), flow.FlowID, 2)
		assert.NoError(t, err)
	}()
	<-secondEntered

	close(secondRelease)
	close(firstRelease)
	wg.Wait()

	snapshot, err := service.GetFlow(context.Background(), flow.FlowID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), snapshot.HospitalID)
	require.NotNil(t, snapshot.Campaign, "свежий ответ применён")
	assert.Equal(t, int64(202), snapshot.Campaign.ID, "поздний ответ первого выбора отброшен")
}
