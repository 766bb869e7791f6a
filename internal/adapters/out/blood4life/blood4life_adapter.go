package blood4life

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/suchimauz/blood4life-appointment-scheduler/internal/config"
	"github.com/suchimauz/blood4life-appointment-scheduler/internal/core/domain"
	"github.com/suchimauz/blood4life-appointment-scheduler/internal/core/ports/out"
)

// Blood4LifeAdapter ходит в REST бэкенда Blood4Life.
// Авторизация только сессионной кукой, заголовки с токенами бэкенд не принимает
type Blood4LifeAdapter struct {
	client            *http.Client
	baseURL           string
	sessionCookieName string
	sessionCookie     string
	logger            out.LoggerPort
}

func NewBlood4LifeAdapter(cfg *config.Config, logger out.LoggerPort) *Blood4LifeAdapter {
	return &Blood4LifeAdapter{
		client:            &http.Client{Timeout: 10 * time.Second},
		baseURL:           cfg.Blood4Life.URL,
		sessionCookieName: cfg.Blood4Life.SessionCookieName,
		sessionCookie:     cfg.Blood4Life.SessionCookieValue,
		logger:            logger,
	}
}

func (a *Blood4LifeAdapter) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, body)
	if err != nil {
		return nil, err
	}

	req.AddCookie(&http.Cookie{Name: a.sessionCookieName, Value: a.sessionCookie})
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

// readError вытаскивает сообщение бэкенда из тела ответа, если оно там есть
func readError(resp *http.Response) error {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Message != "" {
		return fmt.Errorf("%s (status %d)", payload.Message, resp.StatusCode)
	}
	return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
}

func (a *Blood4LifeAdapter) GetDonorAppointments(ctx context.Context, donorID int64) ([]domain.Appointment, error) {
	a.logger.Info("blood4life.appointments.fetch", out.LogFields{
		"donorId": donorID,
	})

	req, err := a.newRequest(ctx, http.MethodGet, fmt.Sprintf("/appointment/donor/%d", donorID), nil)
	if err != nil {
		return nil, err
	}

	resp, err := a.client.Do(req)
	if err != nil {
		a.logger.Error("blood4life.appointments.fetch_failed", out.LogFields{
			"donorId": donorID,
			"error":   err.Error(),
		})
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		a.logger.Error("blood4life.appointments.fetch_failed", out.LogFields{
			"donorId": donorID,
			"status":  resp.StatusCode,
		})
		return nil, readError(resp)
	}

	var appointments []domain.Appointment
	if err := json.NewDecoder(resp.Body).Decode(&appointments); err != nil {
		a.logger.Error("blood4life.appointments.decode_failed", out.LogFields{
			"donorId": donorID,
			"error":   err.Error(),
		})
		return nil, err
	}

	a.logger.Debug("blood4life.appointments.fetch_success", out.LogFields{
		"donorId": donorID,
		"count":   len(appointments),
	})

	return appointments, nil
}

func (a *Blood4LifeAdapter) GetAllAppointments(ctx context.Context) ([]domain.Appointment, error) {
	req, err := a.newRequest(ctx, http.MethodGet, "/appointment/all", nil)
	if err != nil {
		return nil, err
	}

	resp, err := a.client.Do(req)
	if err != nil {
		a.logger.Error("blood4life.appointments_all.fetch_failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, readError(resp)
	}

	var appointments []domain.Appointment
	if err := json.NewDecoder(resp.Body).Decode(&appointments); err != nil {
		return nil, err
	}

	return appointments, nil
}

func (a *Blood4LifeAdapter) GetTodayHospitalAppointments(ctx context.Context, hospitalID int64) ([]domain.AppointmentWithDonor, error) {
	req, err := a.newRequest(ctx, http.MethodGet, fmt.Sprintf("/appointment/hospital/%d/today", hospitalID), nil)
	if err != nil {
		return nil, err
	}

	resp, err := a.client.Do(req)
	if err != nil {
		a.logger.Error("blood4life.appointments_today.fetch_failed", out.LogFields{
			"hospitalId": hospitalID,
			"error":      err.Error(),
		})
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, readError(resp)
	}

	var appointments []domain.AppointmentWithDonor
	if err := json.NewDecoder(resp.Body).Decode(&appointments); err != nil {
		return nil, err
	}

	return appointments, nil
}

func (a *Blood4LifeAdapter) CreateAppointment(ctx context.Context, appointment domain.Appointment) (*domain.Appointment, error) {
	a.logger.Info("blood4life.appointment.create", out.LogFields{
		"donorId":    appointment.BloodDonorID,
		"campaignId": appointment.CampaignID,
		"date":       appointment.DateAppointment.String(),
	})

	body, err := json.Marshal(appointment)
	if err != nil {
		return nil, err
	}

	req, err := a.newRequest(ctx, http.MethodPost, "/appointment/create", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	resp, err := a.client.Do(req)
	if err != nil {
		a.logger.Error("blood4life.appointment.create_failed", out.LogFields{
			"donorId": appointment.BloodDonorID,
			"error":   err.Error(),
		})
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		a.logger.Error("blood4life.appointment.create_failed", out.LogFields{
			"donorId": appointment.BloodDonorID,
			"status":  resp.StatusCode,
		})
		return nil, readError(resp)
	}

	var created domain.Appointment
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, err
	}

	a.logger.Debug("blood4life.appointment.create_success", out.LogFields{
		"appointmentId": created.ID,
	})

	return &created, nil
}

func (a *Blood4LifeAdapter) DeleteAppointment(ctx context.Context, appointmentID int64) error {
	a.logger.Info("blood4life.appointment.delete", out.LogFields{
		"appointmentId": appointmentID,
	})

	req, err := a.newRequest(ctx, http.MethodDelete, fmt.Sprintf("/appointment/delete/%d", appointmentID), nil)
	if err != nil {
		return err
	}

	resp, err := a.client.Do(req)
	if err != nil {
		a.logger.Error("blood4life.appointment.delete_failed", out.LogFields{
			"appointmentId": appointmentID,
			"error":         err.Error(),
		})
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		a.logger.Error("blood4life.appointment.delete_failed", out.LogFields{
			"appointmentId": appointmentID,
			"status":        resp.StatusCode,
		})
		return readError(resp)
	}

	return nil
}

// GetHospitals терпит оба формата ответа: голый массив и конверт {data: [...]}
func (a *Blood4LifeAdapter) GetHospitals(ctx context.Context) ([]domain.Hospital, error) {
	req, err := a.newRequest(ctx, http.MethodGet, "/hospital", nil)
	if err != nil {
		return nil, err
	}

	resp, err := a.client.Do(req)
	if err != nil {
		a.logger.Error("blood4life.hospitals.fetch_failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, readError(resp)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var hospitals []domain.Hospital
	if err := json.Unmarshal(raw, &hospitals); err == nil {
		return hospitals, nil
	}

	var envelope struct {
		Data []domain.Hospital `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		a.logger.Error("blood4life.hospitals.decode_failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}

	return envelope.Data, nil
}

func (a *Blood4LifeAdapter) GetCampaigns(ctx context.Context) ([]domain.Campaign, error) {
	req, err := a.newRequest(ctx, http.MethodGet, "/campaign", nil)
	if err != nil {
		return nil, err
	}

	resp, err := a.client.Do(req)
	if err != nil {
		a.logger.Error("blood4life.campaigns.fetch_failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, readError(resp)
	}

	var campaigns []domain.Campaign
	if err := json.NewDecoder(resp.Body).Decode(&campaigns); err != nil {
		a.logger.Error("blood4life.campaigns.decode_failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}

	a.logger.Debug("blood4life.campaigns.fetch_success", out.LogFields{
		"count": len(campaigns),
	})

	return campaigns, nil
}

func (a *Blood4LifeAdapter) GetDonor(ctx context.Context, donorID int64) (*domain.Donor, error) {
	req, err := a.newRequest(ctx, http.MethodGet, fmt.Sprintf("/bloodDonor/%d", donorID), nil)
	if err != nil {
		return nil, err
	}

	resp, err := a.client.Do(req)
	if err != nil {
		a.logger.Error("blood4life.donor.fetch_failed", out.LogFields{
			"donorId": donorID,
			"error":   err.Error(),
		})
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, readError(resp)
	}

	var donor domain.Donor
	if err := json.NewDecoder(resp.Body).Decode(&donor); err != nil {
		return nil, err
	}

	return &donor, nil
}
