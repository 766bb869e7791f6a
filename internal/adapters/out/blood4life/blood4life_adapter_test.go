package blood4life

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suchimauz/blood4life-appointment-scheduler/internal/config"
	"github.com/suchimauz/blood4life-appointment-scheduler/internal/core/domain"
	"github.com/suchimauz/blood4life-appointment-scheduler/internal/core/ports/out"
)

type nopLogger struct{}

func (nopLogger) Debug(event string, fields out.LogFields) {}
func (nopLogger) Info(event string, fields out.LogFields) {}
func (nopLogger) Warn(event string, fields out.LogFields) {}
func (nopLogger) Error(event string, fields out.LogFields) {}
func (l nopLogger) WithFields(fields out.LogFields) out.LoggerPort { return l }
func (l nopLogger) WithModule(module string) out.LoggerPort        { return l }

func newTestAdapter(server *httptest.Server) *Blood4LifeAdapter {
	cfg := &config.Config{}
	cfg.Blood4Life.URL = server.URL
	cfg.Blood4Life.SessionCookieName = "JSESSIONID"
	cfg.Blood4Life.SessionCookieValue = "test-session"
	return NewBlood4LifeAdapter(cfg, nopLogger{})
}

func TestGetDonorAppointments(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/appointment/donor/7", r.URL.Path)

		cookie, err := r.Cookie("JSESSIONID")
		require.NoError(t, err)
		assert.Equal(t, "test-session", cookie.Value)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id":1,"campaignId":3,"bloodDonorId":7,"dateAppointment":"2025-06-20","hourAppointment":"14:00","appointmentStatus":{"id":1,"name":"Programada"}},
			{"id":2,"campaignId":4,"bloodDonorId":7,"dateAppointment":"2025-03-01","hourAppointment":null,"appointmentStatus":{"id":3,"name":"Completada"}}
		]`))
	}))
	defer server.Close()

	adapter := newTestAdapter(server)

	appointments, err := adapter.GetDonorAppointments(context.Background(), 7)

	require.NoError(t, err)
	require.Len(t, appointments, 2)
	assert.Equal(t, int64(1), appointments[0].ID)
	assert.Equal(t, "2025-06-20", appointments[0].DateAppointment.String())
	assert.Equal(t, "14:00", appointments[0].HourAppointment.String())
	assert.Equal(t, domain.AppointmentStatusScheduledID, appointments[0].Status.ID)
	assert.True(t, appointments[1].HourAppointment.IsZero())
	assert.True(t, appointments[1].IsCompleted())
}

func TestGetDonorAppointmentsBackendError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"Donante no encontrado"}`))
	}))
	defer server.Close()

	adapter := newTestAdapter(server)

	appointments, err := adapter.GetDonorAppointments(context.Background(), 7)

	require.Error(t, err)
	assert.Nil(t, appointments)
	assert.Contains(t, err.Error(), "Donante no encontrado")
}

func TestCreateAppointmentSendsScheduledStatus(t *testing.T) {
	var received domain.Appointment
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/appointment/create", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		received.ID = 55
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(received)
	}))
	defer server.Close()

	adapter := newTestAdapter(server)
	appointment := domain.Appointment{
		CampaignID:   3,
		BloodDonorID: 7,
		Status:       domain.AppointmentStatusScheduled(),
	}

	created, err := adapter.CreateAppointment(context.Background(), appointment)

	require.NoError(t, err)
	assert.Equal(t, int64(55), created.ID)
	assert.Equal(t, domain.AppointmentStatusScheduledID, received.Status.ID)
	assert.Equal(t, "Programada", received.Status.Name)
}

func TestDeleteAppointment(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/appointment/delete/55", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	adapter := newTestAdapter(server)

	require.NoError(t, adapter.DeleteAppointment(context.Background(), 55))
}

func TestGetHospitalsBareArray(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/hospital", r.URL.Path)
		w.Write([]byte(`[{"id":1,"name":"Hospital Central"},{"id":2,"name":"Hospital Norte"}]`))
	}))
	defer server.Close()

	adapter := newTestAdapter(server)

	hospitals, err := adapter.GetHospitals(context.Background())

	require.NoError(t, err)
	require.Len(t, hospitals, 2)
	assert.Equal(t, "Hospital Central", hospitals[0].Name)
}

func TestGetHospitalsEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[{"id":1,"name":"Hospital Central"}]}`))
	}))
	defer server.Close()

	adapter := newTestAdapter(server)

	hospitals, err := adapter.GetHospitals(context.Background())

	require.NoError(t, err)
	require.Len(t, hospitals, 1)
	assert.Equal(t, int64(1), hospitals[0].ID)
}

func TestGetDonor(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bloodDonor/7", r.URL.Path)
		w.Write([]byte(`{"id":7,"firstName":"Ana","lastName":"García","gender":"Femenino","registrationDate":"2024-01-15"}`))
	}))
	defer server.Close()

	adapter := newTestAdapter(server)

	donor, err := adapter.GetDonor(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, int64(7), donor.ID)
	assert.Equal(t, domain.DonorGenderFemale, donor.Gender)
	assert.Equal(t, 120, donor.WaitingPeriodDays())
	assert.Equal(t, "2024-01-15", donor.RegistrationDate.String())
}
