package cache

import (
	"context"
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

func enabledConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Cache.Enabled = true
	cfg.Cache.AppointmentsSize = 10
	cfg.Cache.HospitalsTTLMin = 30
	return cfg
}

func TestNewCacheAdapterDisabled(t *testing.T) {
	cfg := &config.Config{}

	adapter, err := NewCacheAdapter(cfg, nopLogger{})

	require.NoError(t, err)
	assert.Nil(t, adapter)
}

func TestDonorAppointmentsCache(t *testing.T) {
	adapter, err := NewCacheAdapter(enabledConfig(), nopLogger{})
	require.NoError(t, err)

	ctx := context.Background()

	_, exists := adapter.GetDonorAppointments(ctx, 1)
	assert.False(t, exists)

	appointments := []domain.Appointment{{ID: 5, BloodDonorID: 1}}
	adapter.StoreDonorAppointments(ctx, 1, appointments)

	cached, exists := adapter.GetDonorAppointments(ctx, 1)
	require.True(t, exists)
	assert.Equal(t, appointments, cached)

	// Чужой донор не виден
	_, exists = adapter.GetDonorAppointments(ctx, 2)
	assert.False(t, exists)

	adapter.InvalidateDonorAppointments(ctx, 1)
	_, exists = adapter.GetDonorAppointments(ctx, 1)
	assert.False(t, exists)
}

func TestHospitalsCache(t *testing.T) {
	adapter, err := NewCacheAdapter(enabledConfig(), nopLogger{})
	require.NoError(t, err)

	ctx := context.Background()

	_, exists := adapter.GetHospitals(ctx)
	assert.False(t, exists)

	hospitals := []domain.Hospital{{ID: 1, Name: "Hospital Central"}}
	adapter.StoreHospitals(ctx, hospitals)

	cached, exists := adapter.GetHospitals(ctx)
	require.True(t, exists)
	assert.Equal(t, hospitals, cached)

	adapter.InvalidateHospitals(ctx)
	_, exists = adapter.GetHospitals(ctx)
	assert.False(t, exists)
}

func TestHospitalsCacheExpires(t *testing.T) {
	cfg := enabledConfig()
	cfg.Cache.HospitalsTTLMin = 0

	adapter, err := NewCacheAdapter(cfg, nopLogger{})
	require.NoError(t, err)

	ctx := context.Background()
	adapter.StoreHospitals(ctx, []domain.Hospital{{ID: 1}})

	// Нулевой TTL означает мгновенное устаревание
	_, exists := adapter.GetHospitals(ctx)
	assert.False(t, exists)
}
