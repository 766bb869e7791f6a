package cache

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/suchimauz/blood4life-appointment-scheduler/internal/config"
	"github.com/suchimauz/blood4life-appointment-scheduler/internal/core/domain"
	"github.com/suchimauz/blood4life-appointment-scheduler/internal/core/ports/out"
)

type appointmentsCache struct {
	cache *lru.Cache[int64, []domain.Appointment]
}

// Справочник госпиталей меняется редко, хватает одного снимка с TTL
type hospitalsCache struct {
	hospitals []domain.Hospital
	timestamp time.Time
	ttl       time.Duration
}

type CacheAdapter struct {
	appointmentsCache *appointmentsCache
	hospitalsCache    *hospitalsCache
	mu                sync.RWMutex
	logger            out.LoggerPort
}

func NewCacheAdapter(cfg *config.Config, logger out.LoggerPort) (*CacheAdapter, error) {
	if !cfg.Cache.Enabled {
		logger.Info("cache.disabled", out.LogFields{
			"message": "Cache is disabled",
		})
		return nil, nil
	}

	lruAppointmentsCache, err := lru.New[int64, []domain.Appointment](cfg.Cache.AppointmentsSize)
	if err != nil {
		logger.Error("cache.appointments.init.failed", out.LogFields{
			"error": err.Error(),
			"size":  cfg.Cache.AppointmentsSize,
		})
		return nil, err
	}

	return &CacheAdapter{
		appointmentsCache: &appointmentsCache{
			cache: lruAppointmentsCache,
		},
		hospitalsCache: &hospitalsCache{
			ttl: time.Duration(cfg.Cache.HospitalsTTLMin) * time.Minute,
		},
		logger: logger.WithModule("CacheAdapter"),
	}, nil
}

func (c *CacheAdapter) GetDonorAppointments(ctx context.Context, donorID int64) ([]domain.Appointment, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	appointments, exists := c.appointmentsCache.cache.Get(donorID)
	if !exists {
		c.logger.Debug("cache.appointments.get.miss", out.LogFields{
			"donorId": donorID,
		})
		return nil, false
	}

	c.logger.Debug("cache.appointments.get.hit", out.LogFields{
		"donorId": donorID,
		"count":   len(appointments),
	})
	return appointments, true
}

func (c *CacheAdapter) StoreDonorAppointments(ctx context.Context, donorID int64, appointments []domain.Appointment) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.logger.Debug("cache.appointments.store", out.LogFields{
		"donorId": donorID,
		"count":   len(appointments),
	})

	c.appointmentsCache.cache.Add(donorID, appointments)
}

func (c *CacheAdapter) InvalidateDonorAppointments(ctx context.Context, donorID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.logger.Debug("cache.appointments.invalidate", out.LogFields{
		"donorId": donorID,
	})

	c.appointmentsCache.cache.Remove(donorID)
}

// Кэширование справочника госпиталей

func (c *CacheAdapter) GetHospitals(ctx context.Context) ([]domain.Hospital, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.hospitalsCache.hospitals == nil || time.Since(c.hospitalsCache.timestamp) > c.hospitalsCache.ttl {
		return nil, false
	}

	return c.hospitalsCache.hospitals, true
}

func (c *CacheAdapter) StoreHospitals(ctx context.Context, hospitals []domain.Hospital) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.hospitalsCache.hospitals = hospitals
	c.hospitalsCache.timestamp = time.Now()
}

func (c *CacheAdapter) InvalidateHospitals(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.hospitalsCache.hospitals = nil
	c.hospitalsCache.timestamp = time.Time{}
}
