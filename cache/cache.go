package cache

import (
	"context"
	"sync"
	"time"

	"solwindx/datasource"
	"solwindx/models"

	"go.uber.org/zap"
)

// CachedService wraps a PredictionService and caches the city list.
// Predictions are always forwarded.
type CachedService struct {
	service        datasource.PredictionService
	cities         []string
	fetchedAt      time.Time
	mutex          sync.RWMutex
	cacheDuration  time.Duration
	cacheHitCount  int
	cacheMissCount int
	logger         *zap.Logger
	now            func() time.Time
}

// NewCachedService creates a new cached wrapper around a prediction service
func NewCachedService(service datasource.PredictionService, cacheDuration time.Duration, logger *zap.Logger) *CachedService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedService{
		service:       service,
		cacheDuration: cacheDuration,
		logger:        logger,
		now:           time.Now,
	}
}

// Name returns the name of the underlying service with [Cached] suffix
func (c *CachedService) Name() string {
	return c.service.Name() + " [Cached]"
}

// FetchCities returns the cached list while it is fresh and refetches otherwise.
// Failed fetches are not cached.
func (c *CachedService) FetchCities(ctx context.Context) ([]string, error) {
	c.mutex.RLock()
	cities, fetchedAt := c.cities, c.fetchedAt
	c.mutex.RUnlock()

	if cities != nil && c.now().Sub(fetchedAt) < c.cacheDuration {
		c.mutex.Lock()
		c.cacheHitCount++
		c.mutex.Unlock()

		c.logger.Debug("city cache hit",
			zap.String("source", c.service.Name()),
			zap.Duration("age", c.now().Sub(fetchedAt).Round(time.Second)))

		return append([]string(nil), cities...), nil
	}

	c.mutex.Lock()
	c.cacheMissCount++
	c.mutex.Unlock()

	c.logger.Debug("city cache miss, fetching fresh data", zap.String("source", c.service.Name()))

	fresh, err := c.service.FetchCities(ctx)
	if err != nil {
		return nil, err
	}

	c.mutex.Lock()
	c.cities = append([]string(nil), fresh...)
	c.fetchedAt = c.now()
	c.mutex.Unlock()

	return fresh, nil
}

// PredictEnergy forwards to the underlying service
func (c *CachedService) PredictEnergy(ctx context.Context, req models.ForecastRequest) (models.ForecastResponse, error) {
	return c.service.PredictEnergy(ctx, req)
}

// Invalidate drops the cached city list
func (c *CachedService) Invalidate() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.cities = nil
	c.fetchedAt = time.Time{}
}

// CacheStats returns statistics about cache hits and misses
func (c *CachedService) CacheStats() (hits, misses int) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.cacheHitCount, c.cacheMissCount
}

// Ensure CachedService implements the PredictionService interface
var _ datasource.PredictionService = (*CachedService)(nil)
