package datasource

import (
	"context"
	"fmt"

	"solwindx/models"

	"golang.org/x/time/rate"
)

// RateLimitedService wraps a PredictionService with rate limiting.
// City listing and predictions draw from separate limiters.
type RateLimitedService struct {
	service        PredictionService
	citiesLimiter  *rate.Limiter
	predictLimiter *rate.Limiter
	name           string
}

// NewRateLimitedService creates a rate limited service
// rps is the maximum requests per second allowed (can be fractional for less than 1 request per second)
// burst is the maximum burst size allowed
func NewRateLimitedService(service PredictionService, rps float64, burst int) *RateLimitedService {
	if burst < 1 {
		burst = 1
	}
	return &RateLimitedService{
		service:        service,
		citiesLimiter:  rate.NewLimiter(rate.Limit(rps), burst),
		predictLimiter: rate.NewLimiter(rate.Limit(rps), burst),
		name:           fmt.Sprintf("%s [Rate Limited]", service.Name()),
	}
}

// FetchCities fetches the city list, respecting rate limits
func (r *RateLimitedService) FetchCities(ctx context.Context) ([]string, error) {
	if err := r.citiesLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return r.service.FetchCities(ctx)
}

// PredictEnergy forwards a prediction, respecting rate limits
func (r *RateLimitedService) PredictEnergy(ctx context.Context, req models.ForecastRequest) (models.ForecastResponse, error) {
	if err := r.predictLimiter.Wait(ctx); err != nil {
		return models.ForecastResponse{}, fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return r.service.PredictEnergy(ctx, req)
}

// Name returns the service name
func (r *RateLimitedService) Name() string {
	return r.name
}

var _ PredictionService = (*RateLimitedService)(nil)
