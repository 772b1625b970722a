package client

import (
	"context"
	"errors"
	"sync"

	"solwindx/models"
)

// fakeService records requests and answers from canned responses
type fakeService struct {
	mu        sync.Mutex
	cities    []string
	citiesErr error
	requests  []models.ForecastRequest

	// respond builds the answer for a request; nil means an empty success
	respond func(ctx context.Context, req models.ForecastRequest) (models.ForecastResponse, error)
}

func (f *fakeService) Name() string { return "Fake" }

func (f *fakeService) FetchCities(ctx context.Context) ([]string, error) {
	if f.citiesErr != nil {
		return nil, f.citiesErr
	}
	return f.cities, nil
}

func (f *fakeService) PredictEnergy(ctx context.Context, req models.ForecastRequest) (models.ForecastResponse, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	respond := f.respond
	f.mu.Unlock()

	if respond == nil {
		return snapshotResponse(req.City, 12.5), nil
	}
	return respond(ctx, req)
}

func (f *fakeService) calls() []models.ForecastRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.ForecastRequest(nil), f.requests...)
}

var errUnreachable = errors.New("dial tcp: connection refused")

func ptr(v float64) *float64 { return &v }

func snapshotResponse(city string, total float64) models.ForecastResponse {
	return models.ForecastResponse{
		City:          city,
		Lat:           14.8185,
		Lon:           74.1416,
		AssignedModel: "Karwar",
		Weather:       &models.Weather{Temperature: 28.4, WindSpeed: 4.1, Condition: "Clear"},
		EnergyPerM2:   ptr(0.125),
		EnergyTotal:   ptr(total),
	}
}

func seriesResponse(city string, totals ...float64) models.ForecastResponse {
	resp := snapshotResponse(city, 1)
	for i, v := range totals {
		resp.ForecastData = append(resp.ForecastData, models.ForecastDay{Day: i + 1, EnergyTotal: v})
	}
	return resp
}

type fakeChart struct {
	closed bool
}

func (c *fakeChart) Close() error {
	c.closed = true
	return nil
}
