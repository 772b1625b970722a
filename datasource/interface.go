package datasource

import (
	"context"

	"solwindx/models"
)

// CitySource is an interface for services that list the locations they can forecast
type CitySource interface {
	// FetchCities returns the canonical location names
	FetchCities(ctx context.Context) ([]string, error)

	// Name returns the source's name
	Name() string
}

// Predictor is an interface for services that estimate energy output
type Predictor interface {
	// PredictEnergy issues a single prediction request
	PredictEnergy(ctx context.Context, req models.ForecastRequest) (models.ForecastResponse, error)

	// Name returns the predictor's name
	Name() string
}

// PredictionService is the remote backend, which implements both interfaces
type PredictionService interface {
	CitySource
	Predictor
}
