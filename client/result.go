package client

import (
	"fmt"

	"solwindx/models"
)

// Place is the location block every prediction echoes back
type Place struct {
	City          string  `json:"city"`
	Lat           float64 `json:"lat"`
	Lon           float64 `json:"lon"`
	AssignedModel string  `json:"assigned_model"`
}

// ForecastResult is a decoded prediction, tagged by the mode that was requested.
// It is one of *SnapshotResult, *SeriesResult or *WindResult.
type ForecastResult interface {
	Mode() models.Mode
	Where() Place
	forecastResult()
}

// SnapshotResult is a realtime single-point estimate
type SnapshotResult struct {
	Place
	Weather     models.Weather `json:"weather"`
	Area        float64        `json:"area"`
	EnergyPerM2 float64        `json:"energy_per_m2"`
	EnergyTotal float64        `json:"energy_total"`
}

// SeriesResult is a weekly or monthly per-day sequence
type SeriesResult struct {
	Place
	SeriesMode models.Mode          `json:"mode"`
	Weather    models.Weather       `json:"weather"`
	Days       []models.ForecastDay `json:"days"`
}

// WindResult is a single-point estimate for a turbine farm
type WindResult struct {
	Place
	Weather          models.Weather `json:"weather"`
	Turbines         Turbines       `json:"turbines"`
	EnergyTotal      float64        `json:"energy_total"`
	EnergyPerTurbine float64        `json:"energy_per_turbine"`
}

func (r *SnapshotResult) Mode() models.Mode { return models.ModeRealtime }
func (r *SeriesResult) Mode() models.Mode   { return r.SeriesMode }
func (r *WindResult) Mode() models.Mode     { return models.ModeWind }

func (r *SnapshotResult) Where() Place { return r.Place }
func (r *SeriesResult) Where() Place   { return r.Place }
func (r *WindResult) Where() Place     { return r.Place }

func (*SnapshotResult) forecastResult() {}
func (*SeriesResult) forecastResult()   {}
func (*WindResult) forecastResult()     {}

// Decode interprets resp as the variant req.Mode asked for.
// A response that lacks the fields of that variant is rejected with ErrUnexpectedShape.
func Decode(req models.ForecastRequest, turbines Turbines, resp models.ForecastResponse) (ForecastResult, error) {
	if resp.City != "" && resp.City != req.City {
		return nil, fmt.Errorf("%w: asked for %q, got %q", ErrUnexpectedShape, req.City, resp.City)
	}
	place := Place{
		City:          req.City,
		Lat:           resp.Lat,
		Lon:           resp.Lon,
		AssignedModel: resp.AssignedModel,
	}

	switch req.Mode {
	case models.ModeRealtime:
		if err := requireSnapshot(req.Mode, resp); err != nil {
			return nil, err
		}
		r := &SnapshotResult{
			Place:       place,
			Weather:     *resp.Weather,
			Area:        req.Area,
			EnergyTotal: *resp.EnergyTotal,
		}
		if resp.EnergyPerM2 != nil {
			r.EnergyPerM2 = *resp.EnergyPerM2
		} else if req.Area > 0 {
			r.EnergyPerM2 = r.EnergyTotal / req.Area
		}
		return r, nil

	case models.ModeWeekly, models.ModeMonthly:
		if len(resp.ForecastData) > req.Mode.MaxDays() {
			return nil, fmt.Errorf("%w: %s response has %d days, at most %d expected",
				ErrUnexpectedShape, req.Mode, len(resp.ForecastData), req.Mode.MaxDays())
		}
		prev := 0
		for _, d := range resp.ForecastData {
			if d.Day <= prev {
				return nil, fmt.Errorf("%w: %s response day %d out of order", ErrUnexpectedShape, req.Mode, d.Day)
			}
			prev = d.Day
		}
		r := &SeriesResult{
			Place:      place,
			SeriesMode: req.Mode,
			Days:       append([]models.ForecastDay(nil), resp.ForecastData...),
		}
		if resp.Weather != nil {
			r.Weather = *resp.Weather
		}
		return r, nil

	case models.ModeWind:
		if err := requireSnapshot(req.Mode, resp); err != nil {
			return nil, err
		}
		if turbines.Count <= 0 {
			return nil, fmt.Errorf("%w: wind result without turbines", ErrUnexpectedShape)
		}
		total := *resp.EnergyTotal
		return &WindResult{
			Place:            place,
			Weather:          *resp.Weather,
			Turbines:         turbines,
			EnergyTotal:      total,
			EnergyPerTurbine: total / float64(turbines.Count),
		}, nil
	}

	return nil, fmt.Errorf("%w: unknown mode %q", ErrUnexpectedShape, req.Mode)
}

func requireSnapshot(mode models.Mode, resp models.ForecastResponse) error {
	if resp.Weather == nil {
		return fmt.Errorf("%w: %s response has no weather", ErrUnexpectedShape, mode)
	}
	if resp.EnergyTotal == nil {
		return fmt.Errorf("%w: %s response has no energy_total", ErrUnexpectedShape, mode)
	}
	if len(resp.ForecastData) > 0 {
		return fmt.Errorf("%w: %s response carries a series", ErrUnexpectedShape, mode)
	}
	return nil
}
