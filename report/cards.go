package report

import (
	"fmt"

	"solwindx/client"
)

// Snapshot is the energy, weather and system card of a realtime forecast
type Snapshot struct {
	EnergyPerM2 float64 `json:"energy_per_m2"`
	EnergyTotal float64 `json:"energy_total"`
	Area        float64 `json:"area"`
	Temperature float64 `json:"temperature"`
	WindSpeed   float64 `json:"wind_speed"`
	Condition   string  `json:"condition"`
	Model       string  `json:"model"`
	Coordinates string  `json:"coordinates"`
}

// Wind is the output, conditions and turbine card of a wind forecast
type Wind struct {
	EnergyPerTurbine float64 `json:"energy_per_turbine"`
	EnergyTotal      float64 `json:"energy_total"`
	Turbines         int     `json:"turbines"`
	RotorArea        float64 `json:"rotor_area"`
	WindSpeed        float64 `json:"wind_speed"`
	Temperature      float64 `json:"temperature"`
	Condition        string  `json:"condition"`
	Model            string  `json:"model"`
}

// Summary is the display data for any result; exactly one card is set
type Summary struct {
	Map      MapWindow      `json:"map"`
	Snapshot *Snapshot      `json:"snapshot,omitempty"`
	Series   *SeriesSummary `json:"series,omitempty"`
	Wind     *Wind          `json:"wind,omitempty"`
}

// Summarize dispatches on the result variant
func Summarize(result client.ForecastResult) Summary {
	s := Summary{Map: NewMapWindow(result.Where())}

	switch r := result.(type) {
	case *client.SnapshotResult:
		s.Snapshot = &Snapshot{
			EnergyPerM2: r.EnergyPerM2,
			EnergyTotal: r.EnergyTotal,
			Area:        r.Area,
			Temperature: r.Weather.Temperature,
			WindSpeed:   r.Weather.WindSpeed,
			Condition:   r.Weather.Condition,
			Model:       r.AssignedModel,
			Coordinates: coordinates(r.Lat, r.Lon),
		}
	case *client.SeriesResult:
		series := SummarizeSeries(r)
		s.Series = &series
	case *client.WindResult:
		s.Wind = &Wind{
			EnergyPerTurbine: r.EnergyPerTurbine,
			EnergyTotal:      r.EnergyTotal,
			Turbines:         r.Turbines.Count,
			RotorArea:        r.Turbines.RotorArea,
			WindSpeed:        r.Weather.WindSpeed,
			Temperature:      r.Weather.Temperature,
			Condition:        r.Weather.Condition,
			Model:            r.AssignedModel,
		}
	}
	return s
}

func coordinates(lat, lon float64) string {
	return fmt.Sprintf("%.4f, %.4f", lat, lon)
}
