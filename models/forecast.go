package models

import (
	"fmt"
	"strings"
)

// Mode selects the request shape and how the response is interpreted
type Mode string

const (
	ModeRealtime Mode = "realtime"
	ModeWeekly   Mode = "7day"
	ModeMonthly  Mode = "monthly"
	ModeWind     Mode = "wind"
)

// Modes lists every supported mode in display order
var Modes = []Mode{ModeRealtime, ModeWeekly, ModeMonthly, ModeWind}

// ParseMode accepts a wire name ("realtime", "7day", "monthly", "wind") or "weekly"
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "realtime":
		return ModeRealtime, nil
	case "7day", "weekly":
		return ModeWeekly, nil
	case "monthly":
		return ModeMonthly, nil
	case "wind":
		return ModeWind, nil
	}
	return "", fmt.Errorf("unknown forecast mode %q", s)
}

// IsSolar reports whether the mode forecasts photovoltaic output
func (m Mode) IsSolar() bool {
	return m == ModeRealtime || m == ModeWeekly || m == ModeMonthly
}

// IsSeries reports whether the mode yields a per-day sequence
func (m Mode) IsSeries() bool {
	return m == ModeWeekly || m == ModeMonthly
}

// MaxDays is the largest number of per-day entries a series mode may return
func (m Mode) MaxDays() int {
	switch m {
	case ModeWeekly:
		return 7
	case ModeMonthly:
		return 30
	default:
		return 0
	}
}

// ForecastRequest is the body of POST /predict-energy.
// Efficiency is sent for solar modes, turbine fields for wind.
type ForecastRequest struct {
	City          string  `json:"city"`
	Area          float64 `json:"area"`
	Efficiency    float64 `json:"efficiency,omitempty"`
	NumTurbines   int     `json:"num_turbines,omitempty"`
	RotorDiameter float64 `json:"rotor_diameter,omitempty"`
	Mode          Mode    `json:"mode"`
}

// ForecastDay is one entry of a weekly or monthly series
type ForecastDay struct {
	Day         int     `json:"day"`
	EnergyTotal float64 `json:"energy_total"`           // kWh for the whole area
	EnergyPerM2 float64 `json:"energy_per_m2,omitempty"` // kWh/m²
	Timestamp   string  `json:"timestamp,omitempty"`
}

// ForecastResponse is the body returned by POST /predict-energy.
// Optional fields are pointers so a missing field can be told apart from zero.
type ForecastResponse struct {
	City          string        `json:"city"`
	Lat           float64       `json:"lat"`
	Lon           float64       `json:"lon"`
	AssignedModel string        `json:"assigned_model"`
	Weather       *Weather      `json:"weather"`
	EnergyPerM2   *float64      `json:"energy_per_m2,omitempty"`
	EnergyTotal   *float64      `json:"energy_total"`
	ForecastData  []ForecastDay `json:"forecast_data,omitempty"`
}

// CitiesResponse is the body returned by GET /cities
type CitiesResponse struct {
	Count  int      `json:"count"`
	Cities []string `json:"cities"`
}
