package client

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"solwindx/models"
)

// Form defaults applied when an optional field is blank or unreadable
const (
	DefaultEfficiencyPercent = 18.0
	DefaultNumTurbines       = 1
	DefaultRotorDiameter     = 80.0
)

// Inputs are the numeric form fields exactly as the user typed them
type Inputs struct {
	PanelArea       string `json:"panel_area"`
	PanelEfficiency string `json:"panel_efficiency"` // percent
	NumTurbines     string `json:"num_turbines"`
	RotorDiameter   string `json:"rotor_diameter"` // metres
}

// Turbines describes the wind farm a request was built for
type Turbines struct {
	Count         int     `json:"count"`
	RotorDiameter float64 `json:"rotor_diameter"`
	RotorArea     float64 `json:"rotor_area"` // swept area of one rotor, m²
}

// RotorArea is the swept area of a rotor with the given diameter
func RotorArea(diameter float64) float64 {
	r := diameter / 2
	return math.Pi * r * r
}

// BuildRequest validates inputs for mode and builds the request body.
// Turbines is only filled for wind requests.
func BuildRequest(city string, mode models.Mode, in Inputs) (models.ForecastRequest, Turbines, error) {
	switch {
	case mode.IsSolar():
		area, ok := parsePositive(in.PanelArea)
		if !ok {
			return models.ForecastRequest{}, Turbines{}, &ValidationError{Field: "panel_area", Message: MsgPanelArea}
		}
		return models.ForecastRequest{
			City:       city,
			Area:       area,
			Efficiency: efficiencyFraction(in.PanelEfficiency),
			Mode:       mode,
		}, Turbines{}, nil

	case mode == models.ModeWind:
		count := DefaultNumTurbines
		if n, ok := parseLeadingInt(in.NumTurbines); ok {
			if n <= 0 {
				return models.ForecastRequest{}, Turbines{}, &ValidationError{Field: "num_turbines", Message: MsgTurbineCount}
			}
			count = n
		}

		diameter := DefaultRotorDiameter
		if d, ok := parseFloat(in.RotorDiameter); ok {
			if d <= 0 {
				return models.ForecastRequest{}, Turbines{}, &ValidationError{Field: "rotor_diameter", Message: MsgRotorDiameter}
			}
			diameter = d
		}

		t := Turbines{Count: count, RotorDiameter: diameter, RotorArea: RotorArea(diameter)}
		return models.ForecastRequest{
			City:          city,
			Area:          t.RotorArea * float64(count),
			NumTurbines:   count,
			RotorDiameter: diameter,
			Mode:          mode,
		}, t, nil
	}

	return models.ForecastRequest{}, Turbines{}, &ValidationError{Field: "mode", Message: MsgUnsupportedMode}
}

// efficiencyFraction turns a percentage field into a fraction, 18% when blank or not positive
func efficiencyFraction(field string) float64 {
	pct, ok := parsePositive(field)
	if !ok {
		pct = DefaultEfficiencyPercent
	}
	return pct / 100
}

// Numeric prefixes of a form field; trailing text such as units is ignored.
var (
	leadingFloat = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
	leadingInt   = regexp.MustCompile(`^[+-]?\d+`)
)

// parseFloat reads the number at the start of field, so "12.5m" is 12.5.
// It fails only when no finite number leads the field.
func parseFloat(field string) (float64, bool) {
	prefix := leadingFloat.FindString(strings.TrimSpace(field))
	if prefix == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(prefix, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// parseLeadingInt reads the integer at the start of field, so "3.0" and
// "3 turbines" are both 3.
func parseLeadingInt(field string) (int, bool) {
	prefix := leadingInt.FindString(strings.TrimSpace(field))
	if prefix == "" {
		return 0, false
	}
	n, err := strconv.Atoi(prefix)
	if err != nil {
		return 0, false
	}
	return n, true
}

func parsePositive(field string) (float64, bool) {
	v, ok := parseFloat(field)
	return v, ok && v > 0
}
