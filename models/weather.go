package models

// Weather represents the conditions the prediction service used for its estimate
type Weather struct {
	Temperature float64 `json:"temperature"` // in Celsius
	WindSpeed   float64 `json:"wind_speed"`  // in m/s
	Condition   string  `json:"condition"`   // "Clear" or "Cloudy"
}
