package models

import (
	"strings"
)

// ModelKind is the prediction model category a location is served by
type ModelKind int

const (
	ModelDefault ModelKind = iota
	ModelCoastal
	ModelUrban
)

// Name substrings that place a location in the coastal or urban category.
// Coastal markers are checked first.
var (
	coastalMarkers = []string{"Karwar", "Mangaluru", "Udupi", "Bhatkal", "Kundapur"}
	urbanMarkers   = []string{"Bengaluru", "Bangalore", "Mysuru", "Hubballi"}
)

// String returns the category name
func (k ModelKind) String() string {
	switch k {
	case ModelCoastal:
		return "coastal"
	case ModelUrban:
		return "urban"
	default:
		return "default"
	}
}

// ModelName returns the name of the trained model serving this category
func (k ModelKind) ModelName() string {
	switch k {
	case ModelCoastal:
		return "Karwar"
	case ModelUrban:
		return "Bengaluru"
	default:
		return "Hassan"
	}
}

// MarshalText encodes the category by name
func (k ModelKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// AssignModel picks the model category for a location name.
// Matching is a case-sensitive substring test; coastal wins over urban.
func AssignModel(name string) ModelKind {
	for _, marker := range coastalMarkers {
		if strings.Contains(name, marker) {
			return ModelCoastal
		}
	}
	for _, marker := range urbanMarkers {
		if strings.Contains(name, marker) {
			return ModelUrban
		}
	}
	return ModelDefault
}

// Location is a named place eligible for forecasting
type Location struct {
	Name  string    `json:"name"`
	Model ModelKind `json:"model"`
}

// NewLocation builds a location and assigns its model category
func NewLocation(name string) Location {
	return Location{
		Name:  name,
		Model: AssignModel(name),
	}
}

// NewLocations builds locations for every name, preserving order
func NewLocations(names []string) []Location {
	locations := make([]Location, 0, len(names))
	for _, name := range names {
		locations = append(locations, NewLocation(name))
	}
	return locations
}
