package client

import (
	"strings"

	"solwindx/models"
)

// MaxMatches caps the filter-as-you-type dropdown
const MaxMatches = 10

// FallbackCities is used when the city list cannot be fetched.
// The same names are featured on the city grid.
var FallbackCities = []string{
	"Bengaluru", "Hassan", "Karwar", "Mysuru", "Mangaluru",
	"Hubballi", "Belagavi", "Davanagere", "Bidar",
}

// Filter returns the locations whose name contains query, ignoring case,
// in their original order and at most MaxMatches of them.
// A blank query matches nothing.
func Filter(locations []models.Location, query string) []models.Location {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	var matches []models.Location
	for _, loc := range locations {
		if strings.Contains(strings.ToLower(loc.Name), q) {
			matches = append(matches, loc)
			if len(matches) == MaxMatches {
				break
			}
		}
	}
	return matches
}

// featured picks the grid cities out of the loaded list, or the fixed set if none were loaded
func featured(locations []models.Location) []models.Location {
	allowed := make(map[string]bool, len(FallbackCities))
	for _, name := range FallbackCities {
		allowed[name] = true
	}

	var out []models.Location
	for _, loc := range locations {
		if allowed[loc.Name] {
			out = append(out, loc)
		}
	}
	if len(out) == 0 {
		return models.NewLocations(FallbackCities)
	}
	return out
}
