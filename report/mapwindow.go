package report

import (
	"fmt"
	"net/url"

	"solwindx/client"
)

const (
	osmEmbedURL = "https://www.openstreetmap.org/export/embed.html"
	mapSpan     = 0.1 // degrees around the marker
)

// MapWindow locates the forecast on an embedded map
type MapWindow struct {
	City        string `json:"city"`
	Coordinates string `json:"coordinates"`
	EmbedURL    string `json:"embed_url"`
}

// NewMapWindow builds an OpenStreetMap embed centred on p
func NewMapWindow(p client.Place) MapWindow {
	q := url.Values{}
	q.Set("bbox", fmt.Sprintf("%g,%g,%g,%g", p.Lon-mapSpan, p.Lat-mapSpan, p.Lon+mapSpan, p.Lat+mapSpan))
	q.Set("layer", "mapnik")
	q.Set("marker", fmt.Sprintf("%g,%g", p.Lat, p.Lon))

	return MapWindow{
		City:        p.City,
		Coordinates: coordinates(p.Lat, p.Lon),
		EmbedURL:    osmEmbedURL + "?" + q.Encode(),
	}
}
