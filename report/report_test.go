package report

import (
	"net/url"
	"strings"
	"testing"

	"solwindx/client"
	"solwindx/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func series(mode models.Mode, totals ...float64) *client.SeriesResult {
	r := &client.SeriesResult{
		Place:      client.Place{City: "Hassan", Lat: 13.0, Lon: 76.1, AssignedModel: "Hassan"},
		SeriesMode: mode,
	}
	for i, v := range totals {
		r.Days = append(r.Days, models.ForecastDay{Day: i + 1, EnergyTotal: v})
	}
	return r
}

func TestSummarizeWeekly(t *testing.T) {
	s := SummarizeSeries(series(models.ModeWeekly, 3, 9.5, 2, 9.5, 1, 4, 6))

	assert.Equal(t, 7, s.Days)
	assert.Equal(t, DayValue{Day: 2, EnergyTotal: 9.5}, s.Peak, "first of the tied maxima wins")
	assert.Equal(t, DayValue{Day: 5, EnergyTotal: 1}, s.Lowest)
	assert.InDelta(t, 35.0, s.Total, 1e-9)
	assert.InDelta(t, 5.0, s.Average, 1e-9)
	assert.Equal(t, ChartLine, s.Chart)
	assert.Equal(t, "7-Day Energy Forecast", s.Title)
	assert.Equal(t, "Day 1", s.Labels[0])
	assert.False(t, s.NoData)
}

func TestSummarizeAllEqual(t *testing.T) {
	s := SummarizeSeries(series(models.ModeWeekly, 4, 4, 4, 4, 4, 4, 4))
	assert.Equal(t, 1, s.Peak.Day)
	assert.Equal(t, 1, s.Lowest.Day)
}

func TestSummarizeMonthly(t *testing.T) {
	totals := make([]float64, 16)
	for i := range totals {
		totals[i] = float64(i % 5)
	}
	s := SummarizeSeries(series(models.ModeMonthly, totals...))

	assert.Equal(t, 16, s.Days)
	assert.Equal(t, ChartBar, s.Chart)
	assert.Equal(t, "30-Day Energy Forecast", s.Title)
	assert.Equal(t, "D16", s.Labels[15])
	assert.Equal(t, DayValue{Day: 5, EnergyTotal: 4}, s.Peak)
	assert.Equal(t, DayValue{Day: 1, EnergyTotal: 0}, s.Lowest)
}

func TestSummarizeEmptySeries(t *testing.T) {
	s := SummarizeSeries(series(models.ModeMonthly))
	assert.True(t, s.NoData)
	assert.Zero(t, s.Days)
	assert.Empty(t, s.Values)
}

func TestSummarizeDispatch(t *testing.T) {
	snap := &client.SnapshotResult{
		Place:       client.Place{City: "Karwar", Lat: 14.81853, Lon: 74.14164, AssignedModel: "Karwar"},
		Weather:     models.Weather{Temperature: 29, WindSpeed: 3, Condition: "Clear"},
		Area:        10,
		EnergyPerM2: 0.5,
		EnergyTotal: 5,
	}
	s := Summarize(snap)
	require.NotNil(t, s.Snapshot)
	assert.Nil(t, s.Series)
	assert.Nil(t, s.Wind)
	assert.Equal(t, "14.8185, 74.1416", s.Snapshot.Coordinates)
	assert.Equal(t, "Karwar", s.Map.City)

	wind := &client.WindResult{
		Place:            client.Place{City: "Karwar"},
		Turbines:         client.Turbines{Count: 4, RotorDiameter: 80, RotorArea: client.RotorArea(80)},
		EnergyTotal:      40,
		EnergyPerTurbine: 10,
	}
	s = Summarize(wind)
	require.NotNil(t, s.Wind)
	assert.Equal(t, 4, s.Wind.Turbines)
	assert.InDelta(t, 10.0, s.Wind.EnergyPerTurbine, 1e-9)
	assert.InDelta(t, 5026.55, s.Wind.RotorArea, 0.01)

	s = Summarize(series(models.ModeWeekly, 1, 2))
	require.NotNil(t, s.Series)
	assert.Equal(t, 2, s.Series.Peak.Day)
}

func TestMapWindow(t *testing.T) {
	m := NewMapWindow(client.Place{City: "Bidar", Lat: 17.9, Lon: 77.5})
	assert.Equal(t, "Bidar", m.City)
	assert.Equal(t, "17.9000, 77.5000", m.Coordinates)
	require.True(t, strings.HasPrefix(m.EmbedURL, osmEmbedURL+"?"))

	u, err := url.Parse(m.EmbedURL)
	require.NoError(t, err)
	assert.Equal(t, "17.9,77.5", u.Query().Get("marker"))
	assert.Equal(t, "mapnik", u.Query().Get("layer"))
	assert.Len(t, strings.Split(u.Query().Get("bbox"), ","), 4)
}
