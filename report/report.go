// Package report derives presentation-ready figures from forecast results.
package report

import (
	"fmt"

	"solwindx/client"
	"solwindx/models"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ChartStyle is how a series is drawn
type ChartStyle string

const (
	ChartNone ChartStyle = ""
	ChartLine ChartStyle = "line"
	ChartBar  ChartStyle = "bar"
)

// DayValue is one day of a series
type DayValue struct {
	Day         int     `json:"day"`
	EnergyTotal float64 `json:"energy_total"`
}

// SeriesSummary is the summary card and chart data of a weekly or monthly forecast
type SeriesSummary struct {
	Mode    models.Mode `json:"mode"`
	Title   string      `json:"title"`
	Chart   ChartStyle  `json:"chart"`
	Labels  []string    `json:"labels"`
	Values  []float64   `json:"values"`
	Days    int         `json:"days"`
	Total   float64     `json:"total"`
	Average float64     `json:"average"`
	Peak    DayValue    `json:"peak"`
	Lowest  DayValue    `json:"lowest"`
	NoData  bool        `json:"no_data"`
}

// SummarizeSeries computes totals and extremes. Ties for peak and lowest go to
// the first occurrence, which is the lowest day number.
func SummarizeSeries(r *client.SeriesResult) SeriesSummary {
	s := SeriesSummary{
		Mode:  r.SeriesMode,
		Title: chartTitle(r.SeriesMode),
		Chart: chartStyle(r.SeriesMode),
		Days:  len(r.Days),
	}
	if len(r.Days) == 0 {
		s.NoData = true
		return s
	}

	s.Values = make([]float64, len(r.Days))
	s.Labels = make([]string, len(r.Days))
	for i, d := range r.Days {
		s.Values[i] = d.EnergyTotal
		s.Labels[i] = dayLabel(r.SeriesMode, d.Day)
	}

	s.Total = floats.Sum(s.Values)
	s.Average = stat.Mean(s.Values, nil)

	peak := floats.MaxIdx(s.Values)
	s.Peak = DayValue{Day: r.Days[peak].Day, EnergyTotal: s.Values[peak]}
	low := floats.MinIdx(s.Values)
	s.Lowest = DayValue{Day: r.Days[low].Day, EnergyTotal: s.Values[low]}

	return s
}

func chartTitle(mode models.Mode) string {
	switch mode {
	case models.ModeWeekly:
		return "7-Day Energy Forecast"
	case models.ModeMonthly:
		return "30-Day Energy Forecast"
	}
	return ""
}

func chartStyle(mode models.Mode) ChartStyle {
	switch mode {
	case models.ModeWeekly:
		return ChartLine
	case models.ModeMonthly:
		return ChartBar
	}
	return ChartNone
}

func dayLabel(mode models.Mode, day int) string {
	if mode == models.ModeMonthly {
		return fmt.Sprintf("D%d", day)
	}
	return fmt.Sprintf("Day %d", day)
}
