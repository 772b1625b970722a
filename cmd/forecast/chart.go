package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"solwindx/client"
	"solwindx/report"

	"gonum.org/v1/gonum/floats"
)

const barWidth = 40

// textChart draws a series as horizontal bars
type textChart struct {
	out    io.Writer
	closed bool
}

func (c *textChart) Close() error {
	c.closed = true
	return nil
}

// renderChart draws series results; other modes have no chart
func renderChart(result client.ForecastResult) (client.Chart, error) {
	series, ok := result.(*client.SeriesResult)
	if !ok {
		return nil, nil
	}
	summary := report.SummarizeSeries(series)
	if summary.NoData {
		return nil, nil
	}

	chart := &textChart{out: os.Stdout}
	if err := drawBars(chart.out, summary); err != nil {
		return nil, err
	}
	return chart, nil
}

func drawBars(w io.Writer, s report.SeriesSummary) error {
	if _, err := fmt.Fprintf(w, "%s (%s)\n", s.Title, s.Chart); err != nil {
		return err
	}
	peak := floats.Max(s.Values)
	for i, v := range s.Values {
		n := 0
		if peak > 0 && v > 0 {
			n = int(v / peak * barWidth)
		}
		if _, err := fmt.Fprintf(w, "%7s │%s %.2f\n", s.Labels[i], strings.Repeat("█", n), v); err != nil {
			return err
		}
	}
	return nil
}
