package client

import (
	"go.uber.org/zap"
)

// Chart is a drawn chart that must be released before another takes its place
type Chart interface {
	Close() error
}

// Renderer draws a result. It returns a chart handle, or nil when the result
// has no chart.
type Renderer interface {
	Render(ForecastResult) (Chart, error)
}

// RendererFunc adapts a function to Renderer
type RendererFunc func(ForecastResult) (Chart, error)

func (f RendererFunc) Render(r ForecastResult) (Chart, error) { return f(r) }

// View owns what is currently on screen: the latest result and at most one chart.
// It is not safe for concurrent use; Client guards it.
type View struct {
	renderer Renderer
	logger   *zap.Logger

	seq    uint64
	result ForecastResult
	chart  Chart
}

func newView(renderer Renderer, logger *zap.Logger) *View {
	return &View{renderer: renderer, logger: logger}
}

// show replaces the displayed result. The previous chart is closed first.
func (v *View) show(seq uint64, result ForecastResult) error {
	v.disposeChart()

	v.seq = seq
	v.result = result
	if v.renderer == nil {
		return nil
	}

	chart, err := v.renderer.Render(result)
	if err != nil {
		return err
	}
	v.chart = chart
	return nil
}

func (v *View) disposeChart() {
	if v.chart == nil {
		return
	}
	if err := v.chart.Close(); err != nil {
		v.logger.Warn("failed to dispose chart", zap.Error(err))
	}
	v.chart = nil
}

// close releases the chart and forgets the result
func (v *View) close() {
	v.disposeChart()
	v.result = nil
}
