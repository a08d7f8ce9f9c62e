// Copyright 2019-present Kuei-chun Chen. All rights reserved.
// frame.go

package timeline

// Frame is everything a renderer needs to draw the main chart and the
// overview pane of a graph
type Frame struct {
	Config    GraphConfig
	Main      []Series // active collection, hidden series blanked
	Overview  []Series // real data of every series
	View      Window   // x range of the main chart
	PanRange  Window
	Selection *Window    // selection on the overview, nil if none
	YAxis     *AxisRange // explicit y limits, nil to autoscale
	Legend    []LegendEntry
	DateSpan  string
}

// Renderer draws frames
type Renderer interface {
	Draw(frame Frame) error
}

// BusyIndicator is implemented by renderers that show a loading indicator
type BusyIndicator interface {
	SetBusy(element string, busy bool)
}

// RendererFunc adapts a function to a Renderer
type RendererFunc func(frame Frame) error

// Draw -
func (f RendererFunc) Draw(frame Frame) error { return f(frame) }

type nopRenderer struct{}

func (nopRenderer) Draw(Frame) error { return nil }

// DateSpan formats the visible range of a graph
func DateSpan(view Window, barWidth int64) string {
	if view.From.IsZero() && view.To.IsZero() {
		return ""
	}
	return FormatPointTime(view.From, barWidth) + " - " + FormatPointTime(view.To, barWidth)
}
