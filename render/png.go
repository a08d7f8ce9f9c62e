// Copyright 2019-present Kuei-chun Chen. All rights reserved.
// png.go

package render

import (
	"image/color"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/simagix/timeline"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Image sizes
var (
	MainWidth      = 10 * vg.Inch
	MainHeight     = 4 * vg.Inch
	OverviewHeight = 1.5 * vg.Inch
)

// PNG draws the main chart and the overview pane of a frame into Dir as
// {id}-graph-c.png and {id}-graph-overview.png
type PNG struct {
	Dir string
}

// NewPNG -
func NewPNG(dir string) *PNG {
	return &PNG{Dir: dir}
}

// MainFile returns the image path of the main chart
func (r *PNG) MainFile(cfg timeline.GraphConfig) string {
	return filepath.Join(r.Dir, cfg.ElementName("graph-c")+".png")
}

// OverviewFile returns the image path of the overview pane
func (r *PNG) OverviewFile(cfg timeline.GraphConfig) string {
	return filepath.Join(r.Dir, cfg.ElementName("graph-overview")+".png")
}

// Draw -
func (r *PNG) Draw(frame timeline.Frame) error {
	if err := os.MkdirAll(r.Dir, 0755); err != nil {
		return err
	}
	palette, err := frame.Config.Palette()
	if err != nil {
		return err
	}

	chart := plot.New()
	chart.Title.Text = frame.Config.Name
	if frame.DateSpan != "" {
		chart.Title.Text += " " + frame.DateSpan
	}
	chart.Y.Label.Text = frame.Config.Units
	chart.X.Tick.Marker = plot.TimeTicks{Format: tickFormat(frame.Config.BarWidth)}
	if err = addSeries(chart, frame.Main, frame.Config, palette, legendLabels(frame)); err != nil {
		return err
	}
	if !frame.View.From.IsZero() {
		chart.X.Min, chart.X.Max = unix(frame.View.From), unix(frame.View.To)
	}
	if frame.YAxis != nil {
		chart.Y.Min, chart.Y.Max = frame.YAxis.Min, frame.YAxis.Max
	}
	if err = chart.Save(MainWidth, MainHeight, r.MainFile(frame.Config)); err != nil {
		return errors.Wrap(err, "save main chart")
	}

	overview := plot.New()
	overview.X.Tick.Marker = plot.TimeTicks{Format: "1/2"}
	if err = addSeries(overview, frame.Overview, frame.Config, palette, nil); err != nil {
		return err
	}
	if !frame.PanRange.From.IsZero() {
		overview.X.Min, overview.X.Max = unix(frame.PanRange.From), unix(frame.PanRange.To)
	}
	if frame.Selection != nil {
		addSelection(overview, *frame.Selection)
	}
	if err = overview.Save(MainWidth, OverviewHeight, r.OverviewFile(frame.Config)); err != nil {
		return errors.Wrap(err, "save overview")
	}
	return nil
}

func unix(t time.Time) float64 {
	return float64(t.UnixMilli()) / 1000
}

func tickFormat(barWidth int64) string {
	if barWidth < timeline.MinuteBar {
		return "15:04:05"
	}
	return "15:04"
}

// legendLabels marks hidden series
func legendLabels(frame timeline.Frame) []string {
	labels := make([]string, len(frame.Legend))
	for i, entry := range frame.Legend {
		labels[i] = entry.Label
		if entry.Disabled {
			labels[i] += " (hidden)"
		}
	}
	return labels
}

func seriesColor(palette []color.Color, i int) color.Color {
	if i < len(palette) {
		return palette[i]
	}
	return plotutil.Color(i)
}

func addSeries(p *plot.Plot, series []timeline.Series, cfg timeline.GraphConfig, palette []color.Color, labels []string) error {
	for i, s := range series {
		xys := make(plotter.XYs, len(s.Data))
		for j, point := range s.Data {
			xys[j].X, xys[j].Y = unix(point.Time), point.Value
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return errors.Wrapf(err, "series %v", s.Label)
		}
		if cfg.Type == timeline.TypeBar {
			line.StepStyle = plotter.PostStep
		}
		line.LineStyle.Width = vg.Points(1)
		// the most recent point series share the color of their base series
		line.LineStyle.Color = seriesColor(palette, i%cfg.NumSeries())
		p.Add(line)
		if i < len(labels) && i < cfg.NumSeries() {
			p.Legend.Add(labels[i], line)
		}
	}
	return nil
}

// addSelection shades the selected window of the overview
func addSelection(p *plot.Plot, w timeline.Window) {
	min, max := p.Y.Min, p.Y.Max
	if max <= min {
		max = min + 1
	}
	from, to := unix(w.From), unix(w.To)
	box, err := plotter.NewPolygon(plotter.XYs{{X: from, Y: min}, {X: to, Y: min}, {X: to, Y: max}, {X: from, Y: max}})
	if err != nil {
		return
	}
	box.Color = color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0x40}
	box.LineStyle.Width = 0
	p.Add(box)
}
