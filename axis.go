// Copyright 2019-present Kuei-chun Chen. All rights reserved.
// axis.go

package timeline

// YHeadroom is the multiplier applied to the maximum of the y axis
const YHeadroom = 1.1

// AxisRange -
type AxisRange struct {
	Min float64
	Max float64
}

// AxisBounds scans the points of the active series within the selection, or
// all points without a selection, and returns the y axis limits. The minimum
// has no headroom so series touching zero stay at zero. ok is false when no
// point falls into the window.
func AxisBounds(active []Series, selection *Window) (AxisRange, bool) {
	var ymin, ymax float64
	found := false
	for _, series := range active {
		for _, point := range series.Data {
			if selection != nil && !selection.Contains(point.Time) {
				continue
			}
			if !found || point.Value > ymax {
				ymax = point.Value
			}
			if !found || point.Value < ymin {
				ymin = point.Value
			}
			found = true
		}
	}
	if !found {
		return AxisRange{}, false
	}
	return AxisRange{Min: ymin, Max: ymax * YHeadroom}, true
}

// DataRange returns the earliest and latest timestamps of all points
func DataRange(series []Series) (Window, bool) {
	var w Window
	found := false
	for _, s := range series {
		for _, p := range s.Data {
			if !found || p.Time.Before(w.From) {
				w.From = p.Time
			}
			if !found || p.Time.After(w.To) {
				w.To = p.Time
			}
			found = true
		}
	}
	return w, found
}
