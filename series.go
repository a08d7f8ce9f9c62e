// Copyright 2019-present Kuei-chun Chen. All rights reserved.
// series.go

package timeline

import (
	"time"
)

// SeriesID is the position of a series in the configured series set. Base
// series occupy [0,N); with SepLastPoint the most recent points of each base
// series occupy [N,2N).
type SeriesID int

// Point -
type Point struct {
	Time  time.Time
	Value float64
}

// Series is one labeled dataset of (time, value) points
type Series struct {
	Label string
	Data  []Point
}

// Window is an inclusive time range on the x axis
type Window struct {
	From time.Time
	To   time.Time
}

// Contains returns true if t is within [From, To]
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.From) && !t.After(w.To)
}

// Shift moves the window by d
func (w Window) Shift(d time.Duration) Window {
	return Window{From: w.From.Add(d), To: w.To.Add(d)}
}

// Clone returns a deep copy
func (s Series) Clone() Series {
	data := make([]Point, len(s.Data))
	copy(data, s.Data)
	return Series{Label: s.Label, Data: data}
}

// Last returns the last point of the series
func (s Series) Last() (Point, bool) {
	if len(s.Data) == 0 {
		return Point{}, false
	}
	return s.Data[len(s.Data)-1], true
}

func isMonotonic(points []Point) bool {
	for i := 1; i < len(points); i++ {
		if points[i].Time.Before(points[i-1].Time) {
			return false
		}
	}
	return true
}

func cloneAll(list []Series) []Series {
	out := make([]Series, len(list))
	for i, s := range list {
		out[i] = s.Clone()
	}
	return out
}
