// Copyright 2019-present Kuei-chun Chen. All rights reserved.
// state.go

package timeline

import (
	"sort"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// ErrUnknownSeries is returned for a series id outside of the configured set
var ErrUnknownSeries = errors.New("unknown series")

// SeriesState partitions series into the active collection shown on the chart
// and the disabled collection of hidden series. A hidden series keeps its slot
// in the active collection with an empty data set.
type SeriesState struct {
	active   []Series
	disabled map[SeriesID]Series
}

// LegendEntry -
type LegendEntry struct {
	ID       SeriesID
	Label    string
	Disabled bool
}

// NewSeriesState returns a state with every series active
func NewSeriesState(series []Series) *SeriesState {
	return &SeriesState{active: cloneAll(series), disabled: map[SeriesID]Series{}}
}

// Total returns the number of series slots
func (s *SeriesState) Total() int { return len(s.active) }

func (s *SeriesState) valid(id SeriesID) bool {
	return id >= 0 && int(id) < len(s.active)
}

// Enabled returns true if the series is shown
func (s *SeriesState) Enabled(id SeriesID) bool {
	_, hidden := s.disabled[id]
	return s.valid(id) && !hidden
}

// Toggle hides an active series or restores a hidden one, keeping its id
func (s *SeriesState) Toggle(id SeriesID) error {
	if !s.valid(id) {
		return errors.Wrapf(ErrUnknownSeries, "series %d", id)
	}
	if hidden, ok := s.disabled[id]; ok {
		s.active[id] = Series{Label: hidden.Label, Data: hidden.Data}
		delete(s.disabled, id)
		return nil
	}
	s.disabled[id] = Series{Label: s.active[id].Label, Data: s.active[id].Data}
	s.active[id].Data = []Point{}
	return nil
}

// Data returns the real data of a series regardless of its visibility
func (s *SeriesState) Data(id SeriesID) []Point {
	if hidden, ok := s.disabled[id]; ok {
		return hidden.Data
	}
	if !s.valid(id) {
		return nil
	}
	return s.active[id].Data
}

// Label -
func (s *SeriesState) Label(id SeriesID) string {
	if !s.valid(id) {
		return ""
	}
	return s.active[id].Label
}

// setData replaces the real data of a series, wherever it currently lives
func (s *SeriesState) setData(id SeriesID, data []Point) {
	if hidden, ok := s.disabled[id]; ok {
		hidden.Data = data
		s.disabled[id] = hidden
		return
	}
	s.active[id].Data = data
}

// Active returns a copy of the active collection
func (s *SeriesState) Active() []Series {
	return cloneAll(s.active)
}

// All returns every series with its real data, hidden ones included
func (s *SeriesState) All() []Series {
	all := cloneAll(s.active)
	for id, hidden := range s.disabled {
		all[id] = hidden.Clone()
	}
	return all
}

// Disabled returns the sorted ids of hidden series
func (s *SeriesState) Disabled() []SeriesID {
	ids := lo.Keys(s.disabled)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Legend -
func (s *SeriesState) Legend() []LegendEntry {
	return lo.Map(s.active, func(series Series, i int) LegendEntry {
		return LegendEntry{ID: SeriesID(i), Label: series.Label, Disabled: !s.Enabled(SeriesID(i))}
	})
}

// IDsByLabel returns ids of series with a given legend label
func (s *SeriesState) IDsByLabel(label string) []SeriesID {
	var ids []SeriesID
	for i, series := range s.active {
		if series.Label == label {
			ids = append(ids, SeriesID(i))
		}
	}
	return ids
}
