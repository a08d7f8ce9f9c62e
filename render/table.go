// Copyright 2019-present Kuei-chun Chen. All rights reserved.
// table.go

package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/simagix/timeline"
)

// Table writes the most recent value of every series as a terminal table
type Table struct {
	W io.Writer
}

// NewTable -
func NewTable(w io.Writer) *Table {
	return &Table{W: w}
}

// Draw -
func (r *Table) Draw(frame timeline.Frame) error {
	t := table.NewWriter()
	t.SetTitle(frame.Config.Name + " " + frame.DateSpan)
	t.AppendHeader(table.Row{"#", "Series", "Time", "Value", "Units", "Hidden"})
	hidden := map[timeline.SeriesID]bool{}
	for _, entry := range frame.Legend {
		hidden[entry.ID] = entry.Disabled
	}
	for i, s := range frame.Overview {
		row := table.Row{strconv.Itoa(i), s.Label, "-", "-", frame.Config.Units, ""}
		if p, ok := s.Last(); ok {
			row[2] = timeline.FormatPointTime(p.Time, frame.Config.BarWidth)
			row[3] = strconv.FormatFloat(p.Value, 'f', -1, 64)
		}
		if hidden[timeline.SeriesID(i)] {
			row[5] = "yes"
		}
		t.AppendRow(row)
	}
	_, err := fmt.Fprintln(r.W, t.Render())
	return err
}
