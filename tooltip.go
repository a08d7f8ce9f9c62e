// Copyright 2019-present Kuei-chun Chen. All rights reserved.
// tooltip.go

package timeline

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Tooltip is the text shown when hovering a point
type Tooltip struct {
	Element string // element name, {id}-tooltip
	Time    time.Time
	Header  string
	Lines   []string
}

// String -
func (t Tooltip) String() string {
	return t.Header + "\n" + strings.Join(t.Lines, "\n")
}

// FormatPointTime formats a converted timestamp with a precision that depends
// on the bar width
func FormatPointTime(t time.Time, barWidth int64) string {
	t = t.UTC()
	date := fmt.Sprintf("%d/%d ", int(t.Month()), t.Day())
	switch {
	case barWidth < MinuteBar:
		return date + t.Format("15:04:05")
	case barWidth < HourBar:
		return date + t.Format("15:04")
	default:
		return date + t.Format("15") + ":00"
	}
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// BuildTooltip composes one line per configured series for the point hovered
// in series id. Values come from whichever collection holds the real data.
func BuildTooltip(cfg GraphConfig, state *SeriesState, id SeriesID, pointIndex int) (Tooltip, error) {
	tip := Tooltip{Element: cfg.ElementName("tooltip")}
	if id < 0 || int(id) >= state.Total() {
		return tip, errors.Wrapf(ErrUnknownSeries, "series %d", id)
	}
	n := cfg.NumSeries()
	offset := 0
	if cfg.SepLastPoint && int(id) >= n {
		offset = n
		pointIndex = 0
	}
	hovered := state.Data(id)
	if pointIndex < 0 || pointIndex >= len(hovered) {
		return tip, fmt.Errorf("point %d out of range for series %d", pointIndex, id)
	}
	tip.Time = hovered[pointIndex].Time
	tip.Header = FormatPointTime(tip.Time, cfg.BarWidth)
	for i, name := range cfg.Series {
		data := state.Data(SeriesID(offset + i))
		value := "-"
		if pointIndex < len(data) {
			value = formatValue(data[pointIndex].Value)
		}
		tip.Lines = append(tip.Lines, strings.TrimSpace(name+": "+value+" "+cfg.Units))
	}
	return tip, nil
}
