// Copyright 2019-present Kuei-chun Chen. All rights reserved.
// timestamp.go

package timeline

import (
	"math"
	"time"
)

// Bar widths in milliseconds with a truncation rule
const (
	SecondBar = int64(1000)
	MinuteBar = int64(60 * 1000)
	HourBar   = int64(60 * 60 * 1000)
)

type truncation struct {
	minutes bool
	seconds bool
	millis  bool
}

// larger bars truncate every finer field
var truncations = map[int64]truncation{
	HourBar:   {minutes: true, seconds: true, millis: true},
	MinuteBar: {seconds: true, millis: true},
	SecondBar: {millis: true},
}

// ConvertToFakeUTC converts server epoch seconds to a time whose UTC fields
// carry the wall clock of loc, so a renderer displaying UTC shows local time.
func ConvertToFakeUTC(epochSeconds float64, barWidth int64, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	sec, frac := math.Modf(epochSeconds)
	t := time.Unix(int64(sec), int64(math.Round(frac*1000))*int64(time.Millisecond)).In(loc)
	minute, second, nsec := t.Minute(), t.Second(), t.Nanosecond()
	rule := truncations[barWidth]
	if rule.minutes {
		minute = 0
	}
	if rule.seconds {
		second = 0
	}
	if rule.millis {
		nsec = 0
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), minute, second, nsec, time.UTC)
}

// FromFakeUTC returns the real instant of a converted timestamp
func FromFakeUTC(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)
}

func toPoint(raw []float64, barWidth int64, loc *time.Location) Point {
	return Point{Time: ConvertToFakeUTC(raw[0], barWidth, loc), Value: raw[1]}
}
