// Copyright 2019-present Kuei-chun Chen. All rights reserved.
// timestamp_test.go

package timeline

import (
	"testing"
	"time"

	"go.viam.com/test"
)

var eastern = time.FixedZone("EST", -5*3600)

func epochSeconds(t time.Time) float64 {
	return float64(t.UnixMilli()) / 1000
}

func TestConvertToFakeUTC(t *testing.T) {
	instant := time.Date(2024, 3, 1, 15, 37, 42, 123*int(time.Millisecond), time.UTC)
	tests := []struct {
		barWidth int64
		expected time.Time
	}{
		{HourBar, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)},
		{MinuteBar, time.Date(2024, 3, 1, 10, 37, 0, 0, time.UTC)},
		{SecondBar, time.Date(2024, 3, 1, 10, 37, 42, 0, time.UTC)},
		{5 * MinuteBar, time.Date(2024, 3, 1, 10, 37, 42, 123*int(time.Millisecond), time.UTC)},
	}
	for _, tc := range tests {
		tm := ConvertToFakeUTC(epochSeconds(instant), tc.barWidth, eastern)
		test.That(t, tm.Location(), test.ShouldEqual, time.UTC)
		test.That(t, tm.Equal(tc.expected), test.ShouldBeTrue)
	}
}

func TestConvertToFakeUTCDayBoundary(t *testing.T) {
	// 02:30 UTC is the previous evening in EST
	instant := time.Date(2024, 3, 2, 2, 30, 0, 0, time.UTC)
	tm := ConvertToFakeUTC(epochSeconds(instant), HourBar, eastern)
	test.That(t, tm.Equal(time.Date(2024, 3, 1, 21, 0, 0, 0, time.UTC)), test.ShouldBeTrue)
}

func TestFromFakeUTC(t *testing.T) {
	instant := time.Date(2024, 3, 1, 15, 37, 42, 123*int(time.Millisecond), time.UTC)
	fake := ConvertToFakeUTC(epochSeconds(instant), 5*MinuteBar, eastern)
	test.That(t, FromFakeUTC(fake, eastern).Equal(instant), test.ShouldBeTrue)

	hour := ConvertToFakeUTC(epochSeconds(instant), HourBar, eastern)
	test.That(t, FromFakeUTC(hour, eastern).Equal(time.Date(2024, 3, 1, 15, 0, 0, 0, time.UTC)), test.ShouldBeTrue)
}

func TestConvertToFakeUTCNilLocation(t *testing.T) {
	instant := time.Date(2024, 3, 1, 15, 37, 42, 0, time.UTC)
	tm := ConvertToFakeUTC(epochSeconds(instant), SecondBar, nil)
	local := instant.In(time.Local)
	test.That(t, tm.Hour(), test.ShouldEqual, local.Hour())
	test.That(t, tm.Minute(), test.ShouldEqual, local.Minute())
	test.That(t, FromFakeUTC(tm, nil).Equal(instant), test.ShouldBeTrue)
}
